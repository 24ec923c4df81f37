// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package registry

// Kind enumerates the module kinds the renderer implements. Every registry
// type resolves to exactly one kind; types that do not are passthrough.
type Kind string

const (
	KindHeading       Kind = "heading"
	KindText          Kind = "text"
	KindButton        Kind = "button"
	KindLink          Kind = "link"
	KindImage         Kind = "image"
	KindList          Kind = "list"
	KindMenu          Kind = "menu"
	KindForm          Kind = "form"
	KindHTML          Kind = "html"
	KindDivider       Kind = "divider"
	KindSpacer        Kind = "spacer"
	KindVideo         Kind = "video"
	KindGallery       Kind = "gallery"
	KindTabs          Kind = "tabs"
	KindTab           Kind = "tab"
	KindAccordion     Kind = "accordion"
	KindAccordionItem Kind = "accordion_item"
	KindQuote         Kind = "quote"
	KindCode          Kind = "code"
	KindMarkdown      Kind = "markdown"

	// KindUnknown marks a type string no renderer implements.
	KindUnknown Kind = ""
)

var knownKinds = map[Kind]bool{
	KindHeading: true, KindText: true, KindButton: true, KindLink: true,
	KindImage: true, KindList: true, KindMenu: true, KindForm: true,
	KindHTML: true, KindDivider: true, KindSpacer: true, KindVideo: true,
	KindGallery: true, KindTabs: true, KindTab: true, KindAccordion: true,
	KindAccordionItem: true, KindQuote: true, KindCode: true, KindMarkdown: true,
}

// Known reports whether k is an implemented kind.
func (k Kind) Known() bool { return knownKinds[k] }

// KindOf maps a type string to its kind, or KindUnknown.
func KindOf(typ string) Kind {
	if k := Kind(typ); k.Known() {
		return k
	}
	return KindUnknown
}

// Design vocabulary keys. The converter writes these keys and the renderer
// reads them, so both sides share one spelling.
const (
	BackgroundColor = "background_color"
	BackgroundImage = "background_image"
	TextColor       = "text_color"
	FontFamily      = "font_family"
	FontSize        = "font_size"
	FontWeight      = "font_weight"
	FontStyle       = "font_style"
	LineHeight      = "line_height"
	LetterSpacing   = "letter_spacing"
	TextAlign       = "text_align"
	TextTransform   = "text_transform"
	PaddingTop      = "padding_top"
	PaddingRight    = "padding_right"
	PaddingBottom   = "padding_bottom"
	PaddingLeft     = "padding_left"
	MarginTop       = "margin_top"
	MarginRight     = "margin_right"
	MarginBottom    = "margin_bottom"
	MarginLeft      = "margin_left"
	BorderWidth     = "border_width"
	BorderStyle     = "border_style"
	BorderColor     = "border_color"
	BorderRadius    = "border_radius"
	Width           = "width"
	MaxWidth        = "max_width"
	MinHeight       = "min_height"
	Height          = "height"
	BoxShadow       = "box_shadow"
	Opacity         = "opacity"
)

// Advanced keys shared by every module.
const (
	CSSID      = "css_id"
	CSSClass   = "css_class"
	CustomCSS  = "custom_css"
	Visibility = "visibility"
)

// Visibility values.
const (
	VisibleAll     = "all"
	VisibleDesktop = "desktop"
	VisibleMobile  = "mobile"
)

// DesignFields returns the shared design vocabulary in emission order.
func DesignFields() []Field {
	return []Field{
		{Key: BackgroundColor, Label: "Background color", Kind: FieldColor, CSS: "background-color"},
		{Key: BackgroundImage, Label: "Background image", Kind: FieldURL, CSS: "background-image"},
		{Key: TextColor, Label: "Text color", Kind: FieldColor, CSS: "color"},
		{Key: FontFamily, Label: "Font family", Kind: FieldText, CSS: "font-family"},
		{Key: FontSize, Label: "Font size", Kind: FieldText, CSS: "font-size"},
		{Key: FontWeight, Label: "Font weight", Kind: FieldText, CSS: "font-weight"},
		{Key: FontStyle, Label: "Font style", Kind: FieldEnum, CSS: "font-style", Options: []string{"normal", "italic", "oblique"}},
		{Key: LineHeight, Label: "Line height", Kind: FieldText, CSS: "line-height"},
		{Key: LetterSpacing, Label: "Letter spacing", Kind: FieldText, CSS: "letter-spacing"},
		{Key: TextAlign, Label: "Text align", Kind: FieldEnum, CSS: "text-align", Options: []string{"left", "center", "right", "justify"}},
		{Key: TextTransform, Label: "Text transform", Kind: FieldEnum, CSS: "text-transform", Options: []string{"none", "uppercase", "lowercase", "capitalize"}},
		{Key: PaddingTop, Label: "Padding top", Kind: FieldText, CSS: "padding-top"},
		{Key: PaddingRight, Label: "Padding right", Kind: FieldText, CSS: "padding-right"},
		{Key: PaddingBottom, Label: "Padding bottom", Kind: FieldText, CSS: "padding-bottom"},
		{Key: PaddingLeft, Label: "Padding left", Kind: FieldText, CSS: "padding-left"},
		{Key: MarginTop, Label: "Margin top", Kind: FieldText, CSS: "margin-top"},
		{Key: MarginRight, Label: "Margin right", Kind: FieldText, CSS: "margin-right"},
		{Key: MarginBottom, Label: "Margin bottom", Kind: FieldText, CSS: "margin-bottom"},
		{Key: MarginLeft, Label: "Margin left", Kind: FieldText, CSS: "margin-left"},
		{Key: BorderWidth, Label: "Border width", Kind: FieldText, CSS: "border-width"},
		{Key: BorderStyle, Label: "Border style", Kind: FieldEnum, CSS: "border-style", Options: []string{"none", "solid", "dashed", "dotted", "double"}},
		{Key: BorderColor, Label: "Border color", Kind: FieldColor, CSS: "border-color"},
		{Key: BorderRadius, Label: "Border radius", Kind: FieldText, CSS: "border-radius"},
		{Key: Width, Label: "Width", Kind: FieldText, CSS: "width"},
		{Key: MaxWidth, Label: "Max width", Kind: FieldText, CSS: "max-width"},
		{Key: MinHeight, Label: "Min height", Kind: FieldText, CSS: "min-height"},
		{Key: Height, Label: "Height", Kind: FieldText, CSS: "height"},
		{Key: BoxShadow, Label: "Box shadow", Kind: FieldText, CSS: "box-shadow"},
		{Key: Opacity, Label: "Opacity", Kind: FieldNumber, CSS: "opacity"},
	}
}

// AdvancedFields returns the advanced group shared by every module.
func AdvancedFields() []Field {
	return []Field{
		{Key: CSSID, Label: "CSS ID", Kind: FieldText},
		{Key: CSSClass, Label: "CSS classes", Kind: FieldText},
		{Key: CustomCSS, Label: "Custom CSS", Kind: FieldText},
		{Key: Visibility, Label: "Visibility", Kind: FieldEnum, Default: VisibleAll,
			Options: []string{VisibleAll, VisibleDesktop, VisibleMobile}},
	}
}

// DesignKey returns the design vocabulary key of a CSS property.
func DesignKey(property string) (string, bool) {
	k, ok := keyByCSS[property]
	return k, ok
}

var keyByCSS = func() map[string]string {
	fields := DesignFields()
	byCSS := make(map[string]string, len(fields))
	for _, f := range fields {
		byCSS[f.CSS] = f.Key
	}
	return byCSS
}()
