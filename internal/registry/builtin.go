// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package registry

// Module categories shown in the builder palette.
const (
	CategoryBasic       = "basic"
	CategoryMedia       = "media"
	CategoryNavigation  = "navigation"
	CategoryInteractive = "interactive"
	CategoryAdvanced    = "advanced"
)

func text(key, label string, def any) Field {
	return Field{Key: key, Label: label, Kind: FieldText, Default: def}
}

func url(key, label string) Field {
	return Field{Key: key, Label: label, Kind: FieldURL}
}

func enum(key, label string, def string, options ...string) Field {
	return Field{Key: key, Label: label, Kind: FieldEnum, Default: def, Options: options}
}

func list(key, label string) Field {
	return Field{Key: key, Label: label, Kind: FieldList, Default: []any{}}
}

func richtext(key, label string) Field {
	return Field{Key: key, Label: label, Kind: FieldRichText}
}

// Builtins returns the built-in module catalog. Each call returns fresh
// values, so callers may append plugin descriptors before calling New.
func Builtins() []Descriptor {
	targets := []string{"_self", "_blank"}
	return []Descriptor{
		{
			Type: "heading", Name: "Heading", Category: CategoryBasic,
			Tags: []string{"h1", "h2", "h3", "h4", "h5", "h6"},
			Content: []Field{
				text("text", "Text", "Heading"),
				enum("level", "Level", "h2", "h1", "h2", "h3", "h4", "h5", "h6"),
				url("url", "Link"),
				richtext("html", "Inline HTML"),
			},
		},
		{
			Type: "text", Name: "Text", Category: CategoryBasic,
			Tags: []string{"p", "span"},
			Content: []Field{
				text("text", "Text", ""),
				richtext("html", "Inline HTML"),
			},
		},
		{
			Type: "button", Name: "Button", Category: CategoryBasic,
			Tags: []string{"button", "a"},
			Content: []Field{
				text("text", "Label", "Click here"),
				url("url", "Link"),
				enum("target", "Open in", "_self", targets...),
				enum("style", "Style", "primary", "primary", "secondary", "outline"),
			},
		},
		{
			Type: "link", Name: "Link", Category: CategoryBasic,
			Tags: []string{"a"},
			Content: []Field{
				text("text", "Text", ""),
				url("url", "URL"),
				enum("target", "Open in", "_self", targets...),
			},
		},
		{
			Type: "image", Name: "Image", Category: CategoryMedia,
			Tags: []string{"img", "picture", "figure"},
			Content: []Field{
				url("src", "Source"),
				text("alt", "Alternative text", ""),
				text("width", "Width", nil),
				text("height", "Height", nil),
				text("caption", "Caption", nil),
				url("url", "Link"),
			},
		},
		{
			Type: "list", Name: "List", Category: CategoryBasic,
			Tags: []string{"ul", "ol"},
			Content: []Field{
				list("items", "Items"),
				enum("style", "Style", "unordered", "unordered", "ordered"),
			},
		},
		{
			Type: "menu", Name: "Menu", Category: CategoryNavigation,
			Tags: []string{"nav"},
			Content: []Field{
				list("items", "Items"),
			},
		},
		{
			Type: "form", Name: "Form", Category: CategoryInteractive,
			Tags: []string{"form"},
			Content: []Field{
				url("action", "Action"),
				enum("method", "Method", "get", "get", "post"),
				list("fields", "Fields"),
				text("submit_text", "Submit label", "Submit"),
			},
		},
		{
			Type: "html", Name: "HTML", Category: CategoryAdvanced,
			Content: []Field{
				richtext("html", "HTML"),
			},
		},
		{
			Type: "divider", Name: "Divider", Category: CategoryBasic,
			Tags: []string{"hr"},
		},
		{
			Type: "spacer", Name: "Spacer", Category: CategoryBasic,
			Content: []Field{
				text("height", "Height", nil),
			},
		},
		{
			Type: "video", Name: "Video", Category: CategoryMedia,
			Tags: []string{"video", "iframe"},
			Content: []Field{
				url("src", "Source"),
				url("poster", "Poster"),
				enum("provider", "Provider", "file", "file", "embed"),
			},
		},
		{
			Type: "gallery", Name: "Gallery", Category: CategoryMedia,
			Container: true, ChildType: "image",
			Content: []Field{
				{Key: "columns", Label: "Columns", Kind: FieldNumber, Default: 3},
			},
		},
		{
			Type: "tabs", Name: "Tabs", Category: CategoryInteractive,
			Container: true, ChildType: "tab",
		},
		{
			Type: "tab", Name: "Tab", Category: CategoryInteractive,
			Container: true,
			Content: []Field{
				text("title", "Title", "Tab"),
			},
		},
		{
			Type: "accordion", Name: "Accordion", Category: CategoryInteractive,
			Container: true, ChildType: "accordion_item",
			Tags: []string{"details"},
		},
		{
			Type: "accordion_item", Name: "Accordion item", Category: CategoryInteractive,
			Container: true,
			Content: []Field{
				text("title", "Title", "Item"),
			},
		},
		{
			Type: "quote", Name: "Quote", Category: CategoryBasic,
			Tags: []string{"blockquote"},
			Content: []Field{
				text("text", "Quote", ""),
				text("cite", "Citation", nil),
			},
		},
		{
			Type: "code", Name: "Code", Category: CategoryAdvanced,
			Tags: []string{"pre"},
			Content: []Field{
				text("code", "Code", ""),
				text("language", "Language", nil),
			},
		},
		{
			Type: "markdown", Name: "Markdown", Category: CategoryAdvanced,
			Content: []Field{
				richtext("markdown", "Markdown"),
			},
		},
	}
}
