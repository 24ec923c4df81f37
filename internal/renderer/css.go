// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package renderer

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"

	"pagecraft/internal/document"
	"pagecraft/internal/registry"
)

// baseRules precede the per-node rules of every stylesheet.
var baseRules = []*css.Rule{
	qualified(".pc-section", declare("position", "relative")),
	qualified(".pc-row", declare("display", "flex"), declare("flex-wrap", "wrap")),
	qualified(".pc-column", declare("flex", "1 1 0"), declare("min-width", "0")),
	qualified(".pc-spacer", declare("height", "40px")),
	qualified(".pc-gallery", declare("display", "grid"),
		declare("grid-template-columns", "repeat(3,minmax(0,1fr))"), declare("gap", "1rem")),
	qualified(".pc-tabs [role=tabpanel][hidden]", declare("display", "none")),
	qualified(".pc-button", declare("display", "inline-block")),
	media(mobileQuery, qualified(".pc-column", declare("flex", "0 0 100%"), declare("max-width", "100%"))),
}

const (
	mobileQuery  = "(max-width:767px)"
	desktopQuery = "(min-width:768px)"
)

// lengthKeys take a px unit when given as a bare number.
var lengthKeys = map[string]bool{
	registry.FontSize: true, registry.LetterSpacing: true,
	registry.PaddingTop: true, registry.PaddingRight: true, registry.PaddingBottom: true, registry.PaddingLeft: true,
	registry.MarginTop: true, registry.MarginRight: true, registry.MarginBottom: true, registry.MarginLeft: true,
	registry.BorderWidth: true, registry.BorderRadius: true,
	registry.Width: true, registry.MaxWidth: true, registry.MinHeight: true, registry.Height: true,
}

func declare(prop, value string) *css.Declaration {
	return &css.Declaration{Property: prop, Value: value}
}

func qualified(selector string, decls ...*css.Declaration) *css.Rule {
	return &css.Rule{Kind: css.QualifiedRule, Selectors: []string{selector}, Declarations: decls}
}

// media nests rules in an @media block.
func media(query string, rules ...*css.Rule) *css.Rule {
	for _, r := range rules {
		r.EmbedLevel = 1
	}
	return &css.Rule{Kind: css.AtRule, Name: "@media", Prelude: query, Rules: rules}
}

func (f *frame) add(r *css.Rule) {
	f.rules = append(f.rules, r)
}

// stylesheet serializes the base rules followed by the rules of the frame.
func (f *frame) stylesheet() string {
	sheet := css.Stylesheet{Rules: make([]*css.Rule, 0, len(baseRules)+len(f.rules))}
	sheet.Rules = append(sheet.Rules, baseRules...)
	sheet.Rules = append(sheet.Rules, f.rules...)
	return sheet.String() + "\n"
}

// design emits the design rule of a layout node.
func (f *frame) design(scope string, design document.Props) {
	f.rule(scope, registry.DesignFields(), design)
}

// rule adds "#scope" with the design fields present in props, in field
// order.
func (f *frame) rule(scope string, fields []registry.Field, props document.Props) {
	if len(props) == 0 {
		return
	}
	var decls []*css.Declaration
	for _, fd := range fields {
		if fd.CSS == "" {
			continue
		}
		raw, ok := props[fd.Key]
		if !ok {
			continue
		}
		if val := cssValue(fd.Key, raw); val != "" {
			decls = append(decls, declare(fd.CSS, val))
		}
	}
	if len(decls) == 0 {
		return
	}
	f.add(qualified("#"+scope, decls...))
}

// advanced emits the module design rule plus its custom CSS and visibility.
func (f *frame) advanced(v view) {
	f.rule(v.scope, v.desc.Design, v.Design)

	if custom, ok := v.Advanced.String(registry.CustomCSS); ok {
		f.custom(v, custom)
	}

	vis, _ := v.Advanced.String(registry.Visibility)
	switch vis {
	case registry.VisibleDesktop:
		f.add(media(mobileQuery, qualified("#"+v.scope, declare("display", "none"))))
	case registry.VisibleMobile:
		f.add(media(desktopQuery, qualified("#"+v.scope, declare("display", "none"))))
	}
}

// custom adds the custom CSS of a module. Plain declarations apply to the
// module itself. Source naming "selector" is a stylesheet where selector
// stands for the module; rules that escape the module are dropped.
func (f *frame) custom(v view, src string) {
	src = strings.TrimSpace(src)
	if src == "" || strings.Contains(src, "</") {
		return
	}
	self := "#" + v.scope
	if !strings.Contains(src, "selector") {
		decls, err := parser.ParseDeclarations(src)
		if err != nil || len(decls) == 0 {
			f.r.log.Debug("custom css ignored", "id", v.ID, "error", err)
			return
		}
		f.add(qualified(self, decls...))
		return
	}
	sheet, err := parser.Parse(strings.ReplaceAll(src, "selector", self))
	if err != nil {
		f.r.log.Debug("custom css ignored", "id", v.ID, "error", err)
		return
	}
	for _, r := range sheet.Rules {
		if scopedTo(r, self) {
			f.add(r)
		}
	}
}

// scopedTo reports whether every selector of r, or of the rules nested in
// it, starts at the element self.
func scopedTo(r *css.Rule, self string) bool {
	if r.Kind == css.AtRule {
		if !r.EmbedsRules() || len(r.Rules) == 0 {
			return false
		}
		for _, sub := range r.Rules {
			if !scopedTo(sub, self) {
				return false
			}
		}
		return true
	}
	if len(r.Selectors) == 0 {
		return false
	}
	for _, sel := range r.Selectors {
		rest, ok := strings.CutPrefix(strings.TrimSpace(sel), self)
		if !ok || (rest != "" && !strings.ContainsRune(" >+~:.[", rune(rest[0]))) {
			return false
		}
	}
	return true
}

// cssValue formats a design value, or returns "" when it is empty or would
// break out of its declaration.
func cssValue(key string, raw any) string {
	val := strings.TrimSpace(document.Stringify(raw))
	if val == "" || strings.ContainsAny(val, "{};<>") {
		return ""
	}
	switch raw.(type) {
	case float64, float32, int, int64:
		if lengthKeys[key] && val != "0" {
			val += "px"
		}
	}
	if key == registry.BackgroundImage && !strings.Contains(val, "(") {
		if strings.ContainsAny(val, `"\`) {
			return ""
		}
		val = `url("` + val + `")`
	}
	return val
}
