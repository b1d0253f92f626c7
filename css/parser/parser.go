// Package parser turns stylesheet text into the rule model consumed
// by style resolution. The heavy lifting of splitting rules and
// declarations is delegated to douceur; selectors are tokenized with
// the gorilla scanner and parsed here.
//
// Malformed input is never an error: offending rules or declarations
// are logged and dropped, per the CSS error recovery rules.
package parser

import (
	"strconv"
	"strings"

	"github.com/aymerick/douceur/css"
	douceur "github.com/aymerick/douceur/parser"

	"github.com/minkbrowser/mink/css/selector"
	"github.com/minkbrowser/mink/logger"
	"github.com/minkbrowser/mink/utils"
)

// Size is a viewport dimension, used to evaluate media queries.
type Size struct {
	Width, Height utils.Px
}

// Declaration is one property:value pair. Values are kept as raw
// strings; value parsing happens per property during the cascade.
type Declaration struct {
	Name  string
	Value string
}

// Rule is a qualified rule: alternative selectors plus declarations.
type Rule struct {
	Selectors    []selector.Selector
	Declarations []Declaration
}

// Stylesheet is an ordered rule list, media filtered at parse time.
type Stylesheet struct {
	Rules []Rule
}

// ParseStylesheet parses stylesheet source. Rules inside @media
// blocks are included only when the query matches the viewport;
// other at-rules are skipped with a warning.
func ParseStylesheet(src string, viewport Size) *Stylesheet {
	parsed, err := douceur.Parse(src)
	sheet := &Stylesheet{}
	if err != nil {
		logger.WarningLogger.Printf("discarding unparsable stylesheet: %s", err)
		return sheet
	}
	appendRules(sheet, parsed.Rules, viewport)
	return sheet
}

func appendRules(sheet *Stylesheet, rules []*css.Rule, viewport Size) {
	for _, r := range rules {
		switch r.Kind {
		case css.QualifiedRule:
			if rule, ok := convertRule(r); ok {
				sheet.Rules = append(sheet.Rules, rule)
			}
		case css.AtRule:
			if r.Name != "@media" {
				logger.WarningLogger.Printf("skipping unsupported at-rule %s", r.Name)
				continue
			}
			if evalMediaQuery(r.Prelude, viewport) {
				appendRules(sheet, r.Rules, viewport)
			}
		}
	}
}

func convertRule(r *css.Rule) (Rule, bool) {
	var rule Rule
	for _, sel := range r.Selectors {
		rule.Selectors = append(rule.Selectors, ParseSelector(sel))
	}
	if len(rule.Selectors) == 0 {
		return Rule{}, false
	}
	for _, d := range r.Declarations {
		if d.Important {
			logger.WarningLogger.Printf("ignoring !important on %s", d.Property)
			continue
		}
		rule.Declarations = append(rule.Declarations, Declaration{
			Name:  strings.ToLower(strings.TrimSpace(d.Property)),
			Value: strings.TrimSpace(d.Value),
		})
	}
	return rule, true
}

// ParseInline parses the content of a style attribute.
func ParseInline(style string) []Declaration {
	parsed, err := douceur.ParseDeclarations(style)
	if err != nil {
		logger.WarningLogger.Printf("discarding unparsable inline style: %s", err)
		return nil
	}
	var out []Declaration
	for _, d := range parsed {
		out = append(out, Declaration{
			Name:  strings.ToLower(strings.TrimSpace(d.Property)),
			Value: strings.TrimSpace(d.Value),
		})
	}
	return out
}

// evalMediaQuery evaluates the supported subset: the screen and all
// media types, min-width and max-width features, joined with "and".
// Anything else makes the whole query false.
func evalMediaQuery(prelude string, viewport Size) bool {
	for _, term := range strings.Split(strings.ToLower(prelude), " and ") {
		term = strings.TrimSpace(term)
		switch term {
		case "screen", "all", "":
			continue
		}
		if !strings.HasPrefix(term, "(") || !strings.HasSuffix(term, ")") {
			return false
		}
		name, value, ok := strings.Cut(term[1:len(term)-1], ":")
		if !ok {
			return false
		}
		px, ok := parseMediaPx(strings.TrimSpace(value))
		if !ok {
			return false
		}
		switch strings.TrimSpace(name) {
		case "min-width":
			if viewport.Width < px {
				return false
			}
		case "max-width":
			if viewport.Width > px {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func parseMediaPx(s string) (utils.Px, bool) {
	if !strings.HasSuffix(s, "px") {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(strings.TrimSuffix(s, "px")))
	if err != nil {
		return 0, false
	}
	return utils.Px(v), true
}
