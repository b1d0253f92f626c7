package parser

import (
	"strconv"
	"strings"

	"github.com/gorilla/css/scanner"

	"github.com/minkbrowser/mink/css/selector"
)

// ParseSelector parses a single complex selector (no commas).
// Constructs outside the supported grammar do not fail the parse:
// the enclosing compound is marked unsupported, making the selector
// inert while still contributing to rule bookkeeping.
func ParseSelector(src string) selector.Selector {
	p := selectorParser{scan: scanner.New(src)}
	p.run()
	if len(p.compounds) == 0 {
		p.compounds = []selector.Compound{{Unsupported: true}}
	}
	return selector.Selector{Compounds: p.compounds}
}

type selectorParser struct {
	scan      *scanner.Scanner
	compounds []selector.Compound
	current   selector.Compound
	started   bool
	pending   bool // unsupported combinator before the next compound
}

func (p *selectorParser) run() {
	for {
		tok := p.scan.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			p.flush()
			return
		case scanner.TokenS:
			p.flush()
		case scanner.TokenComment:
		case scanner.TokenIdent:
			p.begin()
			p.current.Tag = strings.ToLower(tok.Value)
		case scanner.TokenHash:
			p.begin()
			p.current.ID = strings.TrimPrefix(tok.Value, "#")
		case scanner.TokenChar:
			switch tok.Value {
			case "*":
				p.begin()
			case ".":
				p.begin()
				if next := p.scan.Next(); next.Type == scanner.TokenIdent {
					p.current.Classes = append(p.current.Classes, next.Value)
				} else {
					p.current.Unsupported = true
				}
			case ":":
				p.begin()
				p.parsePseudo()
			case "[":
				p.begin()
				p.parseAttribute()
			case ">", "+", "~":
				// combinators beyond descendant are not matched
				p.flush()
				p.pending = true
			default:
				p.begin()
				p.current.Unsupported = true
			}
		default:
			p.begin()
			p.current.Unsupported = true
		}
	}
}

func (p *selectorParser) begin() {
	if !p.started {
		p.started = true
		p.current = selector.Compound{Unsupported: p.pending}
		p.pending = false
	}
}

func (p *selectorParser) flush() {
	if p.started {
		p.compounds = append(p.compounds, p.current)
		p.started = false
	}
}

func (p *selectorParser) parsePseudo() {
	tok := p.scan.Next()
	switch tok.Type {
	case scanner.TokenIdent:
		kind, ok := map[string]selector.PseudoClassKind{
			"link":    selector.PseudoLink,
			"visited": selector.PseudoVisited,
			"hover":   selector.PseudoHover,
			"root":    selector.PseudoRoot,
			"checked": selector.PseudoChecked,
		}[strings.ToLower(tok.Value)]
		if !ok {
			p.current.Unsupported = true
			return
		}
		p.current.Pseudo = append(p.current.Pseudo, selector.PseudoClass{Kind: kind})
	case scanner.TokenFunction:
		name := strings.ToLower(strings.TrimSuffix(tok.Value, "("))
		arg, ok := p.functionBody()
		if !ok {
			p.current.Unsupported = true
			return
		}
		switch name {
		case "nth-child":
			a, b, ok := parseNth(arg)
			if !ok {
				p.current.Unsupported = true
				return
			}
			p.current.Pseudo = append(p.current.Pseudo,
				selector.PseudoClass{Kind: selector.PseudoNthChild, A: a, B: b})
		case "not":
			inner := ParseSelector(arg)
			if len(inner.Compounds) != 1 || inner.Compounds[0].Unsupported {
				p.current.Unsupported = true
				return
			}
			p.current.Pseudo = append(p.current.Pseudo,
				selector.PseudoClass{Kind: selector.PseudoNot, Inner: &inner.Compounds[0]})
		default:
			p.current.Unsupported = true
		}
	default:
		// "::" element pseudos land here
		p.current.Unsupported = true
	}
}

// functionBody collects raw text until the balancing close paren.
func (p *selectorParser) functionBody() (string, bool) {
	var sb strings.Builder
	depth := 1
	for {
		tok := p.scan.Next()
		switch tok.Type {
		case scanner.TokenEOF, scanner.TokenError:
			return "", false
		case scanner.TokenFunction:
			depth++
		case scanner.TokenChar:
			switch tok.Value {
			case "(":
				depth++
			case ")":
				depth--
				if depth == 0 {
					return sb.String(), true
				}
			}
		}
		sb.WriteString(tok.Value)
	}
}

func (p *selectorParser) parseAttribute() {
	name := p.scan.Next()
	if name.Type != scanner.TokenIdent {
		p.current.Unsupported = true
		return
	}
	attr := selector.AttributeSelector{Name: strings.ToLower(name.Value)}
	tok := p.scan.Next()
	if tok.Type == scanner.TokenChar && tok.Value == "=" {
		val := p.scan.Next()
		switch val.Type {
		case scanner.TokenIdent, scanner.TokenNumber:
			attr.Value = val.Value
		case scanner.TokenString:
			attr.Value = strings.Trim(val.Value, `"'`)
		default:
			p.current.Unsupported = true
			return
		}
		attr.HasValue = true
		tok = p.scan.Next()
	}
	if tok.Type != scanner.TokenChar || tok.Value != "]" {
		p.current.Unsupported = true
		return
	}
	p.current.Attributes = append(p.current.Attributes, attr)
}

// parseNth parses the an+b micro syntax, including the odd and even
// keywords.
func parseNth(s string) (a, b int, ok bool) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "")
	switch s {
	case "odd":
		return 2, 1, true
	case "even":
		return 2, 0, true
	case "":
		return 0, 0, false
	}
	aPart, bPart, hasN := strings.Cut(s, "n")
	if !hasN {
		b, err := strconv.Atoi(s)
		return 0, b, err == nil
	}
	switch aPart {
	case "", "+":
		a = 1
	case "-":
		a = -1
	default:
		v, err := strconv.Atoi(aPart)
		if err != nil {
			return 0, 0, false
		}
		a = v
	}
	if bPart == "" {
		return a, 0, true
	}
	if bPart[0] != '+' && bPart[0] != '-' {
		return 0, 0, false
	}
	v, err := strconv.Atoi(bPart)
	if err != nil {
		return 0, 0, false
	}
	return a, v, true
}
