// Package selector implements the selector model, the rule index and
// the matcher used by style resolution.
//
// See https://www.w3.org/TR/selectors-3/
package selector

// PseudoClassKind enumerates the supported pseudo classes.
type PseudoClassKind uint8

const (
	PseudoLink PseudoClassKind = iota
	PseudoVisited
	PseudoHover
	PseudoRoot
	PseudoChecked
	PseudoNthChild
	PseudoNot
)

// PseudoClass is one :name(...) term of a compound selector.
// A and B carry the an+b arguments of :nth-child; Inner carries the
// negated compound of :not.
type PseudoClass struct {
	Inner *Compound
	Kind  PseudoClassKind
	A, B  int
}

// AttributeSelector matches the presence of an attribute, and its
// exact value when HasValue is set.
type AttributeSelector struct {
	Name     string
	Value    string
	HasValue bool
}

// Compound is a compound selector: the simple selectors applying to
// one element. An empty compound (no constraints) is the universal
// selector. Unsupported marks compounds containing constructs the
// matcher does not implement; they never match anything.
type Compound struct {
	Tag         string
	ID          string
	Classes     []string
	Attributes  []AttributeSelector
	Pseudo      []PseudoClass
	Unsupported bool
}

// Selector is a complex selector, its compounds stored left to right
// as written. Only the descendant combinator is supported between
// compounds; selectors written with other combinators are marked
// unsupported at parse time.
type Selector struct {
	Compounds []Compound
}

// Last returns the rightmost compound, the one matched against the
// subject element.
func (s Selector) Last() *Compound {
	return &s.Compounds[len(s.Compounds)-1]
}

// Specificity is a selector weight. Inline is set only on the pseudo
// specificity attached to style="" declarations and outranks any
// stylesheet selector.
type Specificity struct {
	Inline  int
	IDs     int
	Classes int
	Tags    int
}

// Less reports strict cascade ordering between two specificities.
func (s Specificity) Less(other Specificity) bool {
	if s.Inline != other.Inline {
		return s.Inline < other.Inline
	}
	if s.IDs != other.IDs {
		return s.IDs < other.IDs
	}
	if s.Classes != other.Classes {
		return s.Classes < other.Classes
	}
	return s.Tags < other.Tags
}

func (s Specificity) add(other Specificity) Specificity {
	return Specificity{
		Inline:  s.Inline + other.Inline,
		IDs:     s.IDs + other.IDs,
		Classes: s.Classes + other.Classes,
		Tags:    s.Tags + other.Tags,
	}
}

// Specificity computes the weight of the whole selector.
func (s Selector) Specificity() Specificity {
	var out Specificity
	for _, c := range s.Compounds {
		out = out.add(c.specificity())
	}
	return out
}

func (c Compound) specificity() Specificity {
	var out Specificity
	if c.ID != "" {
		out.IDs++
	}
	out.Classes += len(c.Classes) + len(c.Attributes) + len(c.Pseudo)
	if c.Tag != "" && c.Tag != "*" {
		out.Tags++
	}
	for _, p := range c.Pseudo {
		if p.Kind == PseudoNot && p.Inner != nil {
			// :not counts its argument, not itself
			out.Classes--
			out = out.add(p.Inner.specificity())
		}
	}
	return out
}
