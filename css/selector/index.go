package selector

import "sort"

// Node is the element view the matcher works against. Ancestors are
// provided by the caller as a chain, so implementations do not need
// parent pointers.
type Node interface {
	Tag() string
	ID() string
	HasClass(class string) bool
	Attribute(name string) (string, bool)
	// IsLink reports whether the node is an anchor with an href.
	IsLink() bool
	// IsRoot reports whether the node is the document element.
	IsRoot() bool
	// SiblingIndex is the 1-based position among element siblings.
	SiblingIndex() int
	// IsChecked reports a checkbox or radio input in checked state.
	IsChecked() bool
}

// Match is one rule matched against an element. Rule is the id the
// index assigned when the rule was added; ids grow in stylesheet
// order, so they double as the cascade source order.
type Match struct {
	Rule        int
	Specificity Specificity
}

// Index buckets rules by the rightmost compound of their selectors,
// so that matching an element only considers plausible candidates.
// Built once per stylesheet set, read only afterwards.
type Index struct {
	byID      map[string][]int
	byClass   map[string][]int
	byTag     map[string][]int
	universal []int
	rules     [][]Selector
}

func NewIndex() *Index {
	return &Index{
		byID:    map[string][]int{},
		byClass: map[string][]int{},
		byTag:   map[string][]int{},
	}
}

// Add registers a rule's selectors and returns its assigned id.
func (ix *Index) Add(selectors []Selector) int {
	id := len(ix.rules)
	ix.rules = append(ix.rules, selectors)
	for _, sel := range selectors {
		last := sel.Last()
		switch {
		case last.ID != "":
			ix.byID[last.ID] = append(ix.byID[last.ID], id)
		case len(last.Classes) != 0:
			for _, class := range last.Classes {
				ix.byClass[class] = append(ix.byClass[class], id)
			}
		case last.Tag != "":
			ix.byTag[last.Tag] = append(ix.byTag[last.Tag], id)
		default:
			ix.universal = append(ix.universal, id)
		}
	}
	return id
}

// Match returns the rules matching el, sorted by ascending rule id.
// ancestors is the chain from the root (first) to the parent (last).
// A rule's specificity is the maximum among its matching selectors.
func (ix *Index) Match(el Node, ancestors []Node) []Match {
	seen := map[int]bool{}
	var candidates []int
	gather := func(ids []int) {
		for _, id := range ids {
			if !seen[id] {
				seen[id] = true
				candidates = append(candidates, id)
			}
		}
	}
	if id := el.ID(); id != "" {
		gather(ix.byID[id])
	}
	for class, ids := range ix.byClass {
		if el.HasClass(class) {
			gather(ids)
		}
	}
	gather(ix.byTag[el.Tag()])
	gather(ix.universal)
	sort.Ints(candidates)

	var out []Match
	for _, id := range candidates {
		matched := false
		var best Specificity
		for _, sel := range ix.rules[id] {
			if !matchSelector(sel, el, ancestors) {
				continue
			}
			if spec := sel.Specificity(); !matched || best.Less(spec) {
				best = spec
			}
			matched = true
		}
		if matched {
			out = append(out, Match{Rule: id, Specificity: best})
		}
	}
	return out
}

// matchSelector walks the compounds right to left. Each non subject
// compound takes the nearest matching ancestor below the current
// search position; there is no backtracking across a failed chain.
func matchSelector(sel Selector, el Node, ancestors []Node) bool {
	if !matchCompound(sel.Last(), el) {
		return false
	}
	pos := len(ancestors)
	for i := len(sel.Compounds) - 2; i >= 0; i-- {
		found := false
		for pos > 0 {
			pos--
			if matchCompound(&sel.Compounds[i], ancestors[pos]) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchCompound(c *Compound, node Node) bool {
	if c.Unsupported {
		return false
	}
	if c.Tag != "" && c.Tag != "*" && c.Tag != node.Tag() {
		return false
	}
	if c.ID != "" && c.ID != node.ID() {
		return false
	}
	for _, class := range c.Classes {
		if !node.HasClass(class) {
			return false
		}
	}
	for _, attr := range c.Attributes {
		v, ok := node.Attribute(attr.Name)
		if !ok || (attr.HasValue && v != attr.Value) {
			return false
		}
	}
	for i := range c.Pseudo {
		if !matchPseudo(&c.Pseudo[i], node) {
			return false
		}
	}
	return true
}

func matchPseudo(p *PseudoClass, node Node) bool {
	switch p.Kind {
	case PseudoLink:
		return node.IsLink()
	case PseudoRoot:
		return node.IsRoot()
	case PseudoChecked:
		return node.IsChecked()
	case PseudoNthChild:
		return matchNth(p.A, p.B, node.SiblingIndex())
	case PseudoNot:
		return p.Inner != nil && !matchCompound(p.Inner, node)
	default:
		// :visited and :hover, no history or pointer state is modeled
		return false
	}
}

// matchNth reports whether n is in the progression a*k+b for some
// non negative integer k.
func matchNth(a, b, n int) bool {
	if a == 0 {
		return n == b
	}
	d := n - b
	return d%a == 0 && d/a >= 0
}
