package selector

import (
	"testing"

	tu "github.com/minkbrowser/mink/utils/testutils"
)

type fakeNode struct {
	tag, id string
	classes []string
	attrs   map[string]string
	link    bool
	root    bool
	checked bool
	sibling int
}

func (n *fakeNode) Tag() string { return n.tag }
func (n *fakeNode) ID() string  { return n.id }
func (n *fakeNode) HasClass(class string) bool {
	for _, c := range n.classes {
		if c == class {
			return true
		}
	}
	return false
}
func (n *fakeNode) Attribute(name string) (string, bool) {
	v, ok := n.attrs[name]
	return v, ok
}
func (n *fakeNode) IsLink() bool      { return n.link }
func (n *fakeNode) IsRoot() bool      { return n.root }
func (n *fakeNode) SiblingIndex() int { return n.sibling }
func (n *fakeNode) IsChecked() bool   { return n.checked }

func sel(compounds ...Compound) Selector { return Selector{Compounds: compounds} }

func TestIndexBucketsAndOrder(t *testing.T) {
	ix := NewIndex()
	ix.Add([]Selector{sel(Compound{Tag: "p"})})
	ix.Add([]Selector{sel(Compound{Classes: []string{"c"}})})
	ix.Add([]Selector{sel(Compound{ID: "x"})})
	ix.Add([]Selector{sel(Compound{})}) // universal

	el := &fakeNode{tag: "p", id: "x", classes: []string{"c"}}
	matches := ix.Match(el, nil)

	var rules []int
	for _, m := range matches {
		rules = append(rules, m.Rule)
	}
	tu.AssertEqual(t, rules, []int{0, 1, 2, 3})
}

func TestIndexSkipsNonCandidates(t *testing.T) {
	ix := NewIndex()
	ix.Add([]Selector{sel(Compound{Tag: "div"})})
	ix.Add([]Selector{sel(Compound{ID: "other"})})

	matches := ix.Match(&fakeNode{tag: "p"}, nil)
	tu.AssertEqual(t, len(matches), 0)
}

func TestDescendantMatching(t *testing.T) {
	// "div p" matches a p with a div anywhere above it
	s := sel(Compound{Tag: "div"}, Compound{Tag: "p"})

	root := &fakeNode{tag: "html"}
	div := &fakeNode{tag: "div"}
	span := &fakeNode{tag: "span"}
	p := &fakeNode{tag: "p"}

	if !matchSelector(s, p, []Node{root, div, span}) {
		t.Fatal("descendant chain should match")
	}
	if matchSelector(s, p, []Node{root, span}) {
		t.Fatal("missing div ancestor should not match")
	}
}

func TestDescendantConsumesAncestorsInOrder(t *testing.T) {
	// ".x .x p" needs two distinct ancestors carrying the class
	s := sel(Compound{Classes: []string{"x"}}, Compound{Classes: []string{"x"}}, Compound{Tag: "p"})
	x := &fakeNode{tag: "div", classes: []string{"x"}}
	if matchSelector(s, &fakeNode{tag: "p"}, []Node{x}) {
		t.Fatal("one ancestor cannot satisfy two compounds")
	}
	if !matchSelector(s, &fakeNode{tag: "p"}, []Node{x, x}) {
		t.Fatal("two matching ancestors should satisfy the chain")
	}
}

func TestPseudoClasses(t *testing.T) {
	link := sel(Compound{Pseudo: []PseudoClass{{Kind: PseudoLink}}})
	if !matchSelector(link, &fakeNode{tag: "a", link: true}, nil) {
		t.Fatal(":link should match an anchor with href")
	}
	if matchSelector(link, &fakeNode{tag: "a"}, nil) {
		t.Fatal(":link should not match without href")
	}

	checked := sel(Compound{Pseudo: []PseudoClass{{Kind: PseudoChecked}}})
	if !matchSelector(checked, &fakeNode{tag: "input", checked: true}, nil) {
		t.Fatal(":checked should match")
	}

	hover := sel(Compound{Pseudo: []PseudoClass{{Kind: PseudoHover}}})
	if matchSelector(hover, &fakeNode{tag: "a", link: true}, nil) {
		t.Fatal(":hover never matches, no pointer state is modeled")
	}
}

func TestNotPseudo(t *testing.T) {
	inner := Compound{Classes: []string{"skip"}}
	s := sel(Compound{Tag: "p", Pseudo: []PseudoClass{{Kind: PseudoNot, Inner: &inner}}})

	if !matchSelector(s, &fakeNode{tag: "p"}, nil) {
		t.Fatal("p:not(.skip) should match a plain p")
	}
	if matchSelector(s, &fakeNode{tag: "p", classes: []string{"skip"}}, nil) {
		t.Fatal("p:not(.skip) should not match p.skip")
	}
}

func TestNthChildProgression(t *testing.T) {
	cases := []struct {
		a, b, n int
		want    bool
	}{
		{2, 1, 1, true},  // odd
		{2, 1, 2, false},
		{2, 0, 2, true},  // even
		{0, 3, 3, true},  // exact index
		{0, 3, 4, false},
		{3, 1, 7, true},  // 3k+1
		{-1, 3, 2, true}, // first three
		{-1, 3, 4, false},
	}
	for _, c := range cases {
		if got := matchNth(c.a, c.b, c.n); got != c.want {
			t.Fatalf("matchNth(%d, %d, %d) = %v", c.a, c.b, c.n, got)
		}
	}
}

func TestAttributeMatching(t *testing.T) {
	present := sel(Compound{Attributes: []AttributeSelector{{Name: "disabled"}}})
	if !matchSelector(present, &fakeNode{tag: "input", attrs: map[string]string{"disabled": ""}}, nil) {
		t.Fatal("[disabled] should match on presence")
	}

	valued := sel(Compound{Attributes: []AttributeSelector{{Name: "type", Value: "text", HasValue: true}}})
	if !matchSelector(valued, &fakeNode{tag: "input", attrs: map[string]string{"type": "radio"}}, nil) {
		t.Fatal("[type=text] should not match type=radio")
	}
}

func TestSpecificityOrdering(t *testing.T) {
	id := sel(Compound{ID: "x"}).Specificity()
	class := sel(Compound{Classes: []string{"c"}}).Specificity()
	tag := sel(Compound{Tag: "p"}).Specificity()

	if !class.Less(id) || !tag.Less(class) {
		t.Fatal("expected tag < class < id")
	}

	manyClasses := sel(Compound{Classes: []string{"a", "b", "c"}}).Specificity()
	if !manyClasses.Less(id) {
		t.Fatal("any number of classes stays below one id")
	}
}

func TestMatchKeepsBestSpecificity(t *testing.T) {
	ix := NewIndex()
	// one rule, two alternative selectors of different weight
	ix.Add([]Selector{
		sel(Compound{Tag: "p"}),
		sel(Compound{Tag: "p", ID: "x"}),
	})
	matches := ix.Match(&fakeNode{tag: "p", id: "x"}, nil)
	tu.AssertEqual(t, len(matches), 1)
	tu.AssertEqual(t, matches[0].Specificity.IDs, 1)
}

func TestUnsupportedCompoundNeverMatches(t *testing.T) {
	s := sel(Compound{Unsupported: true})
	if matchSelector(s, &fakeNode{tag: "p"}, nil) {
		t.Fatal("unsupported compounds must be inert")
	}
}
