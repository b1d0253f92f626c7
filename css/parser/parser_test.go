package parser

import (
	"testing"

	"github.com/minkbrowser/mink/css/selector"
	tu "github.com/minkbrowser/mink/utils/testutils"
)

func TestParseStylesheetRules(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	sheet := ParseStylesheet("p { color: red; margin: 0 }\n.big { font-size: 20px }", Size{})
	tu.AssertEqual(t, len(sheet.Rules), 2)
	tu.AssertEqual(t, sheet.Rules[0].Declarations, []Declaration{
		{Name: "color", Value: "red"},
		{Name: "margin", Value: "0"},
	})
	tu.AssertEqual(t, sheet.Rules[1].Selectors[0].Specificity(), selector.Specificity{Classes: 1})
}

func TestParseStylesheetLowercasesPropertyNames(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	sheet := ParseStylesheet("p { COLOR: red }", Size{})
	tu.AssertEqual(t, sheet.Rules[0].Declarations[0].Name, "color")
}

func TestImportantDroppedWithWarning(t *testing.T) {
	logs := tu.CaptureLogs()

	sheet := ParseStylesheet("p { color: red !important; margin: 0 }", Size{})
	tu.AssertEqual(t, sheet.Rules[0].Declarations, []Declaration{{Name: "margin", Value: "0"}})
	tu.AssertEqual(t, len(logs.Logs()), 1)
}

func TestUnsupportedAtRuleSkipped(t *testing.T) {
	logs := tu.CaptureLogs()

	sheet := ParseStylesheet("@font-face { font-family: x } p { color: red }", Size{})
	tu.AssertEqual(t, len(sheet.Rules), 1)
	tu.AssertEqual(t, len(logs.Logs()), 1)
}

func TestMediaQueryFiltering(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	src := `
		@media (min-width: 600px) { p { color: red } }
		@media (max-width: 500px) { p { color: blue } }
		@media screen and (min-width: 100px) and (max-width: 900px) { p { color: green } }
		@media print { p { color: black } }
	`
	sheet := ParseStylesheet(src, Size{Width: 800, Height: 600})
	tu.AssertEqual(t, len(sheet.Rules), 2)
	tu.AssertEqual(t, sheet.Rules[0].Declarations[0].Value, "red")
	tu.AssertEqual(t, sheet.Rules[1].Declarations[0].Value, "green")
}

func TestParseInline(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	decls := ParseInline("color: red; Font-Size: 12px")
	tu.AssertEqual(t, decls, []Declaration{
		{Name: "color", Value: "red"},
		{Name: "font-size", Value: "12px"},
	})
}

func TestParseSelectorCompounds(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := ParseSelector("div p.note")
	tu.AssertEqual(t, len(s.Compounds), 2)
	tu.AssertEqual(t, s.Compounds[0].Tag, "div")
	tu.AssertEqual(t, s.Compounds[1].Tag, "p")
	tu.AssertEqual(t, s.Compounds[1].Classes, []string{"note"})
}

func TestParseSelectorSpecificityRanking(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	id := ParseSelector("#x").Specificity()
	class := ParseSelector(".c").Specificity()
	if !class.Less(id) {
		t.Fatal("an id selector must outrank a class selector")
	}
}

func TestParseSelectorChildCombinatorUnsupported(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := ParseSelector("div > p")
	last := s.Last()
	tu.AssertEqual(t, last.Unsupported, true)
}

func TestParseSelectorNthChild(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := ParseSelector("li:nth-child(2n+1)")
	c := s.Compounds[0]
	tu.AssertEqual(t, len(c.Pseudo), 1)
	tu.AssertEqual(t, c.Pseudo[0].Kind, selector.PseudoNthChild)
	tu.AssertEqual(t, c.Pseudo[0].A, 2)
	tu.AssertEqual(t, c.Pseudo[0].B, 1)

	odd := ParseSelector(":nth-child(odd)").Compounds[0].Pseudo[0]
	tu.AssertEqual(t, odd.A, 2)
	tu.AssertEqual(t, odd.B, 1)

	even := ParseSelector(":nth-child(even)").Compounds[0].Pseudo[0]
	tu.AssertEqual(t, even.A, 2)
	tu.AssertEqual(t, even.B, 0)
}

func TestParseSelectorNot(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := ParseSelector("p:not(.skip)")
	c := s.Compounds[0]
	tu.AssertEqual(t, c.Pseudo[0].Kind, selector.PseudoNot)
	tu.AssertEqual(t, c.Pseudo[0].Inner.Classes, []string{"skip"})
}

func TestParseSelectorAttributes(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	presence := ParseSelector("[href]").Compounds[0].Attributes[0]
	tu.AssertEqual(t, presence, selector.AttributeSelector{Name: "href"})

	valued := ParseSelector(`input[type="text"]`).Compounds[0].Attributes[0]
	tu.AssertEqual(t, valued, selector.AttributeSelector{Name: "type", Value: "text", HasValue: true})
}

func TestParseSelectorLinkPseudo(t *testing.T) {
	defer tu.CaptureLogs().AssertNoLogs(t)

	s := ParseSelector("a:link")
	tu.AssertEqual(t, s.Compounds[0].Pseudo[0].Kind, selector.PseudoLink)
}
