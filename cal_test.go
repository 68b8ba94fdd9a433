package cal

import (
	"os"
	"testing"

	"github.com/klauskaan/cal-language-core/symbols"
)

func mustReadTestdata(t *testing.T, name string) string {
	t.Helper()
	b, err := os.ReadFile("testdata/" + name)
	if err != nil {
		t.Fatalf("reading testdata %s: %v", name, err)
	}
	return string(b)
}

func TestParseTableObjectNoErrors(t *testing.T) {
	src := mustReadTestdata(t, "table_customer.cal")
	doc, diags := Parse(src)
	if HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if doc == nil || doc.Object == nil {
		t.Fatal("expected a non-nil Document.Object")
	}
	if doc.Object.Kind != TableObject {
		t.Errorf("Kind = %v, want TableObject", doc.Object.Kind)
	}
	if doc.Object.ID != 18 || doc.Object.Name != "Customer" {
		t.Errorf("ID/Name = %d/%q, want 18/Customer", doc.Object.ID, doc.Object.Name)
	}
}

func TestTokenizeTriviaRoundTrips(t *testing.T) {
	src := mustReadTestdata(t, "codeunit_sample.cal")
	toks := Tokenize(src, true)
	var rebuilt string
	for _, tok := range toks {
		rebuilt += src[tok.Start:tok.End]
	}
	if rebuilt != src {
		t.Error("concatenating TokenizeWithTrivia's token spans should reconstruct the source byte-for-byte")
	}

	significant := Tokenize(src, false)
	if len(significant) >= len(toks) {
		t.Errorf("excluding trivia should yield fewer tokens: significant=%d, withTrivia=%d", len(significant), len(toks))
	}
}

func TestBuildSymbolsFromParsedDocument(t *testing.T) {
	src := mustReadTestdata(t, "table_customer.cal")
	doc, _ := Parse(src)
	table := BuildSymbols(doc)

	if !table.HasSymbol("Name") {
		t.Error("expected the Name field to be a top-level symbol")
	}
	sym, ok := table.GetSymbol("Balance (LCY)")
	if !ok || sym.Kind != symbols.FieldSymbol {
		t.Errorf("GetSymbol(Balance (LCY)) = %+v, %v", sym, ok)
	}
}

func TestParsePropertyValueCalcFormula(t *testing.T) {
	src := mustReadTestdata(t, "table_customer.cal")
	doc, _ := Parse(src)

	var balanceField *FieldDeclaration
	for _, f := range doc.Object.Fields {
		if f.Name == "Balance (LCY)" {
			balanceField = f
		}
	}
	if balanceField == nil {
		t.Fatal("expected to find the Balance (LCY) field")
	}

	var calcProp *Property
	for _, p := range balanceField.Properties {
		if p.Name == "CalcFormula" {
			calcProp = p
		}
	}
	if calcProp == nil {
		t.Fatal("expected a CalcFormula property on Balance (LCY)")
	}

	node, diags, ok := ParsePropertyValue(calcProp.Name, calcProp.ValueTokens)
	if !ok {
		t.Fatal("expected ParsePropertyValue to recognize CalcFormula")
	}
	if HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	formula, isFormula := node.(*CalcFormulaNode)
	if !isFormula {
		t.Fatalf("expected a *CalcFormulaNode, got %T", node)
	}
	if formula.AggregationFunction != "Sum" || formula.SourceTable != "Cust. Ledger Entry" {
		t.Errorf("formula = %+v", formula)
	}
}

func TestParsePropertyValueUnknownPropertyReportsNotOK(t *testing.T) {
	_, _, ok := ParsePropertyValue("Editable", nil)
	if ok {
		t.Error("ParsePropertyValue should report ok=false for a property with no mini-grammar")
	}
}

func TestWalkCountsNodes(t *testing.T) {
	src := mustReadTestdata(t, "codeunit_sample.cal")
	doc, _ := Parse(src)

	count := 0
	Walk(VisitorFunc(func(n Node) WalkAction {
		count++
		return Descend
	}), doc)

	if count == 0 {
		t.Error("expected Walk to visit at least one node")
	}
}

func TestInspectorFindsProcedureByName(t *testing.T) {
	src := mustReadTestdata(t, "codeunit_sample.cal")
	doc, _ := Parse(src)

	insp := NewInspector(doc)
	found := insp.Find(func(n Node) bool {
		proc, ok := n.(*ProcedureDeclaration)
		return ok && proc.Name == "CheckLines"
	})
	if found == nil {
		t.Error("expected to find the CheckLines procedure via Inspector.Find")
	}
}
