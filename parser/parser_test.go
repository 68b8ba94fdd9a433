package parser

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauskaan/cal-language-core/ast"
	"github.com/klauskaan/cal-language-core/diagnostics"
)

func mustReadTestdata(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "testdata", name))
	if err != nil {
		t.Fatalf("reading testdata/%s: %v", name, err)
	}
	return string(data)
}

func TestParseDocumentHeader(t *testing.T) {
	doc, diags := ParseDocument(mustReadTestdata(t, "table_customer.cal"))
	if diagnostics.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	if doc.Object == nil {
		t.Fatal("expected a parsed object")
	}
	if doc.Object.Kind != ast.TableObject {
		t.Errorf("Kind = %v, want TableObject", doc.Object.Kind)
	}
	if doc.Object.ID != 18 {
		t.Errorf("ID = %d, want 18", doc.Object.ID)
	}
	if doc.Object.Name != "Customer" {
		t.Errorf("Name = %q, want Customer", doc.Object.Name)
	}
}

func TestParseTableFieldsKeysFieldGroups(t *testing.T) {
	doc, diags := ParseDocument(mustReadTestdata(t, "table_customer.cal"))
	if diagnostics.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	obj := doc.Object

	if len(obj.Fields) != 4 {
		t.Fatalf("len(Fields) = %d, want 4", len(obj.Fields))
	}
	f0 := obj.Fields[0]
	if f0.Number != 1 || f0.Name != "No." {
		t.Errorf("Fields[0] = %+v", f0)
	}
	if f0.DataType == nil || f0.DataType.Name != "Code" || f0.DataType.Length != 20 {
		t.Errorf("Fields[0].DataType = %+v", f0.DataType)
	}
	var foundOnValidate bool
	for _, trig := range triggersFromProperties(f0.Properties) {
		if trig.Name == "OnValidate" {
			foundOnValidate = true
			if trig.Body == nil || len(trig.Body.Statements) == 0 {
				t.Error("OnValidate trigger has no body statements")
			}
		}
	}
	if !foundOnValidate {
		t.Error("expected Fields[0] to carry an OnValidate trigger")
	}

	balance := obj.Fields[2]
	var calcFormulaProp, editableProp *ast.Property
	for _, p := range balance.Properties {
		switch p.Name {
		case "CalcFormula":
			calcFormulaProp = p
		case "Editable":
			editableProp = p
		}
	}
	if calcFormulaProp == nil || calcFormulaProp.Value == "" {
		t.Error("expected Fields[2] to carry a non-empty CalcFormula property value")
	}
	if editableProp == nil || editableProp.Value != "No" {
		t.Errorf("Fields[2] Editable property = %+v", editableProp)
	}

	if len(obj.Keys) != 2 {
		t.Fatalf("len(Keys) = %d, want 2", len(obj.Keys))
	}
	if obj.Keys[0].FieldNames[0] != "No." {
		t.Errorf("Keys[0].FieldNames = %v", obj.Keys[0].FieldNames)
	}
	var clustered bool
	for _, p := range obj.Keys[0].Properties {
		if p.Name == "Clustered" && p.Value == "Yes" {
			clustered = true
		}
	}
	if !clustered {
		t.Error("expected Keys[0] to carry Clustered=Yes")
	}

	if len(obj.FieldGroups) != 1 || obj.FieldGroups[0].Name != "DropDown" {
		t.Errorf("FieldGroups = %+v", obj.FieldGroups)
	}
}

func TestParseTableCodeSection(t *testing.T) {
	doc, diags := ParseDocument(mustReadTestdata(t, "table_customer.cal"))
	if diagnostics.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	code := doc.Object.Code
	if code == nil {
		t.Fatal("expected a CODE section")
	}
	if len(code.GlobalVariables) != 2 {
		t.Fatalf("len(GlobalVariables) = %d, want 2", len(code.GlobalVariables))
	}
	if code.GlobalVariables[0].Name != "CustSetup" {
		t.Errorf("GlobalVariables[0].Name = %q", code.GlobalVariables[0].Name)
	}
	if len(code.Procedures) != 2 {
		t.Fatalf("len(Procedures) = %d, want 2", len(code.Procedures))
	}
	getBalance := code.Procedures[1]
	if getBalance.Name != "GetBalance" {
		t.Errorf("Procedures[1].Name = %q", getBalance.Name)
	}
	if len(getBalance.Attributes) != 1 || getBalance.Attributes[0].Name != "External" {
		t.Errorf("Procedures[1].Attributes = %+v", getBalance.Attributes)
	}
	if len(getBalance.Parameters) != 1 || !getBalance.Parameters[0].ByRef {
		t.Errorf("Procedures[1].Parameters = %+v", getBalance.Parameters)
	}
	if getBalance.ReturnType == nil || getBalance.ReturnType.Name != "Boolean" {
		t.Errorf("Procedures[1].ReturnType = %+v", getBalance.ReturnType)
	}
	if code.OnRun == nil {
		t.Error("expected an OnRun block")
	}
}

func TestParseCodeunitNoSectionsOtherThanCode(t *testing.T) {
	doc, diags := ParseDocument(mustReadTestdata(t, "codeunit_sample.cal"))
	if diagnostics.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	obj := doc.Object
	if obj.Kind != ast.CodeunitObject {
		t.Errorf("Kind = %v, want CodeunitObject", obj.Kind)
	}
	if len(obj.Fields) != 0 || len(obj.Keys) != 0 || len(obj.Controls) != 0 {
		t.Error("expected a Codeunit to carry no Fields/Keys/Controls")
	}
	if obj.Code == nil || len(obj.Code.Procedures) != 3 {
		t.Fatalf("expected 3 procedures, got %+v", obj.Code)
	}
	// PostDocument declares one procedure-local VAR (Window : Dialog).
	post := obj.Code.Procedures[0]
	if len(post.LocalVariables) != 1 || post.LocalVariables[0].Name != "Window" {
		t.Errorf("PostDocument.LocalVariables = %+v", post.LocalVariables)
	}
}

func TestParseControlsIndentNesting(t *testing.T) {
	doc, diags := ParseDocument(mustReadTestdata(t, "page_customer_list.cal"))
	if diagnostics.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	obj := doc.Object
	// Two top-level (Indent 0) controls: the ContentArea container and the Part.
	if len(obj.Controls) != 2 {
		t.Fatalf("len(Controls) = %d, want 2 top-level controls", len(obj.Controls))
	}
	container := obj.Controls[0]
	if container.Kind != ast.ContainerControl {
		t.Errorf("Controls[0].Kind = %v, want ContainerControl", container.Kind)
	}
	if len(container.Children) != 1 {
		t.Fatalf("len(Controls[0].Children) = %d, want 1 (the Group)", len(container.Children))
	}
	group := container.Children[0]
	if group.Kind != ast.GroupControl {
		t.Errorf("group.Kind = %v, want GroupControl", group.Kind)
	}
	if len(group.Children) != 3 {
		t.Fatalf("len(group.Children) = %d, want 3 fields", len(group.Children))
	}
	for _, f := range group.Children {
		if f.Kind != ast.FieldControl {
			t.Errorf("child Kind = %v, want FieldControl", f.Kind)
		}
	}
	part := obj.Controls[1]
	if part.Kind != ast.PartControl {
		t.Errorf("Controls[1].Kind = %v, want PartControl", part.Kind)
	}

	if len(obj.Actions) != 1 {
		t.Fatalf("len(Actions) = %d, want 1 top-level ActionContainer", len(obj.Actions))
	}
	topAction := obj.Actions[0]
	if len(topAction.Children) != 1 {
		t.Fatalf("len(Actions[0].Children) = %d, want 1 ActionGroup", len(topAction.Children))
	}
	group2 := topAction.Children[0]
	if len(group2.Children) != 2 {
		t.Fatalf("len(ActionGroup.Children) = %d, want 2 leaf actions", len(group2.Children))
	}
}

func TestParseDataTypeArrayOfOption(t *testing.T) {
	src := `OBJECT Codeunit 1 T
{
  CODE
  {
    VAR
      Statuses@1000 : ARRAY[3] OF OPTION Open,Released,Closed;

    BEGIN
    END.
  }
}`
	doc, diags := ParseDocument(src)
	if diagnostics.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	v := doc.Object.Code.GlobalVariables[0]
	if v.DataType.Name != "Array" || v.DataType.ArrayLength != 3 {
		t.Fatalf("DataType = %+v", v.DataType)
	}
	elem := v.DataType.ArrayElement
	if elem == nil || elem.Name != "Option" {
		t.Fatalf("ArrayElement = %+v", elem)
	}
	if len(elem.OptionValues) != 3 || elem.OptionValues[1] != "Released" {
		t.Errorf("OptionValues = %v", elem.OptionValues)
	}
}

func TestParseErrorRecoveryContinuesAfterBadSection(t *testing.T) {
	// A bogus top-level token inside the object body should not stop the
	// rest of the object from parsing.
	src := `OBJECT Table 1 Broken
{
  NOTASECTION { garbage }
  PROPERTIES
  {
    CaptionML=ENU=Broken;
  }
}`
	doc, diags := ParseDocument(src)
	if !diagnostics.HasErrors(diags) {
		t.Fatal("expected at least one diagnostic for the bogus section")
	}
	if doc.Object == nil || len(doc.Object.Properties) != 1 {
		t.Fatalf("expected PROPERTIES to still parse, got %+v", doc.Object)
	}
}

func TestParseProcedureMissingNameDiscardsAttributes(t *testing.T) {
	// A procedure with no name ahead of BEGIN is malformed: the attributes
	// collected for it have nothing coherent to attach to, so they're
	// discarded with their own diagnostic rather than attached silently.
	src := `OBJECT Codeunit 1 Broken
{
  CODE
  {
    [External] [TryFunction] PROCEDURE BEGIN;
  }
}`
	doc, diags := ParseDocument(src)
	if len(diags) != 2 {
		t.Fatalf("len(diags) = %d, want 2: %v", len(diags), diags)
	}

	var sawDiscard bool
	for _, d := range diags {
		if strings.Contains(d.String(), "attributes discarded") {
			sawDiscard = true
		}
	}
	if !sawDiscard {
		t.Errorf("expected a diagnostic mentioning attributes discarded, got %v", diags)
	}

	if doc.Object == nil || doc.Object.Code == nil || len(doc.Object.Code.Procedures) != 1 {
		t.Fatalf("expected the malformed procedure to still be recorded, got %+v", doc.Object)
	}
	if len(doc.Object.Code.Procedures[0].Attributes) != 0 {
		t.Errorf("expected Attributes to be cleared after the discard, got %+v", doc.Object.Code.Procedures[0].Attributes)
	}
}

func TestParseIfThenEndReportsEmptyBodyDiagnostic(t *testing.T) {
	src := `OBJECT Codeunit 1 Test { CODE {
  PROCEDURE P(); BEGIN IF TRUE THEN END; END;
} }`
	doc, diags := ParseDocument(src)

	var sawEmptyBodyDiag bool
	for _, d := range diags {
		if strings.Contains(d.String(), "END cannot be a statement") {
			sawEmptyBodyDiag = true
		}
	}
	if !sawEmptyBodyDiag {
		t.Errorf("expected a diagnostic about END not being a valid statement, got %v", diags)
	}

	proc := findProcedure(t, doc, "P")
	ifStmt := findIfStatement(t, proc.Body)
	if ifStmt == nil {
		t.Fatal("expected an IfStatement node inside P's body")
	}
	if _, ok := ifStmt.Then.(*ast.EmptyStatement); !ok {
		t.Errorf("Then = %T, want *ast.EmptyStatement", ifStmt.Then)
	}
}

func TestEmptyBodyDiagnosticCoversElseWhileForWith(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"IfElse", "IF TRUE THEN ELSE END;"},
		{"While", "WHILE TRUE DO END;"},
		{"For", "FOR I := 1 TO 10 DO END;"},
		{"With", "WITH Customer DO END;"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			src := `OBJECT Codeunit 1 Test { CODE {
  PROCEDURE P(); BEGIN ` + tc.body + ` END;
} }`
			_, diags := ParseDocument(src)
			var sawEmptyBodyDiag bool
			for _, d := range diags {
				if strings.Contains(d.String(), "END cannot be a statement") {
					sawEmptyBodyDiag = true
				}
			}
			if !sawEmptyBodyDiag {
				t.Errorf("%s: expected a diagnostic about END not being a valid statement, got %v", tc.name, diags)
			}
		})
	}
}

func TestParseIfThenSemicolonNoEmptyBodyDiagnostic(t *testing.T) {
	src := `OBJECT Codeunit 1 Test { CODE {
  PROCEDURE P(); BEGIN IF TRUE THEN; END;
} }`
	doc, diags := ParseDocument(src)
	if diagnostics.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}

	proc := findProcedure(t, doc, "P")
	ifStmt := findIfStatement(t, proc.Body)
	if ifStmt == nil {
		t.Fatal("expected an IfStatement node inside P's body")
	}
	if _, ok := ifStmt.Then.(*ast.EmptyStatement); !ok {
		t.Errorf("Then = %T, want *ast.EmptyStatement", ifStmt.Then)
	}
}

func findProcedure(t *testing.T, doc *ast.Document, name string) *ast.ProcedureDeclaration {
	t.Helper()
	if doc.Object == nil || doc.Object.Code == nil {
		t.Fatal("expected a parsed CODE section")
	}
	for _, proc := range doc.Object.Code.Procedures {
		if proc.Name == name {
			return proc
		}
	}
	t.Fatalf("procedure %q not found", name)
	return nil
}

func findIfStatement(t *testing.T, block *ast.BlockStatement) *ast.IfStatement {
	t.Helper()
	if block == nil {
		t.Fatal("expected a non-nil procedure body")
	}
	for _, stmt := range block.Statements {
		if ifStmt, ok := stmt.(*ast.IfStatement); ok {
			return ifStmt
		}
	}
	return nil
}

func TestParseControlHierarchyIndentGap(t *testing.T) {
	// Indents [0, 2, 1]: the indent-2 row nests under indent-0, then the
	// indent-1 row pops the indent-2 row off the stack and becomes a
	// second direct child of indent-0, rather than nesting under it.
	src := `OBJECT Page 50000 Test
{
  CONTROLS
  {
    { 1;0;Container;Name=Root; }
    { 2;2;Field;SourceExpr=A; }
    { 3;1;Field;SourceExpr=B; }
  }
}`
	doc, diags := ParseDocument(src)
	if diagnostics.HasErrors(diags) {
		t.Fatalf("unexpected errors: %v", diags)
	}
	roots := doc.Object.Controls
	if len(roots) != 1 {
		t.Fatalf("len(roots) = %d, want 1", len(roots))
	}
	root := roots[0]
	if root.ID != 1 {
		t.Errorf("root.ID = %d, want 1", root.ID)
	}
	if len(root.Children) != 2 {
		t.Fatalf("len(root.Children) = %d, want 2", len(root.Children))
	}
	if root.Children[0].ID != 2 || root.Children[1].ID != 3 {
		t.Errorf("root.Children IDs = [%d, %d], want [2, 3]", root.Children[0].ID, root.Children[1].ID)
	}
	if len(root.Children[0].Children) != 0 {
		t.Errorf("expected control 2 to have no children, got %+v", root.Children[0].Children)
	}
}

func TestParseDocumentTotalityOnGarbageInput(t *testing.T) {
	garbageInputs := []string{
		"",
		"}}}{{{",
		"OBJECT",
		"OBJECT Table",
		"OBJECT Table 18 Customer {",
		"OBJECT Table 18 Customer { PROPERTIES { CaptionML=",
		"OBJECT Table 18 Customer { CODE { PROCEDURE",
		";;;;;;;;;;",
		"OBJECT Table 18 Customer { CODE { BEGIN IF IF IF END END END } }",
	}
	for _, src := range garbageInputs {
		doc, diags := ParseDocument(src)
		if doc == nil {
			t.Errorf("ParseDocument(%q) returned a nil Document", src)
		}
		for _, d := range diags {
			if d.Token.Start < 0 || d.Token.Start > len(src) {
				t.Errorf("ParseDocument(%q): diagnostic offset %d out of [0, %d]", src, d.Token.Start, len(src))
			}
		}
	}
}
