package ast

import (
	"testing"

	"github.com/klauskaan/cal-language-core/token"
)

func ident(name string) *Identifier {
	return &Identifier{Name: name, Span: Span{Start: token.Token{Kind: token.IDENT, Literal: name}}}
}

func TestWalkPreOrderVisitsEveryNode(t *testing.T) {
	call := &CallExpression{
		Function:  ident("MESSAGE"),
		Arguments: []Expression{ident("Text001"), ident("Rec")},
	}
	block := &BlockStatement{Statements: []Statement{
		&ExpressionStatement{Expression: call},
	}}

	var visited []string
	Walk(VisitorFunc(func(n Node) WalkAction {
		switch v := n.(type) {
		case *BlockStatement:
			visited = append(visited, "block")
		case *ExpressionStatement:
			visited = append(visited, "exprstmt")
		case *CallExpression:
			visited = append(visited, "call")
		case *Identifier:
			visited = append(visited, "ident:"+v.Name)
		}
		return Descend
	}), block)

	want := []string{"block", "exprstmt", "call", "ident:MESSAGE", "ident:Text001", "ident:Rec"}
	if len(visited) != len(want) {
		t.Fatalf("visited = %v, want %v", visited, want)
	}
	for i := range want {
		if visited[i] != want[i] {
			t.Errorf("visited[%d] = %q, want %q", i, visited[i], want[i])
		}
	}
}

func TestWalkSkipPrunesSubtree(t *testing.T) {
	call := &CallExpression{
		Function:  ident("MESSAGE"),
		Arguments: []Expression{ident("Text001")},
	}
	block := &BlockStatement{Statements: []Statement{
		&ExpressionStatement{Expression: call},
	}}

	var visited []string
	Walk(VisitorFunc(func(n Node) WalkAction {
		if _, ok := n.(*CallExpression); ok {
			visited = append(visited, "call")
			return Skip
		}
		switch v := n.(type) {
		case *BlockStatement:
			visited = append(visited, "block")
		case *ExpressionStatement:
			visited = append(visited, "exprstmt")
		case *Identifier:
			visited = append(visited, "ident:"+v.Name)
		}
		return Descend
	}), block)

	for _, v := range visited {
		if v == "ident:MESSAGE" || v == "ident:Text001" {
			t.Fatalf("Skip on CallExpression should have pruned its children, got %v", visited)
		}
	}
	if len(visited) != 3 {
		t.Fatalf("visited = %v, want [block exprstmt call]", visited)
	}
}

func TestWalkerMaxDepthReportsOneDiagnostic(t *testing.T) {
	// Build a deeply right-nested BinaryExpression chain exceeding a tiny
	// MaxDepth, and confirm the walker stops instead of recursing forever
	// and reports exactly one depth-exceeded diagnostic.
	var expr Expression = ident("leaf")
	for i := 0; i < 20; i++ {
		expr = &BinaryExpression{Left: expr, Operator: token.PLUS, Right: ident("x")}
	}

	w := &Walker{MaxDepth: 5}
	count := 0
	w.Walk(VisitorFunc(func(n Node) WalkAction {
		count++
		return Descend
	}), expr)

	if len(w.Diagnostics) != 1 {
		t.Fatalf("Diagnostics = %v, want exactly 1", w.Diagnostics)
	}
	if count == 0 {
		t.Error("expected at least the root to be visited before the depth limit kicked in")
	}
}

func TestWalkNilNodeIsNoOp(t *testing.T) {
	var doc *Document
	count := 0
	Walk(VisitorFunc(func(n Node) WalkAction {
		count++
		return Descend
	}), doc)
	if count != 0 {
		t.Errorf("walking a nil *Document should visit nothing, got %d visits", count)
	}
}

func TestInspectorFindAndFindAll(t *testing.T) {
	block := &BlockStatement{Statements: []Statement{
		&ExpressionStatement{Expression: &CallExpression{Function: ident("MESSAGE"), Arguments: []Expression{ident("A")}}},
		&ExpressionStatement{Expression: &CallExpression{Function: ident("ERROR"), Arguments: []Expression{ident("B")}}},
	}}

	insp := NewInspector(block)

	calls := insp.FindAll(func(n Node) bool {
		_, ok := n.(*CallExpression)
		return ok
	})
	if len(calls) != 2 {
		t.Fatalf("len(calls) = %d, want 2", len(calls))
	}

	found := insp.Find(func(n Node) bool {
		id, ok := n.(*Identifier)
		return ok && id.Name == "ERROR"
	})
	if found == nil {
		t.Fatal("expected to find the ERROR identifier")
	}

	notFound := insp.Find(func(n Node) bool {
		id, ok := n.(*Identifier)
		return ok && id.Name == "NoSuchIdent"
	})
	if notFound != nil {
		t.Error("expected Find to return nil for a predicate matching nothing")
	}
}
