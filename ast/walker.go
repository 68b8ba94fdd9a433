package ast

import (
	"github.com/klauskaan/cal-language-core/diagnostics"
)

// WalkAction controls how Walk proceeds after a Visitor call, generalizing
// the teacher's "return nil Visitor to skip" convention into a two-valued
// signal, "keep going" or "this subtree is being skipped on purpose"; the
// depth-exceeded case is handled by the Walker itself, not by a third value.
type WalkAction int

const (
	// Descend instructs Walk to continue into the node's children.
	Descend WalkAction = iota
	// Skip instructs Walk not to recurse into the node's children, but to
	// continue the walk at the node's sibling level.
	Skip
)

// Visitor is implemented by callers of Walk. Visit is called once per node
// in pre-order; returning Skip (or a nil Visitor) prunes that node's
// subtree from the remainder of the walk.
type Visitor interface {
	Visit(node Node) (w Visitor, action WalkAction)
}

// VisitorFunc adapts a plain function to the Visitor interface for the
// common case of a stateless pre-order-only visit.
type VisitorFunc func(node Node) WalkAction

func (f VisitorFunc) Visit(node Node) (Visitor, WalkAction) {
	return f, f(node)
}

// DefaultMaxDepth bounds recursive descent against malformed or adversarial
// input (deeply nested CASE/IF/BEGIN blocks, or a CONTROLS hierarchy with
// thousands of indent levels) so a single Walk call cannot exhaust the
// goroutine stack.
const DefaultMaxDepth = 500

// Walker drives a depth-limited AST traversal, collecting a diagnostic the
// first time it refuses to descend further rather than panicking or
// silently truncating the tree.
type Walker struct {
	MaxDepth    int
	Diagnostics []diagnostics.Diagnostic

	depthExceeded bool
}

// NewWalker constructs a Walker with DefaultMaxDepth.
func NewWalker() *Walker {
	return &Walker{MaxDepth: DefaultMaxDepth}
}

// Walk performs a depth-first traversal of node, calling v.Visit on every
// reachable Node until v returns Skip for a subtree or the configured depth
// limit is hit, whichever comes first.
func (w *Walker) Walk(v Visitor, node Node) {
	w.walk(v, node, 0)
}

func (w *Walker) walk(v Visitor, node Node, depth int) {
	if node == nil || isNilNode(node) {
		return
	}
	if depth > w.MaxDepth {
		if !w.depthExceeded {
			w.depthExceeded = true
			w.Diagnostics = append(w.Diagnostics, diagnostics.New(node.StartToken(),
				"AST walk exceeded maximum depth %d; remaining subtree skipped", w.MaxDepth))
		}
		return
	}

	v2, action := v.Visit(node)
	if action == Skip || v2 == nil {
		return
	}

	for _, child := range children(node) {
		w.walk(v2, child, depth+1)
	}
}

// Walk is the package-level convenience entry point used by callers that
// don't need a custom MaxDepth or access to depth-exceeded diagnostics.
func Walk(v Visitor, node Node) []diagnostics.Diagnostic {
	w := NewWalker()
	w.Walk(v, node)
	return w.Diagnostics
}

// isNilNode guards against a typed-nil pointer (e.g. a nil *IfStatement
// stored in a Statement interface value) being mistaken for a present node.
func isNilNode(node Node) bool {
	switch n := node.(type) {
	case *Document:
		return n == nil
	case *ObjectDeclaration:
		return n == nil
	case *Property:
		return n == nil
	case *FieldDeclaration:
		return n == nil
	case *KeyDeclaration:
		return n == nil
	case *FieldGroupDeclaration:
		return n == nil
	case *DataTypeNode:
		return n == nil
	case *VariableDeclaration:
		return n == nil
	case *ParameterDeclaration:
		return n == nil
	case *AttributeNode:
		return n == nil
	case *ProcedureDeclaration:
		return n == nil
	case *TriggerDeclaration:
		return n == nil
	case *CodeSection:
		return n == nil
	case *ControlDeclaration:
		return n == nil
	case *ActionDeclaration:
		return n == nil
	case *ElementDeclaration:
		return n == nil
	case *BlockStatement:
		return n == nil
	case *EmptyStatement:
		return n == nil
	case *IfStatement:
		return n == nil
	case *WhileStatement:
		return n == nil
	case *RepeatStatement:
		return n == nil
	case *ForStatement:
		return n == nil
	case *CaseBranch:
		return n == nil
	case *CaseStatement:
		return n == nil
	case *WithStatement:
		return n == nil
	case *AssignmentStatement:
		return n == nil
	case *ExpressionStatement:
		return n == nil
	case *ExitStatement:
		return n == nil
	case *Identifier:
		return n == nil
	case *IntegerLiteral:
		return n == nil
	case *DecimalLiteral:
		return n == nil
	case *StringLiteral:
		return n == nil
	case *BooleanLiteral:
		return n == nil
	case *DateLiteral:
		return n == nil
	case *TimeLiteral:
		return n == nil
	case *DateTimeLiteral:
		return n == nil
	case *UnaryExpression:
		return n == nil
	case *BinaryExpression:
		return n == nil
	case *MemberExpression:
		return n == nil
	case *CallExpression:
		return n == nil
	case *ArrayAccessExpression:
		return n == nil
	case *RangeExpression:
		return n == nil
	case *SetExpression:
		return n == nil
	case *CalcFormulaNode:
		return n == nil
	case *SimpleTableRelation:
		return n == nil
	case *ConditionalTableRelation:
		return n == nil
	case *TableRelationNode:
		return n == nil
	default:
		return false
	}
}

// children returns node's immediate AST children in source order, nil
// entries (absent optional children) filtered out. This is the single
// place that knows each node type's shape, mirroring the teacher's
// top-level type-switch Walk but generalized to C/AL's node set.
func children(node Node) []Node {
	var out []Node
	add := func(n Node) {
		if n != nil && !isNilNode(n) {
			out = append(out, n)
		}
	}
	addStmt := func(s Statement) {
		if s != nil && !isNilNode(s) {
			out = append(out, s)
		}
	}
	addExpr := func(e Expression) {
		if e != nil && !isNilNode(e) {
			out = append(out, e)
		}
	}

	switch n := node.(type) {
	case *Document:
		add(n.Object)

	case *ObjectDeclaration:
		for _, p := range n.Properties {
			add(p)
		}
		for _, f := range n.Fields {
			add(f)
		}
		for _, k := range n.Keys {
			add(k)
		}
		for _, g := range n.FieldGroups {
			add(g)
		}
		add(n.Code)
		for _, c := range n.Controls {
			add(c)
		}
		for _, a := range n.Actions {
			add(a)
		}
		for _, e := range n.Elements {
			add(e)
		}
		for _, e := range n.DataSet {
			add(e)
		}

	case *Property:
		if n.TriggerBody != nil {
			for _, v := range n.TriggerVariables {
				add(v)
			}
			add(n.TriggerBody)
		}

	case *FieldDeclaration:
		add(n.DataType)
		for _, p := range n.Properties {
			add(p)
		}

	case *KeyDeclaration:
		for _, p := range n.Properties {
			add(p)
		}

	case *DataTypeNode:
		add(n.ArrayElement)

	case *VariableDeclaration:
		add(n.DataType)

	case *ParameterDeclaration:
		add(n.DataType)

	case *ProcedureDeclaration:
		for _, a := range n.Attributes {
			add(a)
		}
		for _, p := range n.Parameters {
			add(p)
		}
		add(n.ReturnType)
		for _, v := range n.LocalVariables {
			add(v)
		}
		add(n.Body)

	case *TriggerDeclaration:
		for _, v := range n.LocalVariables {
			add(v)
		}
		add(n.Body)

	case *CodeSection:
		for _, v := range n.GlobalVariables {
			add(v)
		}
		for _, p := range n.Procedures {
			add(p)
		}
		for _, t := range n.Triggers {
			add(t)
		}
		add(n.OnRun)

	case *ControlDeclaration:
		for _, p := range n.Properties {
			add(p)
		}
		for _, t := range n.Triggers {
			add(t)
		}
		for _, c := range n.Children {
			add(c)
		}

	case *ActionDeclaration:
		for _, p := range n.Properties {
			add(p)
		}
		for _, t := range n.Triggers {
			add(t)
		}
		for _, c := range n.Children {
			add(c)
		}

	case *ElementDeclaration:
		for _, p := range n.Properties {
			add(p)
		}
		for _, t := range n.Triggers {
			add(t)
		}
		for _, c := range n.Children {
			add(c)
		}

	case *BlockStatement:
		for _, s := range n.Statements {
			addStmt(s)
		}

	case *IfStatement:
		addExpr(n.Condition)
		addStmt(n.Then)
		addStmt(n.Else)

	case *WhileStatement:
		addExpr(n.Condition)
		addStmt(n.Body)

	case *RepeatStatement:
		for _, s := range n.Body {
			addStmt(s)
		}
		addExpr(n.Until)

	case *ForStatement:
		addExpr(n.From)
		addExpr(n.To)
		addStmt(n.Body)

	case *CaseStatement:
		addExpr(n.Selector)
		for _, c := range n.Cases {
			add(c)
		}
		for _, s := range n.Else {
			addStmt(s)
		}

	case *CaseBranch:
		for _, l := range n.Labels {
			addExpr(l)
		}
		for _, s := range n.Statements {
			addStmt(s)
		}

	case *WithStatement:
		addExpr(n.Record)
		addStmt(n.Body)

	case *AssignmentStatement:
		addExpr(n.Target)
		addExpr(n.Value)

	case *ExpressionStatement:
		addExpr(n.Expression)

	case *ExitStatement:
		addExpr(n.Value)

	case *UnaryExpression:
		addExpr(n.Operand)

	case *BinaryExpression:
		addExpr(n.Left)
		addExpr(n.Right)

	case *MemberExpression:
		addExpr(n.Target)

	case *CallExpression:
		addExpr(n.Function)
		for _, a := range n.Arguments {
			addExpr(a)
		}

	case *ArrayAccessExpression:
		addExpr(n.Array)
		addExpr(n.Index)

	case *RangeExpression:
		addExpr(n.From)
		addExpr(n.To)

	case *SetExpression:
		for _, e := range n.Elements {
			addExpr(e)
		}

	case *CalcFormulaNode:
		for _, w := range n.Where {
			add(w)
		}

	case *SimpleTableRelation:
		for _, w := range n.Where {
			add(w)
		}

	case *ConditionalTableRelation:
		add(n.Condition)
		add(n.Relation)
		add(n.ElseRelation)

	case *TableRelationNode:
		add(n.Simple)
		for _, c := range n.Conditional {
			add(c)
		}

	// Leaf nodes with no children: EmptyStatement, Identifier, literals,
	// AttributeNode, FieldGroupDeclaration, PropertyCondition.
	default:
		_ = n
	}

	return out
}

// Inspector collects every node reachable from a root in one depth-limited
// Walk, then answers repeated queries against the collected slice --
// generalized from the teacher's collect-then-query Inspector, which
// assumed a flat (non-nested-scope) AST.
type Inspector struct {
	Nodes       []Node
	Diagnostics []diagnostics.Diagnostic
}

// NewInspector builds an Inspector by walking root once.
func NewInspector(root Node) *Inspector {
	insp := &Inspector{}
	w := NewWalker()
	w.Walk(VisitorFunc(func(n Node) WalkAction {
		insp.Nodes = append(insp.Nodes, n)
		return Descend
	}), root)
	insp.Diagnostics = w.Diagnostics
	return insp
}

// Find returns the first collected node for which pred returns true.
func (i *Inspector) Find(pred func(Node) bool) Node {
	for _, n := range i.Nodes {
		if pred(n) {
			return n
		}
	}
	return nil
}

// FindAll returns every collected node for which pred returns true.
func (i *Inspector) FindAll(pred func(Node) bool) []Node {
	var out []Node
	for _, n := range i.Nodes {
		if pred(n) {
			out = append(out, n)
		}
	}
	return out
}
