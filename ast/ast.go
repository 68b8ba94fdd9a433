// Package ast defines the Abstract Syntax Tree nodes for C/AL, the
// Dynamics NAV programming language used through NAV 2018.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/klauskaan/cal-language-core/token"
)

// Node is the root interface every AST node implements.
type Node interface {
	TokenLiteral() string
	String() string
	StartToken() token.Token
	EndToken() token.Token
}

// Statement is a node that can appear in a statement list.
type Statement interface {
	Node
	statementNode()
}

// Expression is a node that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// Span embeds the start/end token pair every node carries so a feature
// provider can map back to source without re-lexing. Every node type below
// embeds Span anonymously, which promotes TokenLiteral/StartToken/EndToken.
type Span struct {
	Start token.Token
	End   token.Token
}

func (s Span) TokenLiteral() string    { return s.Start.Literal }
func (s Span) StartToken() token.Token { return s.Start }
func (s Span) EndToken() token.Token   { return s.End }

// ObjectKind identifies which of the seven NAV object kinds a Document holds.
type ObjectKind int

const (
	UnknownObject ObjectKind = iota
	TableObject
	PageObject
	ReportObject
	CodeunitObject
	QueryObject
	XMLportObject
	MenuSuiteObject
)

func (k ObjectKind) String() string {
	switch k {
	case TableObject:
		return "Table"
	case PageObject:
		return "Page"
	case ReportObject:
		return "Report"
	case CodeunitObject:
		return "Codeunit"
	case QueryObject:
		return "Query"
	case XMLportObject:
		return "XMLport"
	case MenuSuiteObject:
		return "MenuSuite"
	default:
		return "Unknown"
	}
}

// ObjectKindFromToken maps an object-kind keyword token to an ObjectKind.
func ObjectKindFromToken(k token.Kind) ObjectKind {
	switch k {
	case token.TABLE:
		return TableObject
	case token.PAGE:
		return PageObject
	case token.REPORT:
		return ReportObject
	case token.CODEUNIT:
		return CodeunitObject
	case token.QUERY:
		return QueryObject
	case token.XMLPORT:
		return XMLportObject
	case token.MENUSUITE:
		return MenuSuiteObject
	default:
		return UnknownObject
	}
}

// Document is the root node of every parsed C/AL source unit: at most one
// object declaration (Object is nil when the source does not start with
// an OBJECT header). Diagnostics produced along the way are returned
// alongside it by the parser rather than carried on the node.
type Document struct {
	Span
	Object *ObjectDeclaration
}

func (d *Document) String() string {
	if d.Object == nil {
		return ""
	}
	return d.Object.String()
}

// ObjectDeclaration is the single top-level `OBJECT <kind> <id> <name> { ... }`
// construct every C/AL source file contains.
type ObjectDeclaration struct {
	Span
	Kind ObjectKind
	ID   int
	Name string

	// RawHeader is the token span of `OBJECT <kind> <id> <name>`,
	// preserved verbatim so a feature provider can re-render the header
	// without re-lexing it. [EXPANSION]
	RawHeader Span

	Properties  []*Property
	Fields      []*FieldDeclaration
	Keys        []*KeyDeclaration
	FieldGroups []*FieldGroupDeclaration
	Code        *CodeSection
	Controls    []*ControlDeclaration
	Actions     []*ActionDeclaration
	Elements    []*ElementDeclaration
	DataSet     []*ElementDeclaration
}

func (o *ObjectDeclaration) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "OBJECT %s %d %s\n", o.Kind, o.ID, o.Name)
	return out.String()
}

// Property is a single `Name=Value;` or `Name=<trigger>` pair found inside
// a PROPERTIES section, a field, a control, or an action.
type Property struct {
	Span

	// NameToken anchors the property name precisely, alongside the Name
	// string (that token's literal). [EXPANSION]
	NameToken token.Token
	Name      string

	// Value is the property's reassembled literal text, valid when the
	// property carries a plain value rather than a trigger body.
	Value       string
	ValueTokens []token.Token

	// TriggerBody and TriggerVariables are populated for properties whose
	// value is a trigger (e.g. `OnValidate=BEGIN ... END;`).
	TriggerBody      *BlockStatement
	TriggerVariables []*VariableDeclaration
}

func (p *Property) String() string {
	if p.TriggerBody != nil {
		return fmt.Sprintf("%s=%s", p.Name, p.TriggerBody.String())
	}
	return fmt.Sprintf("%s=%s", p.Name, p.Value)
}

// DataTypeNode describes a variable/field/parameter/return data type.
type DataTypeNode struct {
	Span
	Name string // Integer, Decimal, Text, Code, Boolean, Record, Option, Array, DotNet, ...

	// Text[N] / Code[N]
	Length int

	// Record <ID> "Name", both optional depending on which form was used.
	IsTemporary bool
	TableID     int
	TableName   string

	// Option list captured verbatim, e.g. "Open,Released,Closed".
	OptionString string
	OptionValues []string

	// Array[N] OF <ElementType>
	ArrayLength  int
	ArrayElement *DataTypeNode

	// DotNet '<assembly>'.'<namespace>.<type>'
	DotNetAssembly string
	DotNetTypeName string

	// TextConst '<default literal>' — NAV's global multilanguage text
	// constant type, written as the bare keyword followed directly by
	// its default-language string literal.
	ConstantValue string
}

func (d *DataTypeNode) String() string {
	switch {
	case d.Name == "Array":
		elem := ""
		if d.ArrayElement != nil {
			elem = d.ArrayElement.String()
		}
		return fmt.Sprintf("ARRAY[%d] OF %s", d.ArrayLength, elem)
	case d.Length > 0:
		return fmt.Sprintf("%s[%d]", d.Name, d.Length)
	case d.Name == "Record":
		if d.TableName != "" {
			return fmt.Sprintf("Record %s", d.TableName)
		}
		return fmt.Sprintf("Record %d", d.TableID)
	case d.Name == "Option":
		return fmt.Sprintf("Option %s", d.OptionString)
	case d.Name == "DotNet":
		return fmt.Sprintf("DotNet '%s'.'%s'", d.DotNetAssembly, d.DotNetTypeName)
	default:
		return d.Name
	}
}

// FieldDeclaration is one row of the FIELDS section.
type FieldDeclaration struct {
	Span
	Number      int
	NumberToken token.Token
	Name        string
	NameTokens  []token.Token
	DataType    *DataTypeNode
	Properties  []*Property
}

func (f *FieldDeclaration) String() string {
	dt := ""
	if f.DataType != nil {
		dt = f.DataType.String()
	}
	return fmt.Sprintf("{ %d; ;%s;%s }", f.Number, f.Name, dt)
}

// KeyDeclaration is one row of the KEYS section.
type KeyDeclaration struct {
	Span
	FieldNames []string
	Properties []*Property
}

func (k *KeyDeclaration) String() string {
	return fmt.Sprintf("{    ;%s }", strings.Join(k.FieldNames, ","))
}

// FieldGroupDeclaration is one row of the FIELDGROUPS section.
type FieldGroupDeclaration struct {
	Span
	Name       string
	FieldNames []string
}

func (g *FieldGroupDeclaration) String() string {
	return fmt.Sprintf("{    ;%s;%s }", g.Name, strings.Join(g.FieldNames, ","))
}

// VariableDeclaration is one `Name@NNN : Type;` entry in a VAR block,
// either global (CodeSection.GlobalVariables) or local to a procedure or
// trigger.
type VariableDeclaration struct {
	Span
	Name      string
	NameToken token.Token
	DataType  *DataTypeNode
	Temporary bool
}

func (v *VariableDeclaration) String() string {
	dt := ""
	if v.DataType != nil {
		dt = v.DataType.String()
	}
	return fmt.Sprintf("%s : %s", v.Name, dt)
}

// ParameterDeclaration is one parameter in a procedure's signature.
type ParameterDeclaration struct {
	Span
	Name      string
	DataType  *DataTypeNode
	ByRef     bool // VAR parameter
	Temporary bool
}

func (p *ParameterDeclaration) String() string {
	prefix := ""
	if p.ByRef {
		prefix = "VAR "
	}
	dt := ""
	if p.DataType != nil {
		dt = p.DataType.String()
	}
	return fmt.Sprintf("%s%s : %s", prefix, p.Name, dt)
}

// AttributeNode is a `[Attribute(args)]`-style procedure annotation, e.g.
// `[External]`, `[Scope('Internal')]`.
type AttributeNode struct {
	Span
	Name         string
	ArgumentsRaw string
}

func (a *AttributeNode) String() string {
	if a.ArgumentsRaw == "" {
		return fmt.Sprintf("[%s]", a.Name)
	}
	return fmt.Sprintf("[%s(%s)]", a.Name, a.ArgumentsRaw)
}

// ProcedureDeclaration is a `PROCEDURE` or `LOCAL PROCEDURE` entry in the
// CODE section.
type ProcedureDeclaration struct {
	Span
	Name           string
	NameToken      token.Token
	Parameters     []*ParameterDeclaration
	ReturnType     *DataTypeNode
	Local          bool
	Internal       bool
	Attributes     []*AttributeNode
	LocalVariables []*VariableDeclaration
	Body           *BlockStatement
}

func (p *ProcedureDeclaration) String() string {
	var out bytes.Buffer
	if p.Local {
		out.WriteString("LOCAL ")
	}
	fmt.Fprintf(&out, "PROCEDURE %s(", p.Name)
	parts := make([]string, len(p.Parameters))
	for i, param := range p.Parameters {
		parts[i] = param.String()
	}
	out.WriteString(strings.Join(parts, ";"))
	out.WriteString(")")
	if p.ReturnType != nil {
		fmt.Fprintf(&out, " : %s", p.ReturnType.String())
	}
	out.WriteString(";")
	return out.String()
}

// TriggerDeclaration is a `TRIGGER OnXxx()` or `EVENT` entry in the CODE
// section, or the trigger body embedded inside a property value.
type TriggerDeclaration struct {
	Span
	Name           string
	LocalVariables []*VariableDeclaration
	Body           *BlockStatement

	// PropertyOwner records which property produced this trigger, when the
	// trigger was parsed out of a property value rather than the CODE
	// section proper (e.g. a field's OnValidate). Used by the symbol table
	// to label the trigger's scope legibly. [EXPANSION]
	PropertyOwner *Property
}

func (t *TriggerDeclaration) String() string {
	return fmt.Sprintf("TRIGGER %s();", t.Name)
}

// CodeSection is the object's single CODE block.
type CodeSection struct {
	Span
	GlobalVariables []*VariableDeclaration
	Procedures      []*ProcedureDeclaration
	Triggers        []*TriggerDeclaration
	// OnRun is the trailing `BEGIN ... END.` block codeunits and reports
	// carry outside of any named PROCEDURE/TRIGGER.
	OnRun *BlockStatement
}

func (c *CodeSection) String() string { return "CODE { ... }" }

// ControlKind classifies a CONTROLS entry.
type ControlKind int

const (
	UnknownControl ControlKind = iota
	ContainerControl
	GroupControl
	FieldControl
	PartControl
	SeparatorControl
)

// ControlDeclaration is one (possibly nested) row of the CONTROLS section.
// Nesting in C/AL source is expressed by an indent column on each row
// rather than by braces; the parser reconstructs Children from that
// indent using a stack, the way the rows visually nest in source.
type ControlDeclaration struct {
	Span
	ID             int
	Indent         int
	Kind           ControlKind
	RawControlType string
	Properties     []*Property
	Triggers       []*TriggerDeclaration
	Children       []*ControlDeclaration
}

func (c *ControlDeclaration) String() string {
	return fmt.Sprintf("{ %d;%d;%s", c.ID, c.Indent, c.RawControlType)
}

// ActionKind classifies an ACTIONS entry.
type ActionKind int

const (
	UnknownAction ActionKind = iota
	ActionContainerKind
	ActionGroupKind
	ActionLeafKind
	ActionSeparatorKind
)

// ActionDeclaration is one (possibly nested) row of the ACTIONS section.
type ActionDeclaration struct {
	Span
	ID            int
	Indent        int
	Kind          ActionKind
	RawActionType string
	Properties    []*Property
	Triggers      []*TriggerDeclaration
	Children      []*ActionDeclaration
}

func (a *ActionDeclaration) String() string {
	return fmt.Sprintf("{ %d;%d;%s", a.ID, a.Indent, a.RawActionType)
}

// ElementDeclaration is one (possibly nested) row of an XMLport's ELEMENTS
// section or a Query's DATASET section; both share the same
// indent/ID/properties/children shape as ControlDeclaration.
type ElementDeclaration struct {
	Span
	ID         int
	Indent     int
	RawKind    string
	Name       string
	Properties []*Property
	Triggers   []*TriggerDeclaration
	Children   []*ElementDeclaration
}

func (e *ElementDeclaration) String() string {
	return fmt.Sprintf("{ %d;%d;%s;%s", e.ID, e.Indent, e.RawKind, e.Name)
}

// ---------------------------------------------------------------------------
// Statements
// ---------------------------------------------------------------------------

// BlockStatement is a `BEGIN ... END` sequence of statements.
type BlockStatement struct {
	Span
	Statements []Statement
}

func (b *BlockStatement) statementNode() {}
func (b *BlockStatement) String() string {
	var out bytes.Buffer
	out.WriteString("BEGIN\n")
	for _, s := range b.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	out.WriteString("END")
	return out.String()
}

// EmptyStatement represents a bare `;` or an omitted statement where the
// grammar allows one (e.g. `IF x THEN;`).
type EmptyStatement struct {
	Span
}

func (e *EmptyStatement) statementNode() {}
func (e *EmptyStatement) String() string { return ";" }

// IfStatement is `IF cond THEN stmt [ELSE stmt]`.
type IfStatement struct {
	Span
	Condition Expression
	Then      Statement
	Else      Statement
}

func (i *IfStatement) statementNode() {}
func (i *IfStatement) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "IF %s THEN\n%s", i.Condition.String(), i.Then.String())
	if i.Else != nil {
		fmt.Fprintf(&out, "\nELSE\n%s", i.Else.String())
	}
	return out.String()
}

// WhileStatement is `WHILE cond DO stmt`.
type WhileStatement struct {
	Span
	Condition Expression
	Body      Statement
}

func (w *WhileStatement) statementNode() {}
func (w *WhileStatement) String() string {
	return fmt.Sprintf("WHILE %s DO\n%s", w.Condition.String(), w.Body.String())
}

// RepeatStatement is `REPEAT stmts UNTIL cond`.
type RepeatStatement struct {
	Span
	Body  []Statement
	Until Expression
}

func (r *RepeatStatement) statementNode() {}
func (r *RepeatStatement) String() string {
	var out bytes.Buffer
	out.WriteString("REPEAT\n")
	for _, s := range r.Body {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	fmt.Fprintf(&out, "UNTIL %s", r.Until.String())
	return out.String()
}

// ForStatement is `FOR var := start TO|DOWNTO end DO stmt`.
type ForStatement struct {
	Span
	Variable      string
	VariableToken token.Token
	From          Expression
	To            Expression
	Down          bool
	Body          Statement
}

func (f *ForStatement) statementNode() {}
func (f *ForStatement) String() string {
	dir := "TO"
	if f.Down {
		dir = "DOWNTO"
	}
	return fmt.Sprintf("FOR %s := %s %s %s DO\n%s", f.Variable, f.From.String(), dir, f.To.String(), f.Body.String())
}

// CaseBranch is one `label[,label...] : stmts` arm of a CASE statement.
type CaseBranch struct {
	Span
	Labels     []Expression
	Statements []Statement
}

func (c *CaseBranch) String() string {
	labels := make([]string, len(c.Labels))
	for i, l := range c.Labels {
		labels[i] = l.String()
	}
	return fmt.Sprintf("%s:", strings.Join(labels, ","))
}

// CaseStatement is `CASE selector OF branch... ELSE stmts END`.
type CaseStatement struct {
	Span
	Selector Expression
	Cases    []*CaseBranch
	Else     []Statement
}

func (c *CaseStatement) statementNode() {}
func (c *CaseStatement) String() string {
	var out bytes.Buffer
	fmt.Fprintf(&out, "CASE %s OF\n", c.Selector.String())
	for _, branch := range c.Cases {
		out.WriteString(branch.String())
		out.WriteString("\n")
	}
	if c.Else != nil {
		out.WriteString("ELSE\n")
	}
	out.WriteString("END")
	return out.String()
}

// WithStatement is `WITH record DO stmt`.
type WithStatement struct {
	Span
	Record Expression
	Body   Statement
}

func (w *WithStatement) statementNode() {}
func (w *WithStatement) String() string {
	return fmt.Sprintf("WITH %s DO\n%s", w.Record.String(), w.Body.String())
}

// AssignmentStatement is `target := value` or a compound-assignment
// variant (`+=`, `-=`, `*=`, `/=`).
type AssignmentStatement struct {
	Span
	Target   Expression
	Operator token.Kind
	Value    Expression
}

func (a *AssignmentStatement) statementNode() {}
func (a *AssignmentStatement) String() string {
	return fmt.Sprintf("%s %s %s", a.Target.String(), a.Operator.String(), a.Value.String())
}

// ExpressionStatement wraps a bare expression used as a statement, the
// generalized form that covers both procedure-call statements and any
// other expression written where a statement is expected. [EXPANSION]
type ExpressionStatement struct {
	Span
	Expression Expression
}

func (e *ExpressionStatement) statementNode() {}
func (e *ExpressionStatement) String() string { return e.Expression.String() }

// CallStatement is an alias for ExpressionStatement, kept so the parser
// and callers can spell out the spec's named "procedure call statement"
// case while sharing ExpressionStatement's single implementation.
// [EXPANSION]
type CallStatement = ExpressionStatement

// ExitStatement is `EXIT` or `EXIT(value)`.
type ExitStatement struct {
	Span
	Value Expression
}

func (e *ExitStatement) statementNode() {}
func (e *ExitStatement) String() string {
	if e.Value != nil {
		return fmt.Sprintf("EXIT(%s)", e.Value.String())
	}
	return "EXIT"
}

// ---------------------------------------------------------------------------
// Expressions
// ---------------------------------------------------------------------------

// Identifier is a bare or quoted name reference.
type Identifier struct {
	Span
	Name   string
	Quoted bool
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string {
	if i.Quoted {
		return fmt.Sprintf("%q", i.Name)
	}
	return i.Name
}

// IntegerLiteral is an INT token value.
type IntegerLiteral struct {
	Span
	Value int64
}

func (l *IntegerLiteral) expressionNode() {}
func (l *IntegerLiteral) String() string  { return l.Start.Literal }

// DecimalLiteral is a DECIMAL token value.
type DecimalLiteral struct {
	Span
	Value float64
}

func (l *DecimalLiteral) expressionNode() {}
func (l *DecimalLiteral) String() string  { return l.Start.Literal }

// StringLiteral is a 'quoted' STRING token value, with doubled-quote
// escapes already resolved.
type StringLiteral struct {
	Span
	Value string
}

func (l *StringLiteral) expressionNode() {}
func (l *StringLiteral) String() string  { return fmt.Sprintf("'%s'", l.Value) }

// BooleanLiteral is TRUE or FALSE.
type BooleanLiteral struct {
	Span
	Value bool
}

func (l *BooleanLiteral) expressionNode() {}
func (l *BooleanLiteral) String() string  { return l.Start.Literal }

// DateLiteral is a D'...' token value.
type DateLiteral struct {
	Span
	Value string
}

func (l *DateLiteral) expressionNode() {}
func (l *DateLiteral) String() string  { return l.Start.Literal }

// TimeLiteral is a T'...' token value.
type TimeLiteral struct {
	Span
	Value string
}

func (l *TimeLiteral) expressionNode() {}
func (l *TimeLiteral) String() string  { return l.Start.Literal }

// DateTimeLiteral is a DT'...' token value.
type DateTimeLiteral struct {
	Span
	Value string
}

func (l *DateTimeLiteral) expressionNode() {}
func (l *DateTimeLiteral) String() string  { return l.Start.Literal }

// UnaryExpression is a prefix operator applied to an operand (`NOT x`,
// `-x`).
type UnaryExpression struct {
	Span
	Operator token.Kind
	Operand  Expression
}

func (u *UnaryExpression) expressionNode() {}
func (u *UnaryExpression) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator.String(), u.Operand.String())
}

// BinaryExpression is an infix operator applied to two operands.
type BinaryExpression struct {
	Span
	Left     Expression
	Operator token.Kind
	Right    Expression
}

func (b *BinaryExpression) expressionNode() {}
func (b *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator.String(), b.Right.String())
}

// MemberExpression is dotted field/member access, `Target.Name`, used both
// for `Rec.Field` and for `"Long Table Name".Field`.
type MemberExpression struct {
	Span
	Target Expression
	Name   string
}

func (m *MemberExpression) expressionNode() {}
func (m *MemberExpression) String() string {
	return fmt.Sprintf("%s.%s", m.Target.String(), m.Name)
}

// CallExpression is a function/procedure invocation, `Function(args...)`.
type CallExpression struct {
	Span
	Function  Expression
	Arguments []Expression
}

func (c *CallExpression) expressionNode() {}
func (c *CallExpression) String() string {
	args := make([]string, len(c.Arguments))
	for i, a := range c.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Function.String(), strings.Join(args, ","))
}

// ArrayAccessExpression is `Array[index]`.
type ArrayAccessExpression struct {
	Span
	Array Expression
	Index Expression
}

func (a *ArrayAccessExpression) expressionNode() {}
func (a *ArrayAccessExpression) String() string {
	return fmt.Sprintf("%s[%s]", a.Array.String(), a.Index.String())
}

// RangeExpression is `from..to`, used inside CASE labels and set literals.
type RangeExpression struct {
	Span
	From Expression
	To   Expression
}

func (r *RangeExpression) expressionNode() {}
func (r *RangeExpression) String() string {
	return fmt.Sprintf("%s..%s", r.From.String(), r.To.String())
}

// SetExpression is a `[a,b,c..d]` literal set used in CASE labels.
type SetExpression struct {
	Span
	Elements []Expression
}

func (s *SetExpression) expressionNode() {}
func (s *SetExpression) String() string {
	parts := make([]string, len(s.Elements))
	for i, e := range s.Elements {
		parts[i] = e.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, ","))
}

// ---------------------------------------------------------------------------
// PropertyValueParser output nodes (CalcFormula / TableRelation)
// ---------------------------------------------------------------------------

// PropertyCondition is one `WHERE(Field=Predicate)` clause, shared between
// CalcFormulaNode and SimpleTableRelation.
type PropertyCondition struct {
	Span
	Field          string
	Operator       string // "=", "<>", "<", ">", "<=", ">="
	PredicateType  string // "const", "field", "filter"
	PredicateValue string
}

func (c *PropertyCondition) String() string {
	return fmt.Sprintf("%s%s%s", c.Field, c.Operator, c.PredicateValue)
}

// CalcFormulaNode is the parsed form of a FlowField's CalcFormula property,
// e.g. `Sum("Sales Line".Amount WHERE("Document No."=FIELD("No.")))`.
type CalcFormulaNode struct {
	Span
	AggregationFunction string // Sum, Count, Lookup, Exist, Min, Max, Average
	SourceTable         string
	SourceField         string
	Where               []*PropertyCondition
}

func (c *CalcFormulaNode) String() string {
	return fmt.Sprintf("%s(%s.%s)", c.AggregationFunction, c.SourceTable, c.SourceField)
}

// SimpleTableRelation is one unconditional `TableName.FieldName WHERE(...)`
// relation target.
type SimpleTableRelation struct {
	Span
	TableName string
	FieldName string
	Where     []*PropertyCondition
}

func (s *SimpleTableRelation) String() string {
	return fmt.Sprintf("%s.%s", s.TableName, s.FieldName)
}

// ConditionalTableRelation is one `IF (Field=Predicate) TableRelation`
// branch of a TableRelation property; the final branch in the flattened
// chain may additionally carry ElseRelation, the relation that applies
// when none of the preceding conditions matched.
type ConditionalTableRelation struct {
	Span
	Condition    *PropertyCondition
	Relation     *SimpleTableRelation
	ElseRelation *SimpleTableRelation
}

func (c *ConditionalTableRelation) String() string {
	return fmt.Sprintf("IF (%s) %s", c.Condition.String(), c.Relation.String())
}

// TableRelationNode is the parsed form of a field's TableRelation property.
// A relation with no IF/ELSE is represented purely by Simple; a relation
// with conditions is flattened into Conditional per the invariant that
// ELSE-IF chains are represented as a flat list rather than a nested tree.
type TableRelationNode struct {
	Span
	Simple      *SimpleTableRelation
	Conditional []*ConditionalTableRelation
}

func (t *TableRelationNode) String() string {
	if t.Simple != nil {
		return t.Simple.String()
	}
	parts := make([]string, len(t.Conditional))
	for i, c := range t.Conditional {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
