// Package cal is the top-level entry point for the C/AL language core: a
// lexer, recursive-descent parser, property-value mini-parsers, symbol
// table, and depth-limited AST walker for Dynamics NAV's C/AL language
// (used through NAV 2018). It re-exports the types a caller needs so
// that importing one package is enough, the way the teacher's
// tsqlparser.go does for its five T-SQL subpackages.
package cal

import (
	"strings"

	"github.com/klauskaan/cal-language-core/ast"
	"github.com/klauskaan/cal-language-core/diagnostics"
	"github.com/klauskaan/cal-language-core/lexer"
	"github.com/klauskaan/cal-language-core/parser"
	"github.com/klauskaan/cal-language-core/propertyparser"
	"github.com/klauskaan/cal-language-core/symbols"
	"github.com/klauskaan/cal-language-core/token"
)

// Parse parses one complete C/AL object source unit, returning its AST and
// any diagnostics collected along the way. Parsing always returns a
// (possibly partial) Document; callers should check diagnostics.HasErrors
// rather than treating a non-nil Document as success.
func Parse(source string) (*ast.Document, []diagnostics.Diagnostic) {
	return parser.ParseDocument(source)
}

// Tokenize returns every token in source. When includeTrivia is true,
// whitespace, newline, and comment tokens are included alongside the
// significant ones, preserving enough information to reconstruct source
// by concatenating token text; when false, only significant tokens are
// returned.
func Tokenize(source string, includeTrivia bool) []token.Token {
	if includeTrivia {
		return lexer.TokenizeWithTrivia(source)
	}
	return lexer.TokenizeFiltered(source, false)
}

// BuildSymbols builds the scope tree and symbol table for a parsed
// Document.
func BuildSymbols(doc *ast.Document) *symbols.Table {
	return symbols.BuildFromAST(doc)
}

// ParsePropertyValue dispatches a captured property value's token slice to
// the mini-grammar matching its property name (CalcFormula or
// TableRelation), returning the resulting node as an ast.Node. It reports
// ok=false for any property name without a dedicated mini-grammar, in
// which case callers should fall back to the property's plain Value
// string.
func ParsePropertyValue(propertyName string, tokens []token.Token) (node ast.Node, diags []diagnostics.Diagnostic, ok bool) {
	switch strings.ToUpper(propertyName) {
	case "CALCFORMULA":
		n, d := propertyparser.ParseCalcFormula(tokens)
		if n == nil {
			return nil, d, true
		}
		return n, d, true
	case "TABLERELATION":
		n, d := propertyparser.ParseTableRelation(tokens)
		return n, d, true
	default:
		return nil, nil, false
	}
}

// Re-exported core types, so a caller only needs this one import.
type (
	Document   = ast.Document
	Node       = ast.Node
	Statement  = ast.Statement
	Expression = ast.Expression
	Token      = token.Token
	TokenKind  = token.Kind
	Diagnostic = diagnostics.Diagnostic
	Severity   = diagnostics.Severity
	Table      = symbols.Table
	Scope      = symbols.Scope
	Symbol     = symbols.Symbol
)

// Object structure
type (
	ObjectDeclaration     = ast.ObjectDeclaration
	ObjectKind            = ast.ObjectKind
	Property              = ast.Property
	DataTypeNode          = ast.DataTypeNode
	FieldDeclaration      = ast.FieldDeclaration
	KeyDeclaration        = ast.KeyDeclaration
	FieldGroupDeclaration = ast.FieldGroupDeclaration
	VariableDeclaration   = ast.VariableDeclaration
	ParameterDeclaration  = ast.ParameterDeclaration
	AttributeNode         = ast.AttributeNode
	ProcedureDeclaration  = ast.ProcedureDeclaration
	TriggerDeclaration    = ast.TriggerDeclaration
	CodeSection           = ast.CodeSection
	ControlDeclaration    = ast.ControlDeclaration
	ControlKind           = ast.ControlKind
	ActionDeclaration     = ast.ActionDeclaration
	ActionKind            = ast.ActionKind
	ElementDeclaration    = ast.ElementDeclaration
)

// Statement types
type (
	BlockStatement      = ast.BlockStatement
	EmptyStatement      = ast.EmptyStatement
	IfStatement         = ast.IfStatement
	WhileStatement      = ast.WhileStatement
	RepeatStatement     = ast.RepeatStatement
	ForStatement        = ast.ForStatement
	CaseBranch          = ast.CaseBranch
	CaseStatement       = ast.CaseStatement
	WithStatement       = ast.WithStatement
	AssignmentStatement = ast.AssignmentStatement
	ExpressionStatement = ast.ExpressionStatement
	CallStatement       = ast.CallStatement
	ExitStatement       = ast.ExitStatement
)

// Expression types
type (
	Identifier            = ast.Identifier
	IntegerLiteral        = ast.IntegerLiteral
	DecimalLiteral        = ast.DecimalLiteral
	StringLiteral         = ast.StringLiteral
	BooleanLiteral        = ast.BooleanLiteral
	DateLiteral           = ast.DateLiteral
	TimeLiteral           = ast.TimeLiteral
	DateTimeLiteral       = ast.DateTimeLiteral
	UnaryExpression       = ast.UnaryExpression
	BinaryExpression      = ast.BinaryExpression
	MemberExpression      = ast.MemberExpression
	CallExpression        = ast.CallExpression
	ArrayAccessExpression = ast.ArrayAccessExpression
	RangeExpression       = ast.RangeExpression
	SetExpression         = ast.SetExpression
)

// Property-value mini-grammar output types
type (
	PropertyCondition        = ast.PropertyCondition
	CalcFormulaNode          = ast.CalcFormulaNode
	SimpleTableRelation      = ast.SimpleTableRelation
	ConditionalTableRelation = ast.ConditionalTableRelation
	TableRelationNode        = ast.TableRelationNode
)

// Walker
type (
	Visitor     = ast.Visitor
	VisitorFunc = ast.VisitorFunc
	WalkAction  = ast.WalkAction
	Walker      = ast.Walker
	Inspector   = ast.Inspector
)

const (
	Descend = ast.Descend
	Skip    = ast.Skip
)

// Walk walks root in pre-order with v, using the default max depth.
func Walk(v Visitor, root Node) []diagnostics.Diagnostic {
	return ast.Walk(v, root)
}

// NewWalker builds a Walker with the default max depth (500).
func NewWalker() *Walker {
	return ast.NewWalker()
}

// NewInspector collects every node reachable from root for repeated
// querying via Find/FindAll.
func NewInspector(root Node) *Inspector {
	return ast.NewInspector(root)
}

// Object kind constants
const (
	UnknownObject   = ast.UnknownObject
	TableObject     = ast.TableObject
	PageObject      = ast.PageObject
	ReportObject    = ast.ReportObject
	CodeunitObject  = ast.CodeunitObject
	QueryObject     = ast.QueryObject
	XMLportObject   = ast.XMLportObject
	MenuSuiteObject = ast.MenuSuiteObject
)

// Severity constants
const (
	Error   = diagnostics.Error
	Warning = diagnostics.Warning
)

// HasErrors reports whether diags contains any Error-severity diagnostic.
func HasErrors(diags []Diagnostic) bool {
	return diagnostics.HasErrors(diags)
}
