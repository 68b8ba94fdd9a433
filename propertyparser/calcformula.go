package propertyparser

import (
	"github.com/klauskaan/cal-language-core/ast"
	"github.com/klauskaan/cal-language-core/diagnostics"
	"github.com/klauskaan/cal-language-core/token"
)

// ParseCalcFormula parses a FlowField's CalcFormula property value, e.g.
// `Sum("Sales Line".Amount WHERE("Document No."=FIELD("No.")))`. tokens is
// the property's captured ValueTokens slice.
func ParseCalcFormula(tokens []token.Token) (*ast.CalcFormulaNode, []diagnostics.Diagnostic) {
	c := newCursor(tokens)
	if c.curIs(token.EOF) {
		c.errorf("empty CalcFormula value")
		return nil, c.diags
	}

	node := &ast.CalcFormulaNode{}
	node.Start = c.cur
	node.AggregationFunction = c.cur.Literal

	if !c.expect(token.LPAREN) {
		node.End = c.cur
		return node, c.diags
	}

	tableName, ok := c.identName()
	if !ok {
		node.End = c.cur
		return node, c.diags
	}
	node.SourceTable = tableName

	if c.peekIs(token.DOT) {
		c.next()
		if fieldName, ok := c.identName(); ok {
			node.SourceField = fieldName
		}
	}

	if c.peekIsWord("WHERE") {
		c.next()
		node.Where = c.parseWhereClause()
	}

	c.expect(token.RPAREN)
	node.End = c.cur
	c.expectEOF("CalcFormula")
	return node, c.diags
}
