// Package propertyparser implements the small, self-contained grammars
// used by two C/AL property values -- CalcFormula and TableRelation --
// whose syntax is richer than the flat token-run capture the main parser
// gives every other property. Both are re-parsed from a captured token
// slice via lexer.FromTokens rather than from source text, so neither
// mini-parser re-scans anything the outer parser already lexed.
package propertyparser

import (
	"strings"

	"github.com/klauskaan/cal-language-core/ast"
	"github.com/klauskaan/cal-language-core/diagnostics"
	"github.com/klauskaan/cal-language-core/lexer"
	"github.com/klauskaan/cal-language-core/token"
)

// cursor is a minimal two-token lookahead reader over a captured token
// slice, independent of package parser's Parser (whose fields are
// unexported) but built the same way: curToken/peekToken plus nextToken.
type cursor struct {
	l    *lexer.Lexer
	cur  token.Token
	peek token.Token

	// diags holds at most one diagnostic: CalcFormula and TableRelation
	// values use first-error-wins semantics, since a malformed value's
	// remaining tokens are usually nonsense once the first construct
	// fails and reporting all of them just adds noise.
	diags []diagnostics.Diagnostic
}

func newCursor(tokens []token.Token) *cursor {
	c := &cursor{l: lexer.FromTokens(tokens)}
	c.next()
	c.next()
	return c
}

func (c *cursor) next() {
	c.cur = c.peek
	c.peek = c.l.NextToken()
}

func (c *cursor) curIs(k token.Kind) bool  { return c.cur.Kind == k }
func (c *cursor) peekIs(k token.Kind) bool { return c.peek.Kind == k }

func (c *cursor) expect(k token.Kind) bool {
	if c.peekIs(k) {
		c.next()
		return true
	}
	c.errorf("expected %s, got %s (%q)", k, c.peek.Kind, c.peek.Literal)
	return false
}

func (c *cursor) errorf(format string, args ...interface{}) {
	if len(c.diags) > 0 {
		return
	}
	c.diags = append(c.diags, diagnostics.New(c.cur, format, args...))
}

// expectEOF reports a diagnostic if tokens remain after what should be a
// complete parse -- a CalcFormula/TableRelation value with trailing
// garbage (e.g. an extra token after the closing paren) is a syntax
// error, not something to silently ignore.
func (c *cursor) expectEOF(label string) {
	if !c.peekIs(token.EOF) {
		c.errorf("Unexpected token after %s expression", label)
	}
}

// identName reads one identifier/quoted-identifier token's literal.
func (c *cursor) identName() (string, bool) {
	if c.peekIs(token.IDENT) || c.peekIs(token.QUOTED_IDENT) {
		c.next()
		return c.cur.Literal, true
	}
	c.errorf("expected a name, got %s (%q)", c.peek.Kind, c.peek.Literal)
	return "", false
}

func (c *cursor) peekIsWord(word string) bool {
	return c.peekIs(token.IDENT) && strings.EqualFold(c.peek.Literal, word)
}

// literalRepr reproduces a token's source spelling, restoring the quoting
// the lexer stripped from STRING and QUOTED_IDENT literals.
func literalRepr(t token.Token) string {
	switch t.Kind {
	case token.STRING:
		return "'" + t.Literal + "'"
	case token.QUOTED_IDENT:
		return "\"" + t.Literal + "\""
	default:
		return t.Literal
	}
}

// parseOperator reads one comparison operator.
func (c *cursor) parseOperator() (string, bool) {
	switch c.peek.Kind {
	case token.EQ:
		c.next()
		return "=", true
	case token.NEQ:
		c.next()
		return "<>", true
	case token.LTE:
		c.next()
		return "<=", true
	case token.GTE:
		c.next()
		return ">=", true
	case token.LT:
		c.next()
		return "<", true
	case token.GT:
		c.next()
		return ">", true
	default:
		c.errorf("expected a comparison operator, got %s (%q)", c.peek.Kind, c.peek.Literal)
		return "", false
	}
}

// parseCondition parses one `Field=Predicate` entry of a WHERE clause.
func (c *cursor) parseCondition() *ast.PropertyCondition {
	cond := &ast.PropertyCondition{}
	name, ok := c.identName()
	cond.Start = c.cur
	if !ok {
		cond.End = c.cur
		return cond
	}
	cond.Field = name

	op, ok := c.parseOperator()
	cond.Operator = op
	if !ok {
		cond.End = c.cur
		return cond
	}
	c.parsePredicate(cond)
	cond.End = c.cur
	return cond
}

// parsePredicate parses a WHERE condition's right-hand side: a wrapped
// FIELD(...)/CONST(...)/FILTER(...) predicate, or a bare literal.
func (c *cursor) parsePredicate(cond *ast.PropertyCondition) {
	if c.peekIsWord("FIELD") || c.peekIsWord("CONST") || c.peekIsWord("FILTER") {
		c.next()
		switch strings.ToUpper(c.cur.Literal) {
		case "FIELD":
			cond.PredicateType = "field"
		case "CONST":
			cond.PredicateType = "const"
		case "FILTER":
			cond.PredicateType = "filter"
		}
		if c.expect(token.LPAREN) {
			var parts []string
			depth := 1
			for depth > 0 && !c.peekIs(token.EOF) {
				c.next()
				switch c.cur.Kind {
				case token.LPAREN:
					depth++
				case token.RPAREN:
					depth--
					if depth == 0 {
						cond.PredicateValue = strings.Join(parts, "")
						return
					}
				}
				parts = append(parts, literalRepr(c.cur))
			}
			cond.PredicateValue = strings.Join(parts, "")
		}
		return
	}

	cond.PredicateType = "const"
	var parts []string
	for !c.peekIs(token.COMMA) && !c.peekIs(token.RPAREN) && !c.peekIs(token.EOF) {
		c.next()
		parts = append(parts, literalRepr(c.cur))
	}
	cond.PredicateValue = strings.Join(parts, "")
}

// parseWhereClause parses `WHERE(cond,cond,...)`. curToken is the WHERE
// identifier on entry.
func (c *cursor) parseWhereClause() []*ast.PropertyCondition {
	var conds []*ast.PropertyCondition
	if !c.expect(token.LPAREN) {
		return conds
	}
	if c.peekIs(token.RPAREN) {
		c.next()
		return conds
	}
	conds = append(conds, c.parseCondition())
	for c.peekIs(token.COMMA) {
		c.next()
		conds = append(conds, c.parseCondition())
	}
	c.expect(token.RPAREN)
	return conds
}
