package propertyparser

import (
	"github.com/klauskaan/cal-language-core/ast"
	"github.com/klauskaan/cal-language-core/diagnostics"
	"github.com/klauskaan/cal-language-core/token"
)

// ParseTableRelation parses a field's TableRelation property value, one of:
//
//	"Customer"."No."
//	"Customer"."No." WHERE("Blocked"=CONST(false))
//	IF (Type=CONST(Item)) Item ELSE IF (Type=CONST("G/L Account")) "G/L Account" ELSE Resource
//
// An ELSE-IF chain is flattened into TableRelationNode.Conditional rather
// than represented as nested IF nodes, per the invariant that a
// TableRelation's conditional structure is always a flat list of branches
// plus one optional trailing default.
func ParseTableRelation(tokens []token.Token) (*ast.TableRelationNode, []diagnostics.Diagnostic) {
	c := newCursor(tokens)
	node := &ast.TableRelationNode{}

	if c.curIs(token.EOF) {
		c.errorf("empty TableRelation value")
		return node, c.diags
	}

	if c.curIs(token.IF) {
		node.Conditional = c.parseConditionalChain()
		c.expectEOF("TableRelation")
		return node, c.diags
	}

	node.Simple = c.parseSimpleRelation()
	c.expectEOF("TableRelation")
	return node, c.diags
}

// parseSimpleRelation parses `TableName.FieldName [WHERE(...)]`. curToken
// is the table name token on entry.
func (c *cursor) parseSimpleRelation() *ast.SimpleTableRelation {
	rel := &ast.SimpleTableRelation{}
	rel.Start = c.cur
	rel.TableName = c.cur.Literal

	if c.peekIs(token.DOT) {
		c.next()
		if fieldName, ok := c.identName(); ok {
			rel.FieldName = fieldName
		}
	}

	if c.peekIsWord("WHERE") {
		c.next()
		rel.Where = c.parseWhereClause()
	}

	rel.End = c.cur
	return rel
}

// parseConditionalChain parses a `IF (cond) rel [ELSE IF (cond) rel...] [ELSE rel]`
// chain into a flat list of branches, with the final non-IF fallback (if
// any) attached to the last branch's ElseRelation. curToken is the IF
// keyword on entry to each iteration, matching how ELSE IF repositions
// curToken onto the next IF before looping back.
func (c *cursor) parseConditionalChain() []*ast.ConditionalTableRelation {
	var chain []*ast.ConditionalTableRelation

	for {
		if !c.curIs(token.IF) {
			break
		}
		if !c.expect(token.LPAREN) {
			break
		}
		cond := c.parseCondition()
		c.expect(token.RPAREN)
		c.next()
		rel := c.parseSimpleRelation()

		branch := &ast.ConditionalTableRelation{Condition: cond, Relation: rel}
		branch.Start = cond.Start
		branch.End = rel.End
		chain = append(chain, branch)

		if !c.peekIs(token.ELSE) {
			break
		}
		c.next() // ELSE

		if c.peekIs(token.IF) {
			c.next() // IF
			continue
		}

		c.next()
		elseRel := c.parseSimpleRelation()
		if len(chain) > 0 {
			chain[len(chain)-1].ElseRelation = elseRel
			chain[len(chain)-1].End = elseRel.End
		}
		break
	}

	return chain
}
