package parser

import (
	"strconv"

	"github.com/klauskaan/cal-language-core/ast"
	"github.com/klauskaan/cal-language-core/token"
)

// parseExpression is the Pratt-parser entry point: it looks up curToken's
// prefix handler, then repeatedly absorbs infix operators whose precedence
// is higher than the precedence this call was entered at. Grounded
// directly on the teacher's Parser.parseExpression, restructured for
// C/AL's operator set and precedence table.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Kind]
	if prefix == nil {
		p.addError("no prefix parse function for %s (%q)", p.curToken.Kind, p.curToken.Literal)
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMICOLON) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Kind]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Span: ast.Span{Start: p.curToken, End: p.curToken}, Name: p.curToken.Literal}
}

func (p *Parser) parseQuotedIdentifier() ast.Expression {
	return &ast.Identifier{Span: ast.Span{Start: p.curToken, End: p.curToken}, Name: p.curToken.Literal, Quoted: true}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.curToken
	val, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.addError("invalid integer literal %q", tok.Literal)
	}
	return &ast.IntegerLiteral{Span: ast.Span{Start: tok, End: tok}, Value: val}
}

func (p *Parser) parseDecimalLiteral() ast.Expression {
	tok := p.curToken
	val, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.addError("invalid decimal literal %q", tok.Literal)
	}
	return &ast.DecimalLiteral{Span: ast.Span{Start: tok, End: tok}, Value: val}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curToken
	return &ast.StringLiteral{Span: ast.Span{Start: tok, End: tok}, Value: tok.Literal}
}

func (p *Parser) parseDateLiteral() ast.Expression {
	tok := p.curToken
	return &ast.DateLiteral{Span: ast.Span{Start: tok, End: tok}, Value: tok.Literal}
}

func (p *Parser) parseTimeLiteral() ast.Expression {
	tok := p.curToken
	return &ast.TimeLiteral{Span: ast.Span{Start: tok, End: tok}, Value: tok.Literal}
}

func (p *Parser) parseDateTimeLiteral() ast.Expression {
	tok := p.curToken
	return &ast.DateTimeLiteral{Span: ast.Span{Start: tok, End: tok}, Value: tok.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.curToken
	return &ast.BooleanLiteral{Span: ast.Span{Start: tok, End: tok}, Value: tok.Kind == token.TRUE_KW}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.curToken
	op := tok.Kind
	p.nextToken()
	operand := p.parseExpression(PREFIX)
	end := tok
	if operand != nil {
		end = operand.EndToken()
	}
	return &ast.UnaryExpression{Span: ast.Span{Start: tok, End: end}, Operator: op, Operand: operand}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	start := p.curToken
	p.nextToken()
	exp := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RPAREN) {
		return exp
	}
	if exp == nil {
		return nil
	}
	return wrapSpan(exp, start, p.curToken)
}

// wrapSpan widens an already-parsed expression's recorded span to include
// the surrounding parentheses, without introducing a dedicated
// "parenthesized expression" node (the grammar treats `(x)` as equivalent
// to `x` once parsed).
func wrapSpan(e ast.Expression, start, end token.Token) ast.Expression {
	switch n := e.(type) {
	case *ast.Identifier:
		n.Start, n.End = start, end
	case *ast.IntegerLiteral:
		n.Start, n.End = start, end
	case *ast.DecimalLiteral:
		n.Start, n.End = start, end
	case *ast.StringLiteral:
		n.Start, n.End = start, end
	case *ast.BooleanLiteral:
		n.Start, n.End = start, end
	case *ast.DateLiteral:
		n.Start, n.End = start, end
	case *ast.TimeLiteral:
		n.Start, n.End = start, end
	case *ast.DateTimeLiteral:
		n.Start, n.End = start, end
	case *ast.UnaryExpression:
		n.Start, n.End = start, end
	case *ast.BinaryExpression:
		n.Start, n.End = start, end
	case *ast.MemberExpression:
		n.Start, n.End = start, end
	case *ast.CallExpression:
		n.Start, n.End = start, end
	case *ast.ArrayAccessExpression:
		n.Start, n.End = start, end
	case *ast.RangeExpression:
		n.Start, n.End = start, end
	case *ast.SetExpression:
		n.Start, n.End = start, end
	}
	return e
}

func (p *Parser) parseSetExpression() ast.Expression {
	start := p.curToken
	set := &ast.SetExpression{}
	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		set.Start, set.End = start, p.curToken
		return set
	}
	p.nextToken()
	set.Elements = append(set.Elements, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		set.Elements = append(set.Elements, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.RBRACKET) {
		set.Start, set.End = start, p.curToken
		return set
	}
	set.Start, set.End = start, p.curToken
	return set
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := tok.Kind
	precedence := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(precedence)
	start := tok
	if left != nil {
		start = left.StartToken()
	}
	end := tok
	if right != nil {
		end = right.EndToken()
	}
	return &ast.BinaryExpression{Span: ast.Span{Start: start, End: end}, Left: left, Operator: op, Right: right}
}

func (p *Parser) parseRangeExpression(left ast.Expression) ast.Expression {
	p.nextToken()
	right := p.parseExpression(RANGE_PREC)
	start := p.curToken
	if left != nil {
		start = left.StartToken()
	}
	end := p.curToken
	if right != nil {
		end = right.EndToken()
	}
	return &ast.RangeExpression{Span: ast.Span{Start: start, End: end}, From: left, To: right}
}

func (p *Parser) parseCallExpression(fn ast.Expression) ast.Expression {
	start := p.curToken
	if fn != nil {
		start = fn.StartToken()
	}
	call := &ast.CallExpression{Function: fn}
	call.Arguments = p.parseExpressionList(token.RPAREN)
	call.Start, call.End = start, p.curToken
	return call
}

// parseExpressionList parses a comma-separated expression list up to and
// including the given closing delimiter; curToken is left on the closer.
func (p *Parser) parseExpressionList(closer token.Kind) []ast.Expression {
	var list []ast.Expression
	if p.peekIs(closer) {
		p.nextToken()
		return list
	}
	p.nextToken()
	list = append(list, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		list = append(list, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(closer) {
		return list
	}
	return list
}

func (p *Parser) parseArrayAccessExpression(arr ast.Expression) ast.Expression {
	start := p.curToken
	if arr != nil {
		start = arr.StartToken()
	}
	p.nextToken()
	index := p.parseExpression(LOWEST)
	if !p.expectPeek(token.RBRACKET) {
		return &ast.ArrayAccessExpression{Span: ast.Span{Start: start, End: p.curToken}, Array: arr, Index: index}
	}
	return &ast.ArrayAccessExpression{Span: ast.Span{Start: start, End: p.curToken}, Array: arr, Index: index}
}

func (p *Parser) parseMemberExpression(target ast.Expression) ast.Expression {
	start := p.curToken
	if target != nil {
		start = target.StartToken()
	}
	if p.peekIs(token.IDENT) || p.peekIs(token.QUOTED_IDENT) {
		p.nextToken()
	} else {
		p.addErrorAt(p.peekToken, "expected a member name after '.', got %q", p.peekToken.Literal)
	}
	name := p.curToken.Literal
	return &ast.MemberExpression{Span: ast.Span{Start: start, End: p.curToken}, Target: target, Name: name}
}
