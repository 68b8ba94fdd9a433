package parser

import (
	"github.com/klauskaan/cal-language-core/ast"
	"github.com/klauskaan/cal-language-core/token"
)

// statementResync is where synchronize stops when a statement can't be
// parsed: the next statement separator or a block/section closer.
var statementResync = []token.Kind{token.SEMICOLON, token.END, token.EOF}

// parseStatement parses one statement; curToken is the statement's first
// token on entry and its last token on return.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Kind {
	case token.BEGIN:
		return p.parseBlockStatement()
	case token.IF:
		return p.parseIfStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.REPEAT:
		return p.parseRepeatStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.CASE:
		return p.parseCaseStatement()
	case token.WITH:
		return p.parseWithStatement()
	case token.EXIT:
		return p.parseExitStatement()
	case token.SEMICOLON:
		return &ast.EmptyStatement{Span: ast.Span{Start: p.curToken, End: p.curToken}}
	default:
		return p.parseSimpleStatement()
	}
}

// parseBlockStatement parses `BEGIN stmt; stmt; ... END`. curToken is
// BEGIN on entry, END on return.
func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	block := &ast.BlockStatement{}
	block.Start = p.curToken

	for !p.peekIs(token.END) && !p.peekIs(token.EOF) {
		p.nextToken()
		if p.curIs(token.SEMICOLON) {
			continue
		}
		stmt := p.parseStatement()
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		if !p.peekIs(token.SEMICOLON) && !p.peekIs(token.END) {
			p.addErrorAt(p.peekToken, "expected ';' or END, got %q", p.peekToken.Literal)
			p.synchronize(token.SEMICOLON, token.END, token.EOF)
		}
	}
	if !p.expectPeek(token.END) {
		p.synchronize(token.SEMICOLON, token.EOF)
	}
	block.End = p.curToken
	return block
}

// parseStatementOrEmpty parses the single statement that follows
// THEN/ELSE/DO, which C/AL permits to be entirely absent (`IF x THEN;`,
// `WHILE x DO;`). A following `END` with no `;` is not an omitted
// statement but a parse error: `END` can't itself be a statement, and
// THEN/ELSE/DO directly followed by `END` almost always means the body
// was left out by accident, falling straight through to the enclosing
// block's `END` instead.
func (p *Parser) parseStatementOrEmpty() ast.Statement {
	if p.peekIs(token.END) {
		p.addErrorAt(p.peekToken, "empty statement body: END cannot be a statement; use ';' if this is intentional")
		return &ast.EmptyStatement{Span: ast.Span{Start: p.peekToken, End: p.peekToken}}
	}
	if p.peekIs(token.SEMICOLON) || p.peekIs(token.ELSE) {
		return &ast.EmptyStatement{Span: ast.Span{Start: p.peekToken, End: p.peekToken}}
	}
	p.nextToken()
	return p.parseStatement()
}

func (p *Parser) parseIfStatement() *ast.IfStatement {
	stmt := &ast.IfStatement{}
	stmt.Start = p.curToken

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.THEN) {
		p.synchronize(statementResync...)
		stmt.End = p.curToken
		return stmt
	}

	stmt.Then = p.parseStatementOrEmpty()
	stmt.End = p.curToken

	if p.peekIs(token.ELSE) {
		p.nextToken()
		stmt.Else = p.parseStatementOrEmpty()
		stmt.End = p.curToken
	}
	return stmt
}

func (p *Parser) parseWhileStatement() *ast.WhileStatement {
	stmt := &ast.WhileStatement{}
	stmt.Start = p.curToken

	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)

	if !p.expectPeek(token.DO) {
		p.synchronize(statementResync...)
		stmt.End = p.curToken
		return stmt
	}
	stmt.Body = p.parseStatementOrEmpty()
	stmt.End = p.curToken
	return stmt
}

func (p *Parser) parseRepeatStatement() *ast.RepeatStatement {
	stmt := &ast.RepeatStatement{}
	stmt.Start = p.curToken

	for !p.peekIs(token.UNTIL) && !p.peekIs(token.EOF) {
		p.nextToken()
		if p.curIs(token.SEMICOLON) {
			continue
		}
		s := p.parseStatement()
		if s != nil {
			stmt.Body = append(stmt.Body, s)
		}
	}
	if !p.expectPeek(token.UNTIL) {
		stmt.End = p.curToken
		return stmt
	}
	p.nextToken()
	stmt.Until = p.parseExpression(LOWEST)
	stmt.End = p.curToken
	return stmt
}

func (p *Parser) parseForStatement() *ast.ForStatement {
	stmt := &ast.ForStatement{}
	stmt.Start = p.curToken

	if !p.expectPeek(token.IDENT) {
		p.synchronize(statementResync...)
		stmt.End = p.curToken
		return stmt
	}
	stmt.VariableToken = p.curToken
	stmt.Variable = p.curToken.Literal

	if !p.expectPeek(token.ASSIGN) {
		p.synchronize(statementResync...)
		stmt.End = p.curToken
		return stmt
	}
	p.nextToken()
	stmt.From = p.parseExpression(LOWEST)

	if p.peekIs(token.TO) {
		p.nextToken()
	} else if p.peekIs(token.DOWNTO) {
		p.nextToken()
		stmt.Down = true
	} else {
		p.addErrorAt(p.peekToken, "expected TO or DOWNTO, got %q", p.peekToken.Literal)
		p.synchronize(statementResync...)
		stmt.End = p.curToken
		return stmt
	}
	p.nextToken()
	stmt.To = p.parseExpression(LOWEST)

	if !p.expectPeek(token.DO) {
		p.synchronize(statementResync...)
		stmt.End = p.curToken
		return stmt
	}
	stmt.Body = p.parseStatementOrEmpty()
	stmt.End = p.curToken
	return stmt
}

func (p *Parser) parseCaseStatement() *ast.CaseStatement {
	stmt := &ast.CaseStatement{}
	stmt.Start = p.curToken

	p.nextToken()
	stmt.Selector = p.parseExpression(LOWEST)

	if !p.expectPeek(token.OF) {
		p.synchronize(statementResync...)
		stmt.End = p.curToken
		return stmt
	}

	for !p.peekIs(token.END) && !p.peekIs(token.ELSE) && !p.peekIs(token.EOF) {
		p.nextToken()
		branch := p.parseCaseBranch()
		if branch != nil {
			stmt.Cases = append(stmt.Cases, branch)
		}
	}

	if p.peekIs(token.ELSE) {
		p.nextToken()
		for !p.peekIs(token.END) && !p.peekIs(token.EOF) {
			p.nextToken()
			if p.curIs(token.SEMICOLON) {
				continue
			}
			s := p.parseStatement()
			if s != nil {
				stmt.Else = append(stmt.Else, s)
			}
		}
	}

	if !p.expectPeek(token.END) {
		p.synchronize(token.SEMICOLON, token.EOF)
	}
	stmt.End = p.curToken
	return stmt
}

// parseCaseBranch parses one `label[,label...] : stmt;` arm.
func (p *Parser) parseCaseBranch() *ast.CaseBranch {
	branch := &ast.CaseBranch{}
	branch.Start = p.curToken

	branch.Labels = append(branch.Labels, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		branch.Labels = append(branch.Labels, p.parseExpression(LOWEST))
	}
	if !p.expectPeek(token.COLON) {
		p.synchronize(token.SEMICOLON, token.END, token.EOF)
		branch.End = p.curToken
		return branch
	}
	s := p.parseStatementOrEmpty()
	if s != nil {
		branch.Statements = append(branch.Statements, s)
	}
	branch.End = p.curToken
	return branch
}

func (p *Parser) parseWithStatement() *ast.WithStatement {
	stmt := &ast.WithStatement{}
	stmt.Start = p.curToken

	p.nextToken()
	stmt.Record = p.parseExpression(LOWEST)

	if !p.expectPeek(token.DO) {
		p.synchronize(statementResync...)
		stmt.End = p.curToken
		return stmt
	}
	stmt.Body = p.parseStatementOrEmpty()
	stmt.End = p.curToken
	return stmt
}

func (p *Parser) parseExitStatement() *ast.ExitStatement {
	stmt := &ast.ExitStatement{}
	stmt.Start = p.curToken

	if p.peekIs(token.LPAREN) {
		p.nextToken()
		p.nextToken()
		stmt.Value = p.parseExpression(LOWEST)
		if !p.expectPeek(token.RPAREN) {
			p.synchronize(statementResync...)
		}
	}
	stmt.End = p.curToken
	return stmt
}

// parseSimpleStatement parses an assignment or an expression statement
// (bare procedure call or other expression used as a statement), the two
// forms that begin with an expression rather than a keyword.
func (p *Parser) parseSimpleStatement() ast.Statement {
	start := p.curToken
	expr := p.parseExpression(LOWEST)

	switch p.peekToken.Kind {
	case token.ASSIGN, token.PLUSEQ, token.MINUSEQ, token.MULEQ, token.DIVEQ:
		op := p.peekToken.Kind
		p.nextToken()
		p.nextToken()
		value := p.parseExpression(LOWEST)
		return &ast.AssignmentStatement{
			Span:     ast.Span{Start: start, End: p.curToken},
			Target:   expr,
			Operator: op,
			Value:    value,
		}
	default:
		return &ast.ExpressionStatement{
			Span:       ast.Span{Start: start, End: p.curToken},
			Expression: expr,
		}
	}
}
