package parser

import (
	"strconv"
	"strings"

	"github.com/klauskaan/cal-language-core/ast"
	"github.com/klauskaan/cal-language-core/token"
)

// ---------------------------------------------------------------------------
// PROPERTIES / OBJECT-PROPERTIES
// ---------------------------------------------------------------------------

// parsePropertiesBlock parses `(OBJECT-)PROPERTIES { Name=Value; ... }`.
// curToken is the section keyword on entry.
func (p *Parser) parsePropertiesBlock() []*ast.Property {
	if !p.expectPeek(token.LBRACE) {
		p.synchronize(token.RBRACE, token.EOF)
		return nil
	}
	var props []*ast.Property
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		props = append(props, p.parseProperty())
	}
	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	return props
}

// parseProperty parses one `Name=Value;` entry, or `Name=[VAR ...] BEGIN
// ... END;` when the property's value is a trigger. curToken is the
// property's name token on entry.
func (p *Parser) parseProperty() *ast.Property {
	prop := &ast.Property{}
	prop.Start = p.curToken
	prop.NameToken = p.curToken
	prop.Name = p.curToken.Literal

	if !p.expectPeek(token.EQ) {
		p.synchronize(token.SEMICOLON, token.RBRACE, token.EOF)
		prop.End = p.curToken
		return prop
	}

	switch p.peekToken.Kind {
	case token.VAR:
		p.nextToken()
		prop.TriggerVariables = p.parseVariableDeclarations()
		if p.expectPeek(token.BEGIN) {
			prop.TriggerBody = p.parseBlockStatement()
		}
	case token.BEGIN:
		p.nextToken()
		prop.TriggerBody = p.parseBlockStatement()
	default:
		var toks []token.Token
		depth := 0
		for {
			if (p.peekIs(token.SEMICOLON) && depth == 0) || p.peekIs(token.RBRACE) || p.peekIs(token.EOF) {
				break
			}
			p.nextToken()
			switch p.curToken.Kind {
			case token.LPAREN, token.LBRACKET:
				depth++
			case token.RPAREN, token.RBRACKET:
				depth--
			}
			toks = append(toks, p.curToken)
		}
		prop.ValueTokens = toks
		prop.Value = joinLiterals(toks)
	}

	if p.peekIs(token.RBRACE) && prop.TriggerBody == nil {
		// The row's closing '}' also ends a value. An empty value needs
		// whitespace before that '}': `Name= }` is valid, `Name=}` is not.
		if len(prop.ValueTokens) == 0 && p.peekToken.Start == p.curToken.End {
			p.addErrorAt(p.peekToken, "malformed property value: '=' directly followed by '}'")
		}
	} else if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.SEMICOLON, token.RBRACE, token.EOF)
	}
	prop.End = p.curToken
	return prop
}

// parsePropertyList parses a run of `;Name=Value` entries that follows a
// row's fixed columns, up to the row's closing RBRACE. A single separator
// ';' (if present) introduces the list; each subsequent property's own
// trailing ';' doubles as the next entry's separator.
func (p *Parser) parsePropertyList() []*ast.Property {
	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
	}
	var props []*ast.Property
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		props = append(props, p.parseProperty())
	}
	return props
}

func triggersFromProperties(props []*ast.Property) []*ast.TriggerDeclaration {
	var out []*ast.TriggerDeclaration
	for _, prop := range props {
		if prop.TriggerBody == nil {
			continue
		}
		out = append(out, &ast.TriggerDeclaration{
			Span:           ast.Span{Start: prop.TriggerBody.Start, End: prop.TriggerBody.End},
			Name:           prop.Name,
			LocalVariables: prop.TriggerVariables,
			Body:           prop.TriggerBody,
			PropertyOwner:  prop,
		})
	}
	return out
}

// ---------------------------------------------------------------------------
// FIELDS
// ---------------------------------------------------------------------------

func (p *Parser) parseFieldsSection() []*ast.FieldDeclaration {
	if !p.expectPeek(token.LBRACE) {
		p.synchronize(token.RBRACE, token.EOF)
		return nil
	}
	var fields []*ast.FieldDeclaration
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		fields = append(fields, p.parseFieldDeclaration())
	}
	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	return fields
}

// parseFieldDeclaration parses one `{ Number ; ; Name ; Type ; Props... }`
// row. curToken is the row's opening LBRACE on entry.
func (p *Parser) parseFieldDeclaration() *ast.FieldDeclaration {
	f := &ast.FieldDeclaration{}
	f.Start = p.curToken

	if p.expectPeek(token.INT) {
		f.NumberToken = p.curToken
		f.Number, _ = strconv.Atoi(p.curToken.Literal)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		f.End = p.curToken
		return f
	}

	// Obsolete "field class" column, usually blank in modern exports.
	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		f.End = p.curToken
		return f
	}

	var nameToks []token.Token
	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		nameToks = append(nameToks, p.curToken)
	}
	f.NameTokens = nameToks
	f.Name = joinLiterals(nameToks)
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		f.End = p.curToken
		return f
	}

	if !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) {
		p.nextToken()
		f.DataType = p.parseDataType()
	}

	f.Properties = p.parsePropertyList()

	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	f.End = p.curToken
	return f
}

// ---------------------------------------------------------------------------
// KEYS
// ---------------------------------------------------------------------------

func (p *Parser) parseKeysSection() []*ast.KeyDeclaration {
	if !p.expectPeek(token.LBRACE) {
		p.synchronize(token.RBRACE, token.EOF)
		return nil
	}
	var keys []*ast.KeyDeclaration
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		keys = append(keys, p.parseKeyDeclaration())
	}
	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	return keys
}

func (p *Parser) parseKeyDeclaration() *ast.KeyDeclaration {
	k := &ast.KeyDeclaration{}
	k.Start = p.curToken

	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		k.End = p.curToken
		return k
	}

	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		if p.curIs(token.IDENT) || p.curIs(token.QUOTED_IDENT) {
			k.FieldNames = append(k.FieldNames, p.curToken.Literal)
		}
	}

	k.Properties = p.parsePropertyList()

	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	k.End = p.curToken
	return k
}

// ---------------------------------------------------------------------------
// FIELDGROUPS
// ---------------------------------------------------------------------------

func (p *Parser) parseFieldGroupsSection() []*ast.FieldGroupDeclaration {
	if !p.expectPeek(token.LBRACE) {
		p.synchronize(token.RBRACE, token.EOF)
		return nil
	}
	var groups []*ast.FieldGroupDeclaration
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		groups = append(groups, p.parseFieldGroupDeclaration())
	}
	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	return groups
}

func (p *Parser) parseFieldGroupDeclaration() *ast.FieldGroupDeclaration {
	g := &ast.FieldGroupDeclaration{}
	g.Start = p.curToken

	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		g.End = p.curToken
		return g
	}

	if !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) {
		p.nextToken()
		g.Name = p.curToken.Literal
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		g.End = p.curToken
		return g
	}

	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		if p.curIs(token.IDENT) || p.curIs(token.QUOTED_IDENT) {
			g.FieldNames = append(g.FieldNames, p.curToken.Literal)
		}
	}

	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	g.End = p.curToken
	return g
}

// ---------------------------------------------------------------------------
// Data types and VAR blocks, shared by CODE/procedures/triggers
// ---------------------------------------------------------------------------

// parseVariableDeclarations parses a run of `Name : Type;` entries
// following a VAR keyword, stopping as soon as the next token is not an
// identifier (i.e. BEGIN, PROCEDURE, TRIGGER, an attribute, or the
// section's closing brace). curToken is VAR on entry.
func (p *Parser) parseVariableDeclarations() []*ast.VariableDeclaration {
	var out []*ast.VariableDeclaration
	for p.peekIs(token.IDENT) {
		p.nextToken()
		v := &ast.VariableDeclaration{}
		v.Start = p.curToken
		v.NameToken = p.curToken
		v.Name = p.curToken.Literal

		if !p.expectPeek(token.COLON) {
			p.synchronize(token.SEMICOLON, token.EOF)
			v.End = p.curToken
			out = append(out, v)
			continue
		}
		if p.curIs(token.TEMPORARY) || p.peekIs(token.TEMPORARY) {
			// TEMPORARY is consumed inside parseDataType below.
		}
		p.nextToken()
		v.DataType = p.parseDataType()
		v.Temporary = v.DataType != nil && v.DataType.IsTemporary

		if !p.expectPeek(token.SEMICOLON) {
			p.synchronize(token.SEMICOLON, token.EOF)
		}
		v.End = p.curToken
		out = append(out, v)
	}
	return out
}

// splitTrailingLength splits a concatenated sized-type literal like
// "Code20" into its name and length. Types with no trailing digit run
// (Decimal, Boolean, BigInteger, ...) are returned unchanged with length 0.
func splitTrailingLength(lit string) (string, int) {
	i := len(lit)
	for i > 0 && lit[i-1] >= '0' && lit[i-1] <= '9' {
		i--
	}
	if i == len(lit) || i == 0 {
		return lit, 0
	}
	n, err := strconv.Atoi(lit[i:])
	if err != nil {
		return lit, 0
	}
	return lit[:i], n
}

// parseDataType parses one data type reference. curToken is the type's
// first token on entry.
func (p *Parser) parseDataType() *ast.DataTypeNode {
	dt := &ast.DataTypeNode{}
	dt.Start = p.curToken

	if p.curIs(token.TEMPORARY) {
		dt.IsTemporary = true
		p.nextToken()
	}

	switch p.curToken.Kind {
	case token.RECORD:
		dt.Name = "Record"
		if p.peekIs(token.INT) {
			p.nextToken()
			dt.TableID, _ = strconv.Atoi(p.curToken.Literal)
		} else if p.peekIs(token.QUOTED_IDENT) || p.peekIs(token.IDENT) {
			p.nextToken()
			dt.TableName = p.curToken.Literal
		} else {
			p.addErrorAt(p.peekToken, "expected a table id or name after Record, got %q", p.peekToken.Literal)
		}

	case token.ARRAY:
		dt.Name = "Array"
		if p.expectPeek(token.LBRACKET) {
			if p.expectPeek(token.INT) {
				dt.ArrayLength, _ = strconv.Atoi(p.curToken.Literal)
			}
			p.expectPeek(token.RBRACKET)
		}
		if p.expectPeek(token.OF) {
			p.nextToken()
			dt.ArrayElement = p.parseDataType()
		}

	case token.OPTION:
		dt.Name = "Option"
		if p.peekIs(token.IDENT) || p.peekIs(token.QUOTED_IDENT) || p.peekIs(token.STRING) {
			p.nextToken()
			dt.OptionValues = append(dt.OptionValues, p.curToken.Literal)
			for p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				dt.OptionValues = append(dt.OptionValues, p.curToken.Literal)
			}
		}
		dt.OptionString = strings.Join(dt.OptionValues, ",")

	case token.DOTNET:
		dt.Name = "DotNet"
		if p.expectPeek(token.STRING) {
			dt.DotNetAssembly = p.curToken.Literal
		}
		if p.expectPeek(token.DOT) && p.expectPeek(token.STRING) {
			dt.DotNetTypeName = p.curToken.Literal
		}

	default:
		if strings.EqualFold(p.curToken.Literal, "TextConst") {
			dt.Name = "TextConst"
			if p.expectPeek(token.STRING) {
				dt.ConstantValue = p.curToken.Literal
			}
			break
		}
		// C/AL's export format writes sized types as one concatenated
		// token (Code20, Text50) rather than Name[Length]; split a
		// trailing digit run off the literal so Length is still
		// available to callers. A few sized type names also support the
		// bracketed form (Code[20]), which the peek below still handles.
		name, length := splitTrailingLength(p.curToken.Literal)
		dt.Name = name
		dt.Length = length
		if p.peekIs(token.LBRACKET) {
			p.nextToken()
			if p.expectPeek(token.INT) {
				dt.Length, _ = strconv.Atoi(p.curToken.Literal)
			}
			p.expectPeek(token.RBRACKET)
		}
	}

	dt.End = p.curToken
	return dt
}

// ---------------------------------------------------------------------------
// CODE
// ---------------------------------------------------------------------------

func (p *Parser) parseCodeSection() *ast.CodeSection {
	code := &ast.CodeSection{}
	code.Start = p.curToken

	if !p.expectPeek(token.LBRACE) {
		p.synchronize(token.RBRACE, token.EOF)
		code.End = p.curToken
		return code
	}

	if p.peekIs(token.VAR) {
		p.nextToken()
		code.GlobalVariables = p.parseVariableDeclarations()
	}

	var pendingAttrs []*ast.AttributeNode
	for {
		switch {
		case p.peekIs(token.LBRACKET):
			p.nextToken()
			pendingAttrs = append(pendingAttrs, p.parseAttribute())
		case p.peekIs(token.LOCAL), p.peekIs(token.INTERNAL), p.peekIs(token.PROCEDURE):
			p.nextToken()
			code.Procedures = append(code.Procedures, p.parseProcedureDeclaration(pendingAttrs))
			pendingAttrs = nil
		case p.peekIs(token.TRIGGER), p.peekIs(token.EVENT):
			p.nextToken()
			code.Triggers = append(code.Triggers, p.parseTriggerDeclaration())
		case p.peekIs(token.BEGIN):
			p.nextToken()
			code.OnRun = p.parseBlockStatement()
			if p.peekIs(token.DOT) {
				p.nextToken()
			}
			goto doneBody
		default:
			goto doneBody
		}
	}
doneBody:

	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	code.End = p.curToken
	return code
}

func (p *Parser) parseAttribute() *ast.AttributeNode {
	attr := &ast.AttributeNode{}
	attr.Start = p.curToken

	if p.peekIs(token.IDENT) {
		p.nextToken()
		attr.Name = p.curToken.Literal
	} else {
		p.addErrorAt(p.peekToken, "expected attribute name, got %q", p.peekToken.Literal)
	}

	if p.peekIs(token.LPAREN) {
		p.nextToken()
		var toks []token.Token
		depth := 1
		for depth > 0 && !p.peekIs(token.EOF) {
			p.nextToken()
			switch p.curToken.Kind {
			case token.LPAREN:
				depth++
			case token.RPAREN:
				depth--
				if depth == 0 {
					goto doneArgs
				}
			}
			toks = append(toks, p.curToken)
		}
	doneArgs:
		attr.ArgumentsRaw = joinLiterals(toks)
	}

	if !p.expectPeek(token.RBRACKET) {
		p.synchronize(token.RBRACKET, token.EOF)
	}
	attr.End = p.curToken
	return attr
}

// discardAttributes reports that a malformed procedure declaration can't
// carry the attributes collected ahead of it, since there is no coherent
// ProcedureDeclaration left to attach them to.
func (p *Parser) discardAttributes(proc *ast.ProcedureDeclaration) {
	n := len(proc.Attributes)
	if n == 0 {
		return
	}
	if n == 1 {
		p.addError("1 attribute discarded: procedure declaration is malformed")
	} else {
		p.addError("%d attributes discarded: procedure declaration is malformed", n)
	}
	proc.Attributes = nil
}

func (p *Parser) parseProcedureDeclaration(attrs []*ast.AttributeNode) *ast.ProcedureDeclaration {
	proc := &ast.ProcedureDeclaration{}
	proc.Start = p.curToken
	proc.Attributes = attrs

	if p.curIs(token.LOCAL) {
		proc.Local = true
		if !p.expectPeek(token.PROCEDURE) {
			p.synchronize(token.SEMICOLON, token.EOF)
			proc.End = p.curToken
			p.discardAttributes(proc)
			return proc
		}
	} else if p.curIs(token.INTERNAL) {
		proc.Internal = true
		if !p.expectPeek(token.PROCEDURE) {
			p.synchronize(token.SEMICOLON, token.EOF)
			proc.End = p.curToken
			p.discardAttributes(proc)
			return proc
		}
	}

	if !p.expectPeek(token.IDENT) {
		p.synchronize(token.SEMICOLON, token.EOF)
		proc.End = p.curToken
		p.discardAttributes(proc)
		return proc
	}
	proc.NameToken = p.curToken
	proc.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		p.synchronize(token.SEMICOLON, token.EOF)
		proc.End = p.curToken
		p.discardAttributes(proc)
		return proc
	}
	proc.Parameters = p.parseParameterList()

	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		proc.ReturnType = p.parseDataType()
	}

	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.VAR, token.BEGIN, token.SEMICOLON, token.EOF)
	}

	if p.peekIs(token.VAR) {
		p.nextToken()
		proc.LocalVariables = p.parseVariableDeclarations()
	}

	if !p.expectPeek(token.BEGIN) {
		p.synchronize(token.SEMICOLON, token.EOF)
		proc.End = p.curToken
		p.discardAttributes(proc)
		return proc
	}
	proc.Body = p.parseBlockStatement()

	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.SEMICOLON, token.EOF)
	}
	proc.End = p.curToken
	return proc
}

// parseParameterList parses `(Param : Type; VAR Param2 : Type)`. curToken
// is the opening LPAREN on entry and the closing RPAREN on return.
func (p *Parser) parseParameterList() []*ast.ParameterDeclaration {
	var params []*ast.ParameterDeclaration
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params
	}
	for {
		p.nextToken()
		param := &ast.ParameterDeclaration{}
		param.Start = p.curToken

		if p.curIs(token.VAR) {
			param.ByRef = true
			p.nextToken()
		}
		param.Name = p.curToken.Literal

		if !p.expectPeek(token.COLON) {
			p.synchronize(token.COMMA, token.SEMICOLON, token.RPAREN, token.EOF)
		} else {
			p.nextToken()
			param.DataType = p.parseDataType()
			param.Temporary = param.DataType != nil && param.DataType.IsTemporary
		}
		param.End = p.curToken
		params = append(params, param)

		if p.peekIs(token.COMMA) || p.peekIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		break
	}
	if !p.expectPeek(token.RPAREN) {
		p.synchronize(token.EOF)
	}
	return params
}

func (p *Parser) parseTriggerDeclaration() *ast.TriggerDeclaration {
	t := &ast.TriggerDeclaration{}
	t.Start = p.curToken

	if !p.expectPeek(token.IDENT) {
		p.synchronize(token.SEMICOLON, token.EOF)
		t.End = p.curToken
		return t
	}
	t.Name = p.curToken.Literal

	if !p.expectPeek(token.LPAREN) {
		p.synchronize(token.SEMICOLON, token.EOF)
		t.End = p.curToken
		return t
	}
	for !p.peekIs(token.RPAREN) && !p.peekIs(token.EOF) {
		p.nextToken()
	}
	if !p.expectPeek(token.RPAREN) {
		p.synchronize(token.SEMICOLON, token.EOF)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.VAR, token.BEGIN, token.SEMICOLON, token.EOF)
	}

	if p.peekIs(token.VAR) {
		p.nextToken()
		t.LocalVariables = p.parseVariableDeclarations()
	}

	if !p.expectPeek(token.BEGIN) {
		p.synchronize(token.SEMICOLON, token.EOF)
		t.End = p.curToken
		return t
	}
	t.Body = p.parseBlockStatement()

	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.SEMICOLON, token.EOF)
	}
	t.End = p.curToken
	return t
}

// ---------------------------------------------------------------------------
// CONTROLS / ACTIONS / ELEMENTS / DATASET
// ---------------------------------------------------------------------------

func classifyControlType(raw string) ast.ControlKind {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "CONTAINER":
		return ast.ContainerControl
	case "GROUP":
		return ast.GroupControl
	case "FIELD":
		return ast.FieldControl
	case "PART":
		return ast.PartControl
	case "SEPARATOR":
		return ast.SeparatorControl
	default:
		return ast.UnknownControl
	}
}

func classifyActionType(raw string) ast.ActionKind {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "ACTIONCONTAINER":
		return ast.ActionContainerKind
	case "ACTIONGROUP":
		return ast.ActionGroupKind
	case "ACTION":
		return ast.ActionLeafKind
	case "SEPARATOR":
		return ast.ActionSeparatorKind
	default:
		return ast.UnknownAction
	}
}

func (p *Parser) parseControlsSection() []*ast.ControlDeclaration {
	if !p.expectPeek(token.LBRACE) {
		p.synchronize(token.RBRACE, token.EOF)
		return nil
	}
	var rows []*ast.ControlDeclaration
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		rows = append(rows, p.parseControlRow())
	}
	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	return nestControls(rows)
}

func (p *Parser) parseControlRow() *ast.ControlDeclaration {
	c := &ast.ControlDeclaration{}
	c.Start = p.curToken

	if p.expectPeek(token.INT) {
		c.ID, _ = strconv.Atoi(p.curToken.Literal)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		c.End = p.curToken
		return c
	}
	if p.expectPeek(token.INT) {
		c.Indent, _ = strconv.Atoi(p.curToken.Literal)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		c.End = p.curToken
		return c
	}

	var typeToks []token.Token
	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		typeToks = append(typeToks, p.curToken)
	}
	c.RawControlType = joinLiterals(typeToks)
	c.Kind = classifyControlType(c.RawControlType)

	c.Properties = p.parsePropertyList()
	c.Triggers = triggersFromProperties(c.Properties)

	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	c.End = p.curToken
	return c
}

func nestControls(rows []*ast.ControlDeclaration) []*ast.ControlDeclaration {
	var roots []*ast.ControlDeclaration
	var stack []*ast.ControlDeclaration
	for _, r := range rows {
		for len(stack) > 0 && stack[len(stack)-1].Indent >= r.Indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, r)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, r)
		}
		stack = append(stack, r)
	}
	return roots
}

func (p *Parser) parseActionsSection() []*ast.ActionDeclaration {
	if !p.expectPeek(token.LBRACE) {
		p.synchronize(token.RBRACE, token.EOF)
		return nil
	}
	var rows []*ast.ActionDeclaration
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		rows = append(rows, p.parseActionRow())
	}
	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	return nestActions(rows)
}

func (p *Parser) parseActionRow() *ast.ActionDeclaration {
	a := &ast.ActionDeclaration{}
	a.Start = p.curToken

	if p.expectPeek(token.INT) {
		a.ID, _ = strconv.Atoi(p.curToken.Literal)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		a.End = p.curToken
		return a
	}
	if p.expectPeek(token.INT) {
		a.Indent, _ = strconv.Atoi(p.curToken.Literal)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		a.End = p.curToken
		return a
	}

	var typeToks []token.Token
	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		typeToks = append(typeToks, p.curToken)
	}
	a.RawActionType = joinLiterals(typeToks)
	a.Kind = classifyActionType(a.RawActionType)

	a.Properties = p.parsePropertyList()
	a.Triggers = triggersFromProperties(a.Properties)

	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	a.End = p.curToken
	return a
}

func nestActions(rows []*ast.ActionDeclaration) []*ast.ActionDeclaration {
	var roots []*ast.ActionDeclaration
	var stack []*ast.ActionDeclaration
	for _, r := range rows {
		for len(stack) > 0 && stack[len(stack)-1].Indent >= r.Indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, r)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, r)
		}
		stack = append(stack, r)
	}
	return roots
}

// parseElementsSection parses either an XMLport's ELEMENTS section or a
// Query's DATASET section -- both share the same indent/ID/name/properties
// row shape. curToken is the section keyword (ELEMENTS or DATASET) on
// entry.
func (p *Parser) parseElementsSection() []*ast.ElementDeclaration {
	if !p.expectPeek(token.LBRACE) {
		p.synchronize(token.RBRACE, token.EOF)
		return nil
	}
	var rows []*ast.ElementDeclaration
	for !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		rows = append(rows, p.parseElementRow())
	}
	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	return nestElements(rows)
}

func (p *Parser) parseElementRow() *ast.ElementDeclaration {
	e := &ast.ElementDeclaration{}
	e.Start = p.curToken

	if p.expectPeek(token.INT) {
		e.ID, _ = strconv.Atoi(p.curToken.Literal)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		e.End = p.curToken
		return e
	}
	if p.expectPeek(token.INT) {
		e.Indent, _ = strconv.Atoi(p.curToken.Literal)
	}
	if !p.expectPeek(token.SEMICOLON) {
		p.synchronize(token.RBRACE, token.EOF)
		e.End = p.curToken
		return e
	}

	var nameToks []token.Token
	for !p.peekIs(token.SEMICOLON) && !p.peekIs(token.RBRACE) && !p.peekIs(token.EOF) {
		p.nextToken()
		nameToks = append(nameToks, p.curToken)
	}
	e.Name = joinLiterals(nameToks)

	e.Properties = p.parsePropertyList()
	e.Triggers = triggersFromProperties(e.Properties)

	if !p.expectPeek(token.RBRACE) {
		p.synchronize(token.EOF)
	}
	e.End = p.curToken
	return e
}

func nestElements(rows []*ast.ElementDeclaration) []*ast.ElementDeclaration {
	var roots []*ast.ElementDeclaration
	var stack []*ast.ElementDeclaration
	for _, r := range rows {
		for len(stack) > 0 && stack[len(stack)-1].Indent >= r.Indent {
			stack = stack[:len(stack)-1]
		}
		if len(stack) == 0 {
			roots = append(roots, r)
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, r)
		}
		stack = append(stack, r)
	}
	return roots
}
