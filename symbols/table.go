package symbols

import (
	"fmt"

	"github.com/klauskaan/cal-language-core/ast"
)

// Table is the entry point for symbol queries over one parsed object: a
// root Scope spanning the whole object, with a child Scope for every
// procedure body and every trigger body (object-level or property-owned).
type Table struct {
	Root *Scope
}

// BuildFromAST walks doc once, the way the teacher's Inspector.collect
// walks a Program once, populating a Scope tree instead of a flat node
// slice -- C/AL needs the tree because procedure and trigger bodies
// introduce genuinely nested scopes for their parameters and locals.
func BuildFromAST(doc *ast.Document) *Table {
	if doc == nil || doc.Object == nil {
		return &Table{Root: NewScope("object", 0, 0, nil)}
	}
	obj := doc.Object
	root := NewScope(fmt.Sprintf("object %s", obj.Name), obj.StartToken().Start, obj.EndToken().End, nil)

	for _, f := range obj.Fields {
		root.Declare(&Symbol{
			Name:       f.Name,
			NormalName: normalize(f.Name),
			Kind:       FieldSymbol,
			Token:      f.NumberToken,
			DataType:   dataTypeString(f.DataType),
		})
	}

	if obj.Code != nil {
		for _, v := range obj.Code.GlobalVariables {
			declareVariable(root, v, GlobalVariableSymbol)
		}
		for _, proc := range obj.Code.Procedures {
			root.Declare(&Symbol{
				Name:       proc.Name,
				NormalName: normalize(proc.Name),
				Kind:       ProcedureSymbol,
				Token:      proc.NameToken,
			})
			root.AddChild(buildProcedureScope(proc))
		}
		for _, trig := range obj.Code.Triggers {
			root.AddChild(buildTriggerScope(trig, scopeLabel(trig)))
		}
	}

	collectControlTriggerScopes(root, obj.Controls)
	collectActionTriggerScopes(root, obj.Actions)
	collectElementTriggerScopes(root, obj.Elements)
	collectElementTriggerScopes(root, obj.DataSet)
	collectFieldPropertyTriggerScopes(root, obj.Fields)
	collectPropertyTriggerScopes(root, obj.Properties, "object property")

	return &Table{Root: root}
}

func scopeLabel(t *ast.TriggerDeclaration) string {
	if t.PropertyOwner != nil {
		return fmt.Sprintf("%s trigger (from property %s)", t.Name, t.PropertyOwner.Name)
	}
	return fmt.Sprintf("trigger %s", t.Name)
}

func buildProcedureScope(proc *ast.ProcedureDeclaration) *Scope {
	start, end := proc.StartToken().Start, proc.EndToken().End
	if proc.Body != nil {
		end = proc.Body.EndToken().End
	}
	scope := NewScope(fmt.Sprintf("procedure %s", proc.Name), start, end, nil)
	for _, p := range proc.Parameters {
		scope.Declare(&Symbol{
			Name:       p.Name,
			NormalName: normalize(p.Name),
			Kind:       ParameterSymbol,
			DataType:   dataTypeString(p.DataType),
		})
	}
	for _, v := range proc.LocalVariables {
		declareVariable(scope, v, LocalVariableSymbol)
	}
	return scope
}

func buildTriggerScope(trig *ast.TriggerDeclaration, label string) *Scope {
	start, end := trig.StartToken().Start, trig.EndToken().End
	if trig.Body != nil {
		end = trig.Body.EndToken().End
	}
	scope := NewScope(label, start, end, nil)
	for _, v := range trig.LocalVariables {
		declareVariable(scope, v, LocalVariableSymbol)
	}
	return scope
}

func declareVariable(scope *Scope, v *ast.VariableDeclaration, kind SymbolKind) {
	scope.Declare(&Symbol{
		Name:       v.Name,
		NormalName: normalize(v.Name),
		Kind:       kind,
		Token:      v.NameToken,
		DataType:   dataTypeString(v.DataType),
	})
}

func dataTypeString(dt *ast.DataTypeNode) string {
	if dt == nil {
		return ""
	}
	return dt.String()
}

func collectPropertyTriggerScopes(root *Scope, props []*ast.Property, context string) {
	for _, p := range props {
		if p.TriggerBody == nil {
			continue
		}
		label := fmt.Sprintf("%s trigger %s (%s)", p.Name, p.Name, context)
		scope := NewScope(label, p.TriggerBody.StartToken().Start, p.TriggerBody.EndToken().End, nil)
		for _, v := range p.TriggerVariables {
			declareVariable(scope, v, LocalVariableSymbol)
		}
		root.AddChild(scope)
	}
}

func collectFieldPropertyTriggerScopes(root *Scope, fields []*ast.FieldDeclaration) {
	for _, f := range fields {
		collectPropertyTriggerScopes(root, f.Properties, fmt.Sprintf("field %d", f.Number))
	}
}

func collectControlTriggerScopes(root *Scope, controls []*ast.ControlDeclaration) {
	for _, c := range controls {
		for _, t := range c.Triggers {
			root.AddChild(buildTriggerScope(t, fmt.Sprintf("%s trigger (control %d)", t.Name, c.ID)))
		}
		collectPropertyTriggerScopes(root, c.Properties, fmt.Sprintf("control %d", c.ID))
		collectControlTriggerScopes(root, c.Children)
	}
}

func collectActionTriggerScopes(root *Scope, actions []*ast.ActionDeclaration) {
	for _, a := range actions {
		for _, t := range a.Triggers {
			root.AddChild(buildTriggerScope(t, fmt.Sprintf("%s trigger (action %d)", t.Name, a.ID)))
		}
		collectPropertyTriggerScopes(root, a.Properties, fmt.Sprintf("action %d", a.ID))
		collectActionTriggerScopes(root, a.Children)
	}
}

func collectElementTriggerScopes(root *Scope, elements []*ast.ElementDeclaration) {
	for _, e := range elements {
		for _, t := range e.Triggers {
			root.AddChild(buildTriggerScope(t, fmt.Sprintf("%s trigger (element %d)", t.Name, e.ID)))
		}
		collectPropertyTriggerScopes(root, e.Properties, fmt.Sprintf("element %d", e.ID))
		collectElementTriggerScopes(root, e.Children)
	}
}

// HasSymbol reports whether name is declared at the table's top level
// (object fields, global variables, procedure names).
func (t *Table) HasSymbol(name string) bool {
	return t.Root.HasSymbol(name)
}

// GetSymbol resolves name at the table's top level.
func (t *Table) GetSymbol(name string) (*Symbol, bool) {
	return t.Root.GetSymbol(name)
}

// GetAllSymbols returns every top-level symbol (fields, global variables,
// procedure names) in declaration order.
func (t *Table) GetAllSymbols() []*Symbol {
	return t.Root.GetAllSymbols()
}

// GetSymbolAtOffset resolves name from the innermost scope containing
// offset, falling back through parent scopes -- the position-aware lookup
// a hover/rename/go-to-definition feature needs.
func (t *Table) GetSymbolAtOffset(offset int, name string) (*Symbol, bool) {
	scope := t.Root.ScopeAtOffset(offset)
	if scope == nil {
		scope = t.Root
	}
	return scope.GetSymbol(name)
}

// ScopeAtOffset exposes the innermost Scope containing offset, for callers
// that want more than a single symbol lookup (e.g. listing everything
// visible for completion).
func (t *Table) ScopeAtOffset(offset int) *Scope {
	if scope := t.Root.ScopeAtOffset(offset); scope != nil {
		return scope
	}
	return t.Root
}
