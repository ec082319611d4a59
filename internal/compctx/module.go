package compctx

import (
	"github.com/pkg/errors"

	"typeengine/internal/frontend/ast"
	"typeengine/internal/phase"
	"typeengine/internal/semantics/narrowing"
	"typeengine/internal/semantics/resolver"
	"typeengine/internal/semantics/symbols"
	"typeengine/internal/semantics/table"
	"typeengine/internal/types"
)

// FunctionContext describes the function whose body is being checked
type FunctionContext struct {
	Name     string
	Declared types.SemType   // annotated result, nil when the result is inferred
	Returns  []types.SemType // types of the return statements seen so far
	IsAsync  bool
	Static   bool // no this inside
}

// BreakableKind distinguishes the constructs break and continue bind to
type BreakableKind int

const (
	BreakableLoop BreakableKind = iota
	BreakableSwitch
)

// Module is one source unit under analysis
type Module struct {
	FilePath string
	AST      *ast.Module
	Phase    phase.ModulePhase

	Table     *table.Table
	Resolver  *resolver.Resolver
	Narrowing *narrowing.Stack

	// Per-body state, saved and restored around nested declarations
	CurrentFunction *FunctionContext
	CurrentClass    string
	breakables      []BreakableKind

	// Type of every checked expression
	ExprTypes map[ast.Expression]types.SemType

	// declarations whose result type is being inferred right now
	inferring map[ast.Node]bool
	// declarations whose body has been fully checked
	checked map[ast.Node]bool
}

// bindingOf keys narrowings by the symbol a name resolves to
func bindingOf(tbl *table.Table) narrowing.Binder {
	return func(name string) any {
		if sym, ok := tbl.Lookup(name); ok {
			return sym
		}
		return nil
	}
}

// NewModule creates the analysis state for a parsed module
func NewModule(filePath string, tree *ast.Module) *Module {
	tbl := table.New()
	return &Module{
		FilePath:  filePath,
		AST:       tree,
		Phase:     phase.PhaseNotStarted,
		Table:     tbl,
		Resolver:  resolver.New(tbl, filePath),
		Narrowing: narrowing.NewScopedStack(bindingOf(tbl)),
		ExprTypes: make(map[ast.Expression]types.SemType),
		inferring: make(map[ast.Node]bool),
		checked:   make(map[ast.Node]bool),
	}
}

// AdvancePhase moves the module to target if its prerequisite phase is met
func (m *Module) AdvancePhase(target phase.ModulePhase) bool {
	if !phase.CanAdvance(m.Phase, target) {
		return false
	}
	m.Phase = target
	return true
}

// EnterScope pushes a lexical scope. Use as: defer mod.EnterScope()()
func (m *Module) EnterScope() func() {
	return m.Table.EnterScope()
}

// EnterFunction makes fn the current function and clears the breakable
// stack until the returned func restores the enclosing state
func (m *Module) EnterFunction(fn *FunctionContext) func() {
	savedFn, savedBreakables := m.CurrentFunction, m.breakables
	m.CurrentFunction, m.breakables = fn, nil
	return func() {
		m.CurrentFunction, m.breakables = savedFn, savedBreakables
	}
}

// EnterClass makes name the current class until the returned func runs
func (m *Module) EnterClass(name string) func() {
	saved := m.CurrentClass
	m.CurrentClass = name
	return func() {
		m.CurrentClass = saved
	}
}

// EnterBreakable pushes a loop or switch. Use as: defer mod.EnterBreakable(kind)()
func (m *Module) EnterBreakable(kind BreakableKind) func() {
	m.breakables = append(m.breakables, kind)
	return func() {
		m.breakables = m.breakables[:len(m.breakables)-1]
	}
}

// InnermostBreakable returns the closest enclosing loop or switch
func (m *Module) InnermostBreakable() (BreakableKind, bool) {
	if len(m.breakables) == 0 {
		return 0, false
	}
	return m.breakables[len(m.breakables)-1], true
}

// InAsync reports whether await is allowed at this point. Top-level code
// outside any function may await.
func (m *Module) InAsync() bool {
	return m.CurrentFunction == nil || m.CurrentFunction.IsAsync
}

// Detach switches to module-level state (global scope, no narrowing, no
// current function or class) so a declaration can be checked on demand
// from anywhere. The returned func restores the caller's state.
func (m *Module) Detach() func() {
	restoreTable := m.Table.Detach()
	restoreNarrowing := m.Narrowing.Detach()
	savedFn, savedClass, savedBreakables := m.CurrentFunction, m.CurrentClass, m.breakables
	m.CurrentFunction, m.CurrentClass, m.breakables = nil, "", nil
	return func() {
		m.CurrentFunction, m.CurrentClass, m.breakables = savedFn, savedClass, savedBreakables
		restoreNarrowing()
		restoreTable()
	}
}

// BeginInference marks decl as being inferred. It returns false when decl
// is already in progress (a recursive reference).
func (m *Module) BeginInference(decl ast.Node) bool {
	if m.inferring[decl] {
		return false
	}
	m.inferring[decl] = true
	return true
}

func (m *Module) EndInference(decl ast.Node) {
	delete(m.inferring, decl)
}

// MarkChecked records that decl's body has been checked
func (m *Module) MarkChecked(decl ast.Node) {
	m.checked[decl] = true
}

func (m *Module) IsChecked(decl ast.Node) bool {
	return m.checked[decl]
}

// Record stores the type of a checked expression
func (m *Module) Record(expr ast.Expression, t types.SemType) {
	m.ExprTypes[expr] = t
}

// ExprType returns the recorded type of expr
func (m *Module) ExprType(expr ast.Expression) (types.SemType, bool) {
	t, ok := m.ExprTypes[expr]
	return t, ok
}

// TypeOf returns the type of a variable, preferring a narrowed type over
// the declared one
func (m *Module) TypeOf(name string) (types.SemType, bool) {
	if t, ok := m.Narrowing.Lookup(name); ok {
		return t, true
	}
	sym, ok := m.Table.Lookup(name)
	if !ok || sym.Kind.IsType() {
		return nil, false
	}
	return sym.Type, true
}

// UpdateSymbolType back-patches sym through the symbol table. sym must be
// the binding its name resolves to here.
func (m *Module) UpdateSymbolType(sym *symbols.Symbol, t types.SemType) error {
	if visible, ok := m.Table.Lookup(sym.Name); ok && visible != sym {
		return errors.Errorf("cannot update type of '%s': the name is shadowed here", sym.Name)
	}
	return m.Table.UpdateSymbolType(sym.Name, t)
}

// ClassNamed returns the current definition of a class
func (m *Module) ClassNamed(name string) (*types.ClassType, bool) {
	sym, ok := m.Table.Lookup(name)
	if !ok || sym.Kind != symbols.SymbolClass {
		return nil, false
	}
	class, ok := sym.Type.(*types.ClassType)
	return class, ok
}
