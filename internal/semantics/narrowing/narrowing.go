package narrowing

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"typeengine/internal/types"
)

// Narrowings maps a variable name to its refined type inside one branch.
type Narrowings map[string]types.SemType

// Names returns the narrowed variable names in sorted order
func (n Narrowings) Names() []string {
	names := maps.Keys(n)
	slices.Sort(names)
	return names
}

// merge returns a fresh map holding a's entries overlaid with b's
func merge(a, b Narrowings) Narrowings {
	out := make(Narrowings, len(a)+len(b))
	for name, t := range a {
		out[name] = t
	}
	for name, t := range b {
		out[name] = t
	}
	return out
}

// Binder names the binding a variable name resolves to at this point, or
// nil when it resolves to nothing. Any comparable value will do.
type Binder func(name string) any

// refinement is one narrowed type and the binding it refines
type refinement struct {
	typ     types.SemType
	binding any
}

// Stack is the narrowing-scope stack. Each branch body pushes one frame and
// pops it on exit; the narrowed types shadow the declared ones without
// touching the symbol table. A refinement only applies while the name still
// resolves to the binding it was pushed for, so a nested declaration of the
// same name hides it.
type Stack struct {
	frames []map[string]refinement
	bind   Binder
}

// NewStack creates a stack that treats every name as one binding
func NewStack() *Stack {
	return &Stack{}
}

// NewScopedStack creates a stack whose refinements follow bind
func NewScopedStack(bind Binder) *Stack {
	return &Stack{bind: bind}
}

func (s *Stack) binding(name string) any {
	if s.bind == nil {
		return nil
	}
	return s.bind(name)
}

// Push adds a frame and returns the matching Pop.
// Use as: defer stack.Push(thenMap)()
func (s *Stack) Push(n Narrowings) func() {
	frame := make(map[string]refinement, len(n))
	for name, t := range n {
		frame[name] = refinement{typ: t, binding: s.binding(name)}
	}
	s.frames = append(s.frames, frame)
	depth := len(s.frames)
	return func() {
		if len(s.frames) != depth {
			panic("narrowing: unbalanced push/pop")
		}
		s.Pop()
	}
}

// Pop discards the innermost frame
func (s *Stack) Pop() {
	if len(s.frames) == 0 {
		panic("narrowing: pop on empty stack")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// Lookup walks the frames innermost-first, skipping refinements of a
// binding the name no longer resolves to
func (s *Stack) Lookup(name string) (types.SemType, bool) {
	current := s.binding(name)
	for i := len(s.frames) - 1; i >= 0; i-- {
		if r, ok := s.frames[i][name]; ok && r.binding == current {
			return r.typ, true
		}
	}
	return nil, false
}

// Forget resets every live refinement of name to its declared type. Used
// after an assignment invalidates a refinement; the reset survives the
// pop of any inner frame.
func (s *Stack) Forget(name string, declared types.SemType) {
	current := s.binding(name)
	for _, frame := range s.frames {
		if r, ok := frame[name]; ok && r.binding == current {
			frame[name] = refinement{typ: declared, binding: current}
		}
	}
}

func (s *Stack) Depth() int {
	return len(s.frames)
}

// Detach hides every frame until the returned func restores them
func (s *Stack) Detach() func() {
	saved := s.frames
	s.frames = nil
	return func() {
		s.frames = saved
	}
}
