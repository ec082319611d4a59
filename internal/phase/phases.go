package phase

// ModulePhase tracks how far semantic analysis of one module has progressed
//
// Phase progression is sequential:
// - NotStarted -> Collected (declarations registered, first pass)
// - Collected -> TypeChecked (bodies and statements checked, second pass)
//
// Transitions are validated with CanAdvance, which consults the
// PhasePrerequisites map.
type ModulePhase int

const (
	PhaseNotStarted  ModulePhase = iota // Module handed over but not processed
	PhaseCollected                      // Declarations registered (first pass)
	PhaseTypeChecked                    // Type checking complete (second pass)
)

// PhasePrerequisites maps each phase to its required predecessor phase
var PhasePrerequisites = map[ModulePhase]ModulePhase{
	PhaseCollected:   PhaseNotStarted,
	PhaseTypeChecked: PhaseCollected,
}

// CanAdvance reports whether a module at current may move to target
func CanAdvance(current, target ModulePhase) bool {
	prerequisite, ok := PhasePrerequisites[target]
	if !ok {
		return false
	}
	return current == prerequisite
}

func (p ModulePhase) String() string {
	switch p {
	case PhaseNotStarted:
		return "NotStarted"
	case PhaseCollected:
		return "Collected"
	case PhaseTypeChecked:
		return "TypeChecked"
	default:
		return "Unknown"
	}
}
