package reconcile

// State is the externally visible phase of the engine. A pass moves
// StateIdle -> StateScanning -> StateDiffing -> one of the applying
// states (picked by which side of the diff is non-empty) and back to
// StateIdle; the fast path returns to idle straight from scanning.
type State int32

const (
	StateIdle State = iota
	StateScanning
	StateDiffing
	StateApplyingAdditions
	StateApplyingRemovals
	StateApplyingBoth
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateScanning:
		return "scanning"
	case StateDiffing:
		return "diffing"
	case StateApplyingAdditions:
		return "applying_additions"
	case StateApplyingRemovals:
		return "applying_removals"
	case StateApplyingBoth:
		return "applying_both"
	default:
		return "unknown"
	}
}

// applyState maps the diff outcome to the matching applying state.
// An empty diff stays in StateDiffing until the pass winds down.
func applyState(additions, removals int) State {
	switch {
	case additions > 0 && removals > 0:
		return StateApplyingBoth
	case additions > 0:
		return StateApplyingAdditions
	case removals > 0:
		return StateApplyingRemovals
	default:
		return StateDiffing
	}
}
