package batch

// Action is a user-triggered remote action with its own ready/loading state
type Action int

const (
	ActionSearch Action = iota
	ActionApprove
	ActionMerge
	actionCount
)

func (a Action) String() string {
	switch a {
	case ActionApprove:
		return "approve"
	case ActionMerge:
		return "merge"
	default:
		return "search"
	}
}

// ActionFor returns the action that submits a batch of the given kind
func ActionFor(kind Kind) Action {
	if kind == Merge {
		return ActionMerge
	}
	return ActionApprove
}

// State is the ready/loading state of one action
type State int

const (
	Ready State = iota
	Loading
)

// Tracker holds the ready -> loading -> ready state machine for each action.
// Only one action may be in flight at a time; the zero value is all ready.
type Tracker struct {
	states [actionCount]State
}

// Begin moves the action to loading. It returns false, and changes nothing,
// while any action is still loading.
func (t *Tracker) Begin(a Action) bool {
	if t.Busy() {
		return false
	}
	t.states[a] = Loading
	return true
}

// Finish returns the action to ready, whatever the outcome was
func (t *Tracker) Finish(a Action) {
	t.states[a] = Ready
}

// State returns the current state of the action
func (t Tracker) State(a Action) State {
	return t.states[a]
}

// Busy reports whether any action is loading
func (t Tracker) Busy() bool {
	for _, s := range t.states {
		if s == Loading {
			return true
		}
	}
	return false
}
