package models

// PRState is the lifecycle state of a pull request
type PRState int

const (
	// PRStateUnknown is any state the API reports that we don't map
	PRStateUnknown PRState = iota
	// PRStateOpen is an open pull request, the only state that can be selected
	PRStateOpen
	// PRStateMerged is a merged pull request
	PRStateMerged
	// PRStateClosed is a pull request closed without merging
	PRStateClosed
)

// ParsePRState maps the GraphQL PullRequestState value to a PRState
func ParsePRState(raw string) PRState {
	switch raw {
	case "OPEN":
		return PRStateOpen
	case "MERGED":
		return PRStateMerged
	case "CLOSED":
		return PRStateClosed
	default:
		return PRStateUnknown
	}
}

// String returns the GraphQL name of the state
func (s PRState) String() string {
	switch s {
	case PRStateOpen:
		return "OPEN"
	case PRStateMerged:
		return "MERGED"
	case PRStateClosed:
		return "CLOSED"
	default:
		return "UNKNOWN"
	}
}

// Symbol returns the one-cell indicator shown in the state column
func (s PRState) Symbol() string {
	switch s {
	case PRStateOpen:
		return "O"
	case PRStateMerged:
		return "M"
	case PRStateClosed:
		return "C"
	default:
		return "?"
	}
}
