package models

// CheckState is the status check rollup of a commit
type CheckState int

const (
	CheckUnknown CheckState = iota
	CheckError
	CheckExpected
	CheckFailure
	CheckPending
	CheckSuccess
	// CheckNotAvailable means the commit has no rollup (or there is no commit)
	CheckNotAvailable
)

// ParseCheckState maps the GraphQL StatusState value. An empty string means
// the rollup was null.
func ParseCheckState(raw string) CheckState {
	switch raw {
	case "":
		return CheckNotAvailable
	case "ERROR":
		return CheckError
	case "EXPECTED":
		return CheckExpected
	case "FAILURE":
		return CheckFailure
	case "PENDING":
		return CheckPending
	case "SUCCESS":
		return CheckSuccess
	default:
		return CheckUnknown
	}
}

func (c CheckState) String() string {
	switch c {
	case CheckError:
		return "ERROR"
	case CheckExpected:
		return "EXPECTED"
	case CheckFailure:
		return "FAILURE"
	case CheckPending:
		return "PENDING"
	case CheckSuccess:
		return "SUCCESS"
	case CheckNotAvailable:
		return "N/A"
	default:
		return "UNKNOWN"
	}
}

func (c CheckState) Symbol() string {
	switch c {
	case CheckError, CheckFailure:
		return "❌"
	case CheckExpected, CheckNotAvailable:
		return "?"
	case CheckPending:
		return "⏱"
	case CheckSuccess:
		return "✅"
	default:
		return "?"
	}
}
