package models

// ReviewDecision is the overall review verdict on a pull request
type ReviewDecision int

const (
	ReviewUnknown ReviewDecision = iota
	ReviewRequired
	ReviewChangesRequested
	ReviewApproved
	// ReviewNone is used when the API returns null (no review policy applies)
	ReviewNone
)

// ParseReviewDecision maps the GraphQL reviewDecision value. An empty string
// stands for null.
func ParseReviewDecision(raw string) ReviewDecision {
	switch raw {
	case "":
		return ReviewNone
	case "REVIEW_REQUIRED":
		return ReviewRequired
	case "CHANGES_REQUESTED":
		return ReviewChangesRequested
	case "APPROVED":
		return ReviewApproved
	default:
		return ReviewUnknown
	}
}

func (d ReviewDecision) String() string {
	switch d {
	case ReviewRequired:
		return "REVIEW_REQUIRED"
	case ReviewChangesRequested:
		return "CHANGES_REQUESTED"
	case ReviewApproved:
		return "APPROVED"
	case ReviewNone:
		return "NO_REVIEW"
	default:
		return "UNKNOWN"
	}
}

func (d ReviewDecision) Symbol() string {
	switch d {
	case ReviewRequired:
		return "⚠️"
	case ReviewChangesRequested:
		return "🛑"
	case ReviewApproved:
		return "✅"
	case ReviewNone:
		return "⛔️"
	default:
		return "?"
	}
}
