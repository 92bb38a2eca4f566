package models

import "strings"

// Label is a repository label attached to a pull request
type Label struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	// Color is the hex color without a leading '#', as the API returns it
	Color string `json:"color"`
}

// PullRequest is one search result row
type PullRequest struct {
	// ID is the GraphQL node ID, used as the mutation target
	ID             string
	Title          string
	URL            string
	State          PRState
	ReviewDecision ReviewDecision
	Labels         []Label
	// HeadCheck is the rollup of the last commit on the head branch
	HeadCheck CheckState
	// MergeCheck is the rollup of the merge commit (NotAvailable until merged)
	MergeCheck CheckState
	// Cursor is the search edge cursor for this row
	Cursor string
}

// ShortURL strips the github.com prefix (e.g., "org/repo/pull/12")
func (p PullRequest) ShortURL() string {
	return strings.TrimPrefix(p.URL, "https://github.com/")
}
