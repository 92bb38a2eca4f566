package models

// PageSize is the number of results requested per search page
const PageSize = 100

// Query is a pull request search plus its pagination cursor
type Query struct {
	// Text is the user's search text, passed through unmodified
	Text string
	// After requests the page following this cursor
	After string
	// Before requests the page preceding this cursor (wins over After)
	Before string
}

// SearchExpression returns the search string sent to the API
func (q Query) SearchExpression() string {
	return "is:pr " + q.Text
}

// WithText returns a first-page query for new search text
func (q Query) WithText(text string) Query {
	return Query{Text: text}
}

// PageInfo carries the pagination metadata of a search page
type PageInfo struct {
	HasNextPage     bool   `json:"hasNextPage"`
	HasPreviousPage bool   `json:"hasPreviousPage"`
	StartCursor     string `json:"startCursor"`
	EndCursor       string `json:"endCursor"`
}

// Page is one page of search results
type Page struct {
	Query    Query
	Items    []PullRequest
	PageInfo PageInfo
}

// Find returns the item with the given ID
func (p *Page) Find(id string) (PullRequest, bool) {
	if p == nil {
		return PullRequest{}, false
	}
	for _, item := range p.Items {
		if item.ID == id {
			return item, true
		}
	}
	return PullRequest{}, false
}

// NextQuery returns the query for the following page, or false if there is none
func (p *Page) NextQuery() (Query, bool) {
	if p == nil || !p.PageInfo.HasNextPage {
		return Query{}, false
	}
	cursor := p.PageInfo.EndCursor
	if n := len(p.Items); n > 0 && p.Items[n-1].Cursor != "" {
		cursor = p.Items[n-1].Cursor
	}
	if cursor == "" {
		return Query{}, false
	}
	return Query{Text: p.Query.Text, After: cursor}, true
}

// PrevQuery returns the query for the preceding page, or false if there is none
func (p *Page) PrevQuery() (Query, bool) {
	if p == nil || !p.PageInfo.HasPreviousPage {
		return Query{}, false
	}
	cursor := p.PageInfo.StartCursor
	if len(p.Items) > 0 && p.Items[0].Cursor != "" {
		cursor = p.Items[0].Cursor
	}
	if cursor == "" {
		return Query{}, false
	}
	return Query{Text: p.Query.Text, Before: cursor}, true
}
