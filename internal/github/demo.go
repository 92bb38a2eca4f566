package github

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wahlandcase/prdash/internal/batch"
	"github.com/wahlandcase/prdash/internal/models"
)

// Demo is an in-memory Remote used by --dry-run and tests. Approvals set the
// review decision, merges flip the state, and any target whose id contains
// "fail" is rejected with a per-operation error.
type Demo struct {
	// Latency is slept before every call so loading states are visible
	Latency time.Duration
	// Login is returned by Viewer
	Login string

	mu          sync.Mutex
	items       []models.PullRequest
	searchCalls int
	mutateCalls int
	searchErr   error
	mutateErr   error
}

// NewDemo creates a demo remote holding items
func NewDemo(items []models.PullRequest) *Demo {
	return &Demo{
		Login: "octocat",
		items: append([]models.PullRequest(nil), items...),
	}
}

// FailSearch makes every following Search return err (nil restores results)
func (d *Demo) FailSearch(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.searchErr = err
}

// FailMutate makes every following Mutate fail with a transport error
// wrapping err (nil restores results)
func (d *Demo) FailMutate(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.mutateErr = err
}

func (d *Demo) wait(ctx context.Context) error {
	if d.Latency <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d.Latency):
		return nil
	}
}

func (d *Demo) Viewer(ctx context.Context) (string, error) {
	if err := d.wait(ctx); err != nil {
		return "", err
	}
	return d.Login, nil
}

// Search matches every whitespace-separated term of the query text that is
// not a qualifier (key:value) against titles, case-insensitively. Pages are
// cut at models.PageSize using the item cursors.
func (d *Demo) Search(ctx context.Context, q models.Query) (*models.Page, error) {
	if err := d.wait(ctx); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.searchCalls++

	if d.searchErr != nil {
		return nil, d.searchErr
	}

	var terms []string
	for _, f := range strings.Fields(strings.ToLower(q.Text)) {
		if !strings.Contains(f, ":") {
			terms = append(terms, f)
		}
	}

	var matched []models.PullRequest
	for _, pr := range d.items {
		title := strings.ToLower(pr.Title)
		ok := true
		for _, t := range terms {
			if !strings.Contains(title, t) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, pr)
		}
	}

	start, end := 0, len(matched)
	switch {
	case q.Before != "":
		end = indexOfCursor(matched, q.Before)
		if end < 0 {
			end = 0
		}
		start = max(0, end-models.PageSize)
	case q.After != "":
		start = indexOfCursor(matched, q.After) + 1
		end = min(len(matched), start+models.PageSize)
	default:
		end = min(len(matched), models.PageSize)
	}

	page := &models.Page{
		Query: q,
		Items: append([]models.PullRequest(nil), matched[start:end]...),
		PageInfo: models.PageInfo{
			HasPreviousPage: start > 0,
			HasNextPage:     end < len(matched),
		},
	}
	if len(page.Items) > 0 {
		page.PageInfo.StartCursor = page.Items[0].Cursor
		page.PageInfo.EndCursor = page.Items[len(page.Items)-1].Cursor
	}
	return page, nil
}

func indexOfCursor(items []models.PullRequest, cursor string) int {
	for i, pr := range items {
		if pr.Cursor == cursor {
			return i
		}
	}
	return -1
}

func (d *Demo) Mutate(ctx context.Context, req batch.Request) (*batch.Result, error) {
	if err := d.wait(ctx); err != nil {
		return nil, &batch.TransportError{Kind: req.Kind, Err: err}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.mutateCalls++

	if d.mutateErr != nil {
		return nil, &batch.TransportError{Kind: req.Kind, Err: d.mutateErr}
	}

	payloads := make(map[string]bool, req.Len())
	var errs []batch.RemoteError
	for _, op := range req.Operations {
		i := d.index(op.TargetID)
		switch {
		case i < 0:
			errs = append(errs, batch.RemoteError{
				Type:    "NOT_FOUND",
				Path:    []any{op.Alias},
				Message: fmt.Sprintf("Could not resolve to a node with the global id of '%s'", op.TargetID),
			})
			payloads[op.Alias] = false
		case strings.Contains(op.TargetID, "fail"):
			errs = append(errs, batch.RemoteError{
				Type:      "UNPROCESSABLE",
				Path:      []any{op.Alias},
				Locations: []batch.Location{{Line: 2, Column: 3}},
				Message:   fmt.Sprintf("Pull request %s could not be %s", op.TargetID, op.Kind.PastTense()),
			})
			payloads[op.Alias] = false
		default:
			if op.Kind == batch.Merge {
				d.items[i].State = models.PRStateMerged
			} else {
				d.items[i].ReviewDecision = models.ReviewApproved
			}
			payloads[op.Alias] = true
		}
	}
	return batch.NewResult(req, payloads, errs), nil
}

func (d *Demo) index(id string) int {
	for i, pr := range d.items {
		if pr.ID == id {
			return i
		}
	}
	return -1
}

// SearchCalls returns how many searches were served
func (d *Demo) SearchCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.searchCalls
}

// MutateCalls returns how many mutation requests were received
func (d *Demo) MutateCalls() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mutateCalls
}

// Items returns a copy of the current state
func (d *Demo) Items() []models.PullRequest {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]models.PullRequest(nil), d.items...)
}

// DemoPullRequests returns the canned data shown by --dry-run
func DemoPullRequests() []models.PullRequest {
	label := func(name, color string) models.Label {
		return models.Label{ID: "LA_" + strings.ReplaceAll(name, " ", "_"), Name: name, Color: color}
	}
	prs := []models.PullRequest{
		{
			ID: "PR_demo_1", Title: "Add retry to webhook delivery",
			URL:   "https://github.com/acme/api/pull/412",
			State: models.PRStateOpen, ReviewDecision: models.ReviewRequired,
			Labels:    []models.Label{label("enhancement", "a2eeef"), label("backend", "0075ca")},
			HeadCheck: models.CheckSuccess, MergeCheck: models.CheckNotAvailable,
		},
		{
			ID: "PR_demo_2", Title: "Bump lodash from 4.17.20 to 4.17.21",
			URL:   "https://github.com/acme/web/pull/1893",
			State: models.PRStateOpen, ReviewDecision: models.ReviewNone,
			Labels:    []models.Label{label("dependencies", "0366d6")},
			HeadCheck: models.CheckPending, MergeCheck: models.CheckNotAvailable,
		},
		{
			ID: "PR_demo_3", Title: "Fix flaky checkout test",
			URL:   "https://github.com/acme/web/pull/1890",
			State: models.PRStateOpen, ReviewDecision: models.ReviewChangesRequested,
			Labels:    []models.Label{label("bug", "d73a4a"), label("tests", "fef2c0")},
			HeadCheck: models.CheckFailure, MergeCheck: models.CheckNotAvailable,
		},
		{
			ID: "PR_demo_fail_4", Title: "Migrate billing to new ledger (protected branch)",
			URL:   "https://github.com/acme/billing/pull/77",
			State: models.PRStateOpen, ReviewDecision: models.ReviewApproved,
			Labels:    []models.Label{label("needs owner", "5319e7")},
			HeadCheck: models.CheckSuccess, MergeCheck: models.CheckNotAvailable,
		},
		{
			ID: "PR_demo_5", Title: "Document release process",
			URL:   "https://github.com/acme/handbook/pull/12",
			State: models.PRStateMerged, ReviewDecision: models.ReviewApproved,
			Labels:    []models.Label{label("documentation", "0075ca")},
			HeadCheck: models.CheckSuccess, MergeCheck: models.CheckSuccess,
		},
		{
			ID: "PR_demo_6", Title: "Experiment: drop legacy auth",
			URL:   "https://github.com/acme/api/pull/399",
			State: models.PRStateClosed, ReviewDecision: models.ReviewNone,
			Labels:    []models.Label{label("wontfix", "ffffff")},
			HeadCheck: models.CheckError, MergeCheck: models.CheckNotAvailable,
		},
	}
	for i := range prs {
		prs[i].Cursor = fmt.Sprintf("Y3Vyc29yOj%d", i+1)
	}
	return prs
}
