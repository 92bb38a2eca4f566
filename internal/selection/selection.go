// Package selection tracks which pull requests on the current page are
// selected for a bulk action. A Set is treated as immutable: every operation
// returns a new Set, so the page model can compare by identity.
package selection

import "github.com/wahlandcase/prdash/internal/models"

// Set maps pull request IDs to their selected flag. Absent means unselected.
type Set map[string]bool

// TriState summarises the selection for the select-all checkbox
type TriState int

const (
	// None means no eligible item is selected (or there are no eligible items)
	None TriState = iota
	// All means every eligible item is selected
	All
	// Mixed means some but not all eligible items are selected
	Mixed
)

func (t TriState) String() string {
	switch t {
	case All:
		return "all"
	case Mixed:
		return "mixed"
	default:
		return "none"
	}
}

// Eligible reports whether a pull request can be selected. Only open pull
// requests can be approved or merged.
func Eligible(pr models.PullRequest) bool {
	return pr.State == models.PRStateOpen
}

func (s Set) clone() Set {
	out := make(Set, len(s))
	for id, selected := range s {
		if selected {
			out[id] = true
		}
	}
	return out
}

// Toggle flips the selection of one item. Items that are missing from the
// page or not eligible are left untouched.
func Toggle(page *models.Page, s Set, id string) Set {
	out := s.clone()
	pr, ok := page.Find(id)
	if !ok || !Eligible(pr) {
		return out
	}
	if out[id] {
		delete(out, id)
	} else {
		out[id] = true
	}
	return out
}

// SetAll selects or deselects every eligible item on the page
func SetAll(page *models.Page, s Set, selected bool) Set {
	out := s.clone()
	if page == nil {
		return out
	}
	for _, pr := range page.Items {
		if !Eligible(pr) {
			continue
		}
		if selected {
			out[pr.ID] = true
		} else {
			delete(out, pr.ID)
		}
	}
	return out
}

// State computes the select-all tri-state over the eligible items of the page
func State(page *models.Page, s Set) TriState {
	if page == nil {
		return None
	}
	eligible, selected := 0, 0
	for _, pr := range page.Items {
		if !Eligible(pr) {
			continue
		}
		eligible++
		if s[pr.ID] {
			selected++
		}
	}
	switch {
	case selected == 0:
		return None
	case selected == eligible:
		return All
	default:
		return Mixed
	}
}

// IsSelected reports whether the item is selected and still eligible
func IsSelected(page *models.Page, s Set, id string) bool {
	pr, ok := page.Find(id)
	return ok && Eligible(pr) && s[id]
}

// Selected returns the selected eligible items in page order
func Selected(page *models.Page, s Set) []models.PullRequest {
	if page == nil {
		return nil
	}
	var out []models.PullRequest
	for _, pr := range page.Items {
		if Eligible(pr) && s[pr.ID] {
			out = append(out, pr)
		}
	}
	return out
}

// Count returns the number of selected eligible items on the page
func Count(page *models.Page, s Set) int {
	return len(Selected(page, s))
}

// Prune keeps only selections that still refer to eligible items on page.
// Called after a refresh so merged or closed items drop out of the set.
func Prune(page *models.Page, s Set) Set {
	out := make(Set)
	for _, pr := range Selected(page, s) {
		out[pr.ID] = true
	}
	return out
}
