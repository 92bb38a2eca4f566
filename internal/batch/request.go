// Package batch builds aliased bulk mutations from the current selection and
// interprets their per-operation results.
package batch

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/selection"
)

// Kind is the bulk operation applied to every selected pull request
type Kind int

const (
	Approve Kind = iota
	Merge
)

func (k Kind) String() string {
	if k == Merge {
		return "merge"
	}
	return "approve"
}

// PastTense is used in status messages ("approved 3 PRs")
func (k Kind) PastTense() string {
	if k == Merge {
		return "merged"
	}
	return "approved"
}

// Effect is the fixed GraphQL enum value the operation applies: the review
// event for approvals, the merge method for merges.
func (k Kind) Effect() string {
	if k == Merge {
		return "SQUASH"
	}
	return "APPROVE"
}

// Operation is one aliased mutation inside a batch
type Operation struct {
	// Alias names the operation in the request and its response ("idx0")
	Alias    string
	Kind     Kind
	TargetID string
	// ClientMutationID is echoed back by the API
	ClientMutationID string
}

// Request is the full set of operations sent as one GraphQL document
type Request struct {
	// ID identifies the batch in logs and prefixes every ClientMutationID
	ID         string
	Kind       Kind
	Operations []Operation
}

// Alias returns the alias of the n-th operation. The response is correlated
// back to pull requests through these names, so the format is fixed.
func Alias(n int) string {
	return "idx" + strconv.Itoa(n)
}

// Build creates a request for the selected, eligible items of the page,
// aliased idx0, idx1, ... in page order.
func Build(page *models.Page, s selection.Set, kind Kind) Request {
	req := Request{
		ID:   uuid.NewString(),
		Kind: kind,
	}
	for i, pr := range selection.Selected(page, s) {
		req.Operations = append(req.Operations, Operation{
			Alias:            Alias(i),
			Kind:             kind,
			TargetID:         pr.ID,
			ClientMutationID: fmt.Sprintf("%s-%d", req.ID, i),
		})
	}
	return req
}

// Len returns the number of operations
func (r Request) Len() int {
	return len(r.Operations)
}

// Empty reports whether there is nothing to send
func (r Request) Empty() bool {
	return len(r.Operations) == 0
}

// ConfirmPrompt is the question asked before the request is dispatched
func (r Request) ConfirmPrompt() string {
	return fmt.Sprintf("You are about to %s %d PRs. Are you sure?", r.Kind, r.Len())
}

// Lookup finds the operation with the given alias
func (r Request) Lookup(alias string) (Operation, bool) {
	for _, op := range r.Operations {
		if op.Alias == alias {
			return op, true
		}
	}
	return Operation{}, false
}
