package batch

import (
	"encoding/json"
	"fmt"
)

// Location is a position in the GraphQL document an error refers to
type Location struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// RemoteError is one entry of the GraphQL "errors" list, kept as returned
type RemoteError struct {
	Type       string         `json:"type,omitempty"`
	Path       []any          `json:"path,omitempty"`
	Locations  []Location     `json:"locations,omitempty"`
	Extensions map[string]any `json:"extensions,omitempty"`
	Message    string         `json:"message"`
}

// Alias returns the operation alias the error belongs to, if its path names one
func (e RemoteError) Alias() string {
	if len(e.Path) == 0 {
		return ""
	}
	alias, _ := e.Path[0].(string)
	return alias
}

// OperationResult is the outcome of one aliased operation
type OperationResult struct {
	Operation Operation
	Succeeded bool
	Errors    []RemoteError
}

// Result is the decoded response of a batch. Operations are in request order.
type Result struct {
	Request    Request
	Operations []OperationResult
	// Errors is the complete top-level error list, including errors that
	// could not be tied to an alias
	Errors []RemoteError
}

// NewResult correlates the response back to the request. payloads reports,
// per alias, whether the API returned a non-null payload. An operation fails
// when an error names its alias or its payload is missing.
func NewResult(req Request, payloads map[string]bool, errs []RemoteError) *Result {
	byAlias := make(map[string][]RemoteError)
	for _, e := range errs {
		if alias := e.Alias(); alias != "" {
			byAlias[alias] = append(byAlias[alias], e)
		}
	}

	res := &Result{Request: req, Errors: errs}
	for _, op := range req.Operations {
		opErrs := byAlias[op.Alias]
		res.Operations = append(res.Operations, OperationResult{
			Operation: op,
			Succeeded: len(opErrs) == 0 && payloads[op.Alias],
			Errors:    opErrs,
		})
	}
	return res
}

// Succeeded returns the operations that went through
func (r *Result) Succeeded() []OperationResult {
	var out []OperationResult
	for _, op := range r.Operations {
		if op.Succeeded {
			out = append(out, op)
		}
	}
	return out
}

// Failed returns the operations that did not go through
func (r *Result) Failed() []OperationResult {
	var out []OperationResult
	for _, op := range r.Operations {
		if !op.Succeeded {
			out = append(out, op)
		}
	}
	return out
}

// HasErrors reports whether anything needs to be shown to the user
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0 || len(r.Failed()) > 0
}

// ErrorDump renders the error list as indented JSON for inspection
func (r *Result) ErrorDump() string {
	errs := r.Errors
	if len(errs) == 0 {
		// payloads came back null without an error entry
		for _, op := range r.Failed() {
			errs = append(errs, RemoteError{
				Path:    []any{op.Operation.Alias},
				Message: fmt.Sprintf("no result for %s", op.Operation.TargetID),
			})
		}
	}
	data, err := json.MarshalIndent(errs, "", "    ")
	if err != nil {
		return fmt.Sprintf("%v", errs)
	}
	return string(data)
}

// TransportError means the request never produced a GraphQL response
// (network failure, non-2xx status, undecodable body).
type TransportError struct {
	Kind Kind
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s request failed: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// Outcome distinguishes the ways a submitted batch can end
type Outcome int

const (
	OutcomeSuccess Outcome = iota
	// OutcomePartial means some operations failed
	OutcomePartial
	// OutcomeFailed means every operation failed
	OutcomeFailed
	// OutcomeTransport means no response was received
	OutcomeTransport
)

func (o Outcome) String() string {
	switch o {
	case OutcomePartial:
		return "partial"
	case OutcomeFailed:
		return "failed"
	case OutcomeTransport:
		return "transport"
	default:
		return "success"
	}
}

// Classify maps the return values of a mutation call to an Outcome
func Classify(res *Result, err error) Outcome {
	if err != nil || res == nil {
		return OutcomeTransport
	}
	if !res.HasErrors() {
		return OutcomeSuccess
	}
	if len(res.Succeeded()) == 0 {
		return OutcomeFailed
	}
	return OutcomePartial
}
