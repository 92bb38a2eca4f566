package batch

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func threeOpRequest() Request {
	return Request{
		ID:   "batch",
		Kind: Merge,
		Operations: []Operation{
			{Alias: "idx0", Kind: Merge, TargetID: "A"},
			{Alias: "idx1", Kind: Merge, TargetID: "B"},
			{Alias: "idx2", Kind: Merge, TargetID: "C"},
		},
	}
}

func TestNewResult_AllSucceeded(t *testing.T) {
	res := NewResult(threeOpRequest(), map[string]bool{"idx0": true, "idx1": true, "idx2": true}, nil)

	assert.Len(t, res.Succeeded(), 3)
	assert.Empty(t, res.Failed())
	assert.False(t, res.HasErrors())
	assert.Equal(t, OutcomeSuccess, Classify(res, nil))
}

func TestNewResult_PartialFailureByAlias(t *testing.T) {
	errs := []RemoteError{
		{Type: "UNPROCESSABLE", Path: []any{"idx1"}, Message: "Pull Request is not mergeable"},
	}
	res := NewResult(threeOpRequest(), map[string]bool{"idx0": true, "idx1": false, "idx2": true}, errs)

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "B", failed[0].Operation.TargetID)
	assert.Equal(t, "Pull Request is not mergeable", failed[0].Errors[0].Message)
	assert.Len(t, res.Succeeded(), 2)
	assert.Equal(t, OutcomePartial, Classify(res, nil))
}

func TestNewResult_MissingPayloadFails(t *testing.T) {
	res := NewResult(threeOpRequest(), map[string]bool{"idx0": true, "idx2": true}, nil)

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "idx1", failed[0].Operation.Alias)
	assert.True(t, res.HasErrors())

	var dumped []RemoteError
	require.NoError(t, json.Unmarshal([]byte(res.ErrorDump()), &dumped))
	require.Len(t, dumped, 1)
	assert.Equal(t, "idx1", dumped[0].Alias())
}

func TestNewResult_ErrorWithoutPathIsKept(t *testing.T) {
	errs := []RemoteError{{Message: "Something went wrong while executing your query."}}
	res := NewResult(threeOpRequest(), map[string]bool{"idx0": true, "idx1": true, "idx2": true}, errs)

	assert.Empty(t, res.Failed())
	assert.True(t, res.HasErrors())
	assert.Contains(t, res.ErrorDump(), "Something went wrong")
	assert.Equal(t, OutcomePartial, Classify(res, nil), "an unattributed error still surfaces")
}

func TestNewResult_AllFailed(t *testing.T) {
	errs := []RemoteError{
		{Path: []any{"idx0"}, Message: "no"},
		{Path: []any{"idx1"}, Message: "no"},
		{Path: []any{"idx2"}, Message: "no"},
	}
	res := NewResult(threeOpRequest(), nil, errs)
	assert.Equal(t, OutcomeFailed, Classify(res, nil))
}

func TestClassify_Transport(t *testing.T) {
	err := &TransportError{Kind: Approve, Err: errors.New("connection reset")}
	assert.Equal(t, OutcomeTransport, Classify(nil, err))
	assert.ErrorContains(t, err, "approve request failed: connection reset")

	var te *TransportError
	assert.ErrorAs(t, error(err), &te)
}

func TestRemoteError_Alias(t *testing.T) {
	assert.Equal(t, "idx3", RemoteError{Path: []any{"idx3", "pullRequest"}}.Alias())
	assert.Equal(t, "", RemoteError{Path: []any{float64(0)}}.Alias())
	assert.Equal(t, "", RemoteError{}.Alias())
}

func TestErrorDump_IsIndentedJSON(t *testing.T) {
	errs := []RemoteError{{Type: "FORBIDDEN", Path: []any{"idx0"}, Message: "Resource not accessible"}}
	res := NewResult(threeOpRequest(), nil, errs)

	dump := res.ErrorDump()
	assert.Contains(t, dump, "\n    {")
	assert.Contains(t, dump, `"type": "FORBIDDEN"`)
}
