package github

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/cli/go-gh/v2/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wahlandcase/prdash/internal/batch"
	"github.com/wahlandcase/prdash/internal/models"
	"github.com/wahlandcase/prdash/internal/selection"
)

// fakeDoer decodes data into the response the way go-gh does, then returns err
type fakeDoer struct {
	data string
	err  error

	calls int
	query string
	vars  map[string]interface{}
}

func (f *fakeDoer) DoWithContext(ctx context.Context, query string, variables map[string]interface{}, response interface{}) error {
	f.calls++
	f.query = query
	f.vars = variables
	if f.data != "" {
		if err := json.Unmarshal([]byte(f.data), response); err != nil {
			return err
		}
	}
	return f.err
}

const searchFixture = `{
  "search": {
    "edges": [
      {
        "cursor": "c1",
        "node": {
          "id": "PR_1",
          "title": "Add feature",
          "url": "https://github.com/o/r/pull/1",
          "state": "OPEN",
          "reviewDecision": "REVIEW_REQUIRED",
          "labels": {"nodes": [{"id": "L1", "name": "bug", "color": "d73a4a"}]},
          "mergeCommit": null,
          "commits": {"nodes": [{"commit": {"statusCheckRollup": {"state": "SUCCESS"}}}]}
        }
      },
      {
        "cursor": "c2",
        "node": {
          "id": "PR_2",
          "title": "Old change",
          "url": "https://github.com/o/r/pull/2",
          "state": "MERGED",
          "reviewDecision": null,
          "labels": {"nodes": []},
          "mergeCommit": {"statusCheckRollup": {"state": "FAILURE"}},
          "commits": {"nodes": [{"commit": {"statusCheckRollup": null}}]}
        }
      },
      {"cursor": "c3", "node": {}}
    ],
    "pageInfo": {"hasNextPage": true, "hasPreviousPage": false, "startCursor": "c1", "endCursor": "c3"}
  }
}`

func TestSearch_DecodesPage(t *testing.T) {
	doer := &fakeDoer{data: searchFixture}
	client := newClient(doer, nil)

	page, err := client.Search(context.Background(), models.Query{Text: "is:open"})
	require.NoError(t, err)

	require.Len(t, page.Items, 2, "nodes without an id are skipped")

	first := page.Items[0]
	assert.Equal(t, "PR_1", first.ID)
	assert.Equal(t, models.PRStateOpen, first.State)
	assert.Equal(t, models.ReviewRequired, first.ReviewDecision)
	assert.Equal(t, models.CheckSuccess, first.HeadCheck)
	assert.Equal(t, models.CheckNotAvailable, first.MergeCheck)
	assert.Equal(t, []models.Label{{ID: "L1", Name: "bug", Color: "d73a4a"}}, first.Labels)
	assert.Equal(t, "c1", first.Cursor)

	second := page.Items[1]
	assert.Equal(t, models.PRStateMerged, second.State)
	assert.Equal(t, models.ReviewNone, second.ReviewDecision)
	assert.Equal(t, models.CheckNotAvailable, second.HeadCheck)
	assert.Equal(t, models.CheckFailure, second.MergeCheck)

	assert.True(t, page.PageInfo.HasNextPage)
	assert.Equal(t, "c3", page.PageInfo.EndCursor)
	assert.Equal(t, "is:open", page.Query.Text)
}

func TestSearchVariables(t *testing.T) {
	tests := []struct {
		name       string
		query      models.Query
		wantAfter  interface{}
		wantBefore interface{}
	}{
		{name: "first page", query: models.Query{Text: "x"}},
		{name: "after", query: models.Query{Text: "x", After: "a1"}, wantAfter: "a1"},
		{name: "before", query: models.Query{Text: "x", Before: "b1"}, wantBefore: "b1"},
		{name: "before wins", query: models.Query{Text: "x", After: "a1", Before: "b1"}, wantBefore: "b1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := SearchVariables(tt.query)
			assert.Equal(t, "is:pr x", vars["q"])
			assert.Equal(t, tt.wantAfter, vars["after"])
			assert.Equal(t, tt.wantBefore, vars["before"])
			if tt.wantBefore != nil {
				assert.Nil(t, vars["first"])
				assert.Equal(t, models.PageSize, vars["last"])
			} else {
				assert.Equal(t, models.PageSize, vars["first"])
				assert.Nil(t, vars["last"])
			}
		})
	}
}

func TestSearch_Unauthorized(t *testing.T) {
	doer := &fakeDoer{err: &api.HTTPError{StatusCode: http.StatusUnauthorized, Message: "Bad credentials"}}
	client := newClient(doer, nil)

	_, err := client.Search(context.Background(), models.Query{})
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSearch_OtherHTTPError(t *testing.T) {
	doer := &fakeDoer{err: &api.HTTPError{StatusCode: http.StatusBadGateway}}
	client := newClient(doer, nil)

	_, err := client.Search(context.Background(), models.Query{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func openPage(ids ...string) *models.Page {
	page := &models.Page{}
	for _, id := range ids {
		page.Items = append(page.Items, models.PullRequest{ID: id, State: models.PRStateOpen})
	}
	return page
}

func buildRequest(kind batch.Kind, ids ...string) batch.Request {
	page := openPage(ids...)
	return batch.Build(page, selection.SetAll(page, nil, true), kind)
}

func TestRenderMutation(t *testing.T) {
	t.Run("approve", func(t *testing.T) {
		req := buildRequest(batch.Approve, "PR_a", "PR_b")
		doc, vars := RenderMutation(req)

		assert.Contains(t, doc, "mutation BulkApprove(")
		assert.Contains(t, doc, "idx0: addPullRequestReview(input: {pullRequestId: $idx0, event: APPROVE")
		assert.Contains(t, doc, "idx1: addPullRequestReview(input: {pullRequestId: $idx1, event: APPROVE")
		assert.NotContains(t, doc, "idx2")
		assert.NotContains(t, doc, "mergePullRequest")

		assert.Equal(t, "PR_a", vars["idx0"])
		assert.Equal(t, "PR_b", vars["idx1"])
		assert.Equal(t, req.Operations[0].ClientMutationID, vars["idx0Cid"])
	})

	t.Run("merge", func(t *testing.T) {
		req := buildRequest(batch.Merge, "PR_a")
		doc, vars := RenderMutation(req)

		assert.Contains(t, doc, "mutation BulkMerge(")
		assert.Contains(t, doc, "idx0: mergePullRequest(input: {pullRequestId: $idx0, mergeMethod: SQUASH")
		assert.NotContains(t, doc, "addPullRequestReview")
		assert.Len(t, vars, 2)
	})

	t.Run("ids never appear in the document", func(t *testing.T) {
		req := buildRequest(batch.Approve, `PR_"}) { evil }`)
		doc, _ := RenderMutation(req)
		assert.NotContains(t, doc, "evil")
	})
}

func TestMutate_AllSucceed(t *testing.T) {
	doer := &fakeDoer{data: `{"idx0": {"clientMutationId": "x-0"}, "idx1": {"clientMutationId": "x-1"}}`}
	client := newClient(doer, nil)
	req := buildRequest(batch.Approve, "PR_a", "PR_b")

	res, err := client.Mutate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, doer.calls, "one request per batch")
	assert.Equal(t, batch.OutcomeSuccess, batch.Classify(res, err))
	assert.Len(t, res.Succeeded(), 2)
}

func TestMutate_PartialFailure(t *testing.T) {
	doer := &fakeDoer{
		data: `{"idx0": {"clientMutationId": "x-0"}, "idx1": null}`,
		err: &api.GraphQLError{Errors: []api.GraphQLErrorItem{{
			Type:    "UNPROCESSABLE",
			Message: "Pull request is not mergeable",
			Path:    []interface{}{"idx1"},
		}}},
	}
	client := newClient(doer, nil)
	req := buildRequest(batch.Merge, "PR_a", "PR_b")

	res, err := client.Mutate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, batch.OutcomePartial, batch.Classify(res, err))

	failed := res.Failed()
	require.Len(t, failed, 1)
	assert.Equal(t, "idx1", failed[0].Operation.Alias)
	assert.Equal(t, "PR_b", failed[0].Operation.TargetID)
	assert.Equal(t, "Pull request is not mergeable", failed[0].Errors[0].Message)
	assert.Contains(t, res.ErrorDump(), `"message": "Pull request is not mergeable"`)
}

func TestMutate_TransportError(t *testing.T) {
	doer := &fakeDoer{err: errors.New("connection reset by peer")}
	client := newClient(doer, nil)
	req := buildRequest(batch.Approve, "PR_a")

	res, err := client.Mutate(context.Background(), req)
	assert.Nil(t, res)

	var transportErr *batch.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, batch.Approve, transportErr.Kind)
	assert.Equal(t, batch.OutcomeTransport, batch.Classify(res, err))
}

func TestMutate_EmptyRequestSendsNothing(t *testing.T) {
	doer := &fakeDoer{}
	client := newClient(doer, nil)

	res, err := client.Mutate(context.Background(), batch.Request{Kind: batch.Merge})
	require.NoError(t, err)
	assert.Equal(t, 0, doer.calls)
	assert.False(t, res.HasErrors())
}

func TestViewer(t *testing.T) {
	doer := &fakeDoer{data: `{"viewer": {"login": "octocat"}}`}
	client := newClient(doer, nil)

	login, err := client.Viewer(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "octocat", login)
	assert.Contains(t, doer.query, "viewer")
}
