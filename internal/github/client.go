package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"
	"go.uber.org/zap"

	"github.com/wahlandcase/prdash/internal/batch"
	"github.com/wahlandcase/prdash/internal/models"
)

// ErrUnauthorized is returned when the API rejects the session token
var ErrUnauthorized = errors.New("github rejected the token (401)")

// Remote is everything the dashboard needs from GitHub
type Remote interface {
	Viewer(ctx context.Context) (string, error)
	Search(ctx context.Context, q models.Query) (*models.Page, error)
	Mutate(ctx context.Context, req batch.Request) (*batch.Result, error)
}

// graphQLDoer is the subset of *api.GraphQLClient the client uses
type graphQLDoer interface {
	DoWithContext(ctx context.Context, query string, variables map[string]interface{}, response interface{}) error
}

// Client talks to the GitHub GraphQL API
type Client struct {
	gql graphQLDoer
	log *zap.Logger
}

// NewClient creates a GraphQL client for host authenticated with token
func NewClient(host, token string, timeout time.Duration, log *zap.Logger) (*Client, error) {
	if token == "" {
		return nil, errors.New("no token for GitHub API")
	}
	gql, err := api.NewGraphQLClient(api.ClientOptions{
		Host:      host,
		AuthToken: token,
		Timeout:   timeout,
		Headers: map[string]string{
			"User-Agent": "prdash",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating GraphQL client: %w", err)
	}
	return newClient(gql, log), nil
}

func newClient(gql graphQLDoer, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{gql: gql, log: log.Named("github")}
}

const viewerQuery = `query { viewer { login } }`

// Viewer returns the login of the authenticated user
func (c *Client) Viewer(ctx context.Context) (string, error) {
	var resp struct {
		Viewer struct {
			Login string `json:"login"`
		} `json:"viewer"`
	}
	if err := c.gql.DoWithContext(ctx, viewerQuery, nil, &resp); err != nil {
		return "", wrapRequestError("viewer", err)
	}
	return resp.Viewer.Login, nil
}

const searchQuery = `query PullRequests($q: String!, $first: Int, $last: Int, $after: String, $before: String) {
  search(query: $q, type: ISSUE, first: $first, last: $last, after: $after, before: $before) {
    edges {
      cursor
      node {
        ... on PullRequest {
          id
          title
          url
          state
          reviewDecision
          labels(first: 10) {
            nodes { id name color }
          }
          mergeCommit {
            statusCheckRollup { state }
          }
          commits(last: 1) {
            nodes {
              commit {
                statusCheckRollup { state }
              }
            }
          }
        }
      }
    }
    pageInfo {
      hasNextPage
      hasPreviousPage
      startCursor
      endCursor
    }
  }
}`

type rollup struct {
	StatusCheckRollup *struct {
		State string `json:"state"`
	} `json:"statusCheckRollup"`
}

func (r *rollup) state() string {
	if r == nil || r.StatusCheckRollup == nil {
		return ""
	}
	return r.StatusCheckRollup.State
}

type searchResponse struct {
	Search struct {
		Edges []struct {
			Cursor string `json:"cursor"`
			Node   struct {
				ID             string `json:"id"`
				Title          string `json:"title"`
				URL            string `json:"url"`
				State          string `json:"state"`
				ReviewDecision string `json:"reviewDecision"`
				Labels         struct {
					Nodes []models.Label `json:"nodes"`
				} `json:"labels"`
				MergeCommit *rollup `json:"mergeCommit"`
				Commits     struct {
					Nodes []struct {
						Commit *rollup `json:"commit"`
					} `json:"nodes"`
				} `json:"commits"`
			} `json:"node"`
		} `json:"edges"`
		PageInfo models.PageInfo `json:"pageInfo"`
	} `json:"search"`
}

// SearchVariables builds the variables for one page of results. Before takes
// precedence over After when both are set, and pages backwards with last.
func SearchVariables(q models.Query) map[string]interface{} {
	vars := map[string]interface{}{
		"q":      q.SearchExpression(),
		"first":  models.PageSize,
		"last":   nil,
		"after":  nil,
		"before": nil,
	}
	switch {
	case q.Before != "":
		vars["before"] = q.Before
		vars["first"] = nil
		vars["last"] = models.PageSize
	case q.After != "":
		vars["after"] = q.After
	}
	return vars
}

// Search fetches one page of pull requests matching q
func (c *Client) Search(ctx context.Context, q models.Query) (*models.Page, error) {
	start := time.Now()

	var resp searchResponse
	if err := c.gql.DoWithContext(ctx, searchQuery, SearchVariables(q), &resp); err != nil {
		c.log.Warn("search failed", zap.String("query", q.SearchExpression()), zap.Error(err))
		return nil, wrapRequestError("search", err)
	}

	page := &models.Page{
		Query:    q,
		PageInfo: resp.Search.PageInfo,
	}
	for _, edge := range resp.Search.Edges {
		n := edge.Node
		// non-PR results decode as empty nodes
		if n.ID == "" {
			continue
		}
		pr := models.PullRequest{
			ID:             n.ID,
			Title:          n.Title,
			URL:            n.URL,
			State:          models.ParsePRState(n.State),
			ReviewDecision: models.ParseReviewDecision(n.ReviewDecision),
			Labels:         n.Labels.Nodes,
			MergeCheck:     models.ParseCheckState(n.MergeCommit.state()),
			Cursor:         edge.Cursor,
		}
		if len(n.Commits.Nodes) > 0 {
			pr.HeadCheck = models.ParseCheckState(n.Commits.Nodes[len(n.Commits.Nodes)-1].Commit.state())
		} else {
			pr.HeadCheck = models.ParseCheckState("")
		}
		page.Items = append(page.Items, pr)
	}

	c.log.Debug("search",
		zap.String("query", q.SearchExpression()),
		zap.String("after", q.After),
		zap.String("before", q.Before),
		zap.Int("items", len(page.Items)),
		zap.Duration("took", time.Since(start)),
	)
	return page, nil
}

// RenderMutation renders the request as a single aliased mutation document.
// Ids are passed as variables named after the alias.
func RenderMutation(req batch.Request) (string, map[string]interface{}) {
	var params, fields []string
	vars := make(map[string]interface{}, 2*req.Len())

	for _, op := range req.Operations {
		idVar, cidVar := op.Alias, op.Alias+"Cid"
		params = append(params, fmt.Sprintf("$%s: ID!", idVar), fmt.Sprintf("$%s: String", cidVar))
		vars[idVar] = op.TargetID
		vars[cidVar] = op.ClientMutationID

		switch op.Kind {
		case batch.Merge:
			fields = append(fields, fmt.Sprintf(
				"  %s: mergePullRequest(input: {pullRequestId: $%s, mergeMethod: %s, clientMutationId: $%s}) { clientMutationId }",
				op.Alias, idVar, op.Kind.Effect(), cidVar))
		default:
			fields = append(fields, fmt.Sprintf(
				"  %s: addPullRequestReview(input: {pullRequestId: $%s, event: %s, clientMutationId: $%s}) { clientMutationId }",
				op.Alias, idVar, op.Kind.Effect(), cidVar))
		}
	}

	doc := fmt.Sprintf("mutation Bulk%s(%s) {\n%s\n}",
		mutationName(req.Kind),
		strings.Join(params, ", "),
		strings.Join(fields, "\n"))
	return doc, vars
}

func mutationName(kind batch.Kind) string {
	if kind == batch.Merge {
		return "Merge"
	}
	return "Approve"
}

type mutationPayload struct {
	ClientMutationID string `json:"clientMutationId"`
}

// Mutate sends every operation of req in one request. Per-operation failures
// are reported in the Result; a *batch.TransportError means no usable response.
func (c *Client) Mutate(ctx context.Context, req batch.Request) (*batch.Result, error) {
	if req.Empty() {
		return batch.NewResult(req, nil, nil), nil
	}

	doc, vars := RenderMutation(req)
	start := time.Now()

	resp := make(map[string]*mutationPayload, req.Len())
	err := c.gql.DoWithContext(ctx, doc, vars, &resp)

	var gqlErr *api.GraphQLError
	var remoteErrs []batch.RemoteError
	switch {
	case err == nil:
	case errors.As(err, &gqlErr):
		remoteErrs = convertErrors(gqlErr)
	default:
		c.log.Error("mutation request failed",
			zap.String("batch", req.ID),
			zap.Stringer("kind", req.Kind),
			zap.Int("operations", req.Len()),
			zap.Error(err),
		)
		return nil, &batch.TransportError{Kind: req.Kind, Err: wrapRequestError("mutation", err)}
	}

	payloads := make(map[string]bool, len(resp))
	for alias, p := range resp {
		payloads[alias] = p != nil
	}
	res := batch.NewResult(req, payloads, remoteErrs)

	c.log.Info("mutation",
		zap.String("batch", req.ID),
		zap.Stringer("kind", req.Kind),
		zap.Int("operations", req.Len()),
		zap.Int("failed", len(res.Failed())),
		zap.Int("errors", len(res.Errors)),
		zap.Duration("took", time.Since(start)),
	)
	return res, nil
}

func convertErrors(gqlErr *api.GraphQLError) []batch.RemoteError {
	out := make([]batch.RemoteError, 0, len(gqlErr.Errors))
	for _, e := range gqlErr.Errors {
		re := batch.RemoteError{
			Type:       e.Type,
			Path:       e.Path,
			Extensions: e.Extensions,
			Message:    e.Message,
		}
		for _, loc := range e.Locations {
			re.Locations = append(re.Locations, batch.Location{Line: loc.Line, Column: loc.Column})
		}
		out = append(out, re)
	}
	return out
}

func wrapRequestError(op string, err error) error {
	var httpErr *api.HTTPError
	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	return fmt.Errorf("%s: %w", op, err)
}
