package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCallbackRouter(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
		wantErr    bool
	}{
		{name: "valid", target: "/callback?state=s1&code=abc", wantStatus: http.StatusOK, wantCode: "abc"},
		{name: "wrong state", target: "/callback?state=nope&code=abc", wantStatus: http.StatusBadRequest},
		{name: "missing state", target: "/callback?code=abc", wantStatus: http.StatusBadRequest},
		{name: "missing code", target: "/callback?state=s1", wantStatus: http.StatusBadRequest},
		{name: "denied", target: "/callback?state=s1&error=access_denied", wantStatus: http.StatusForbidden, wantErr: true},
		{name: "unknown path", target: "/other", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results := make(chan callbackResult, 1)
			router := newCallbackRouter("s1", results, zap.NewNop())

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)

			switch {
			case tt.wantCode != "":
				require.Len(t, results, 1)
				res := <-results
				assert.Equal(t, tt.wantCode, res.code)
				assert.NoError(t, res.err)
			case tt.wantErr:
				require.Len(t, results, 1)
				assert.Error(t, (<-results).err)
			default:
				assert.Empty(t, results, "rejected callbacks deliver nothing")
			}
		})
	}
}

func TestCallbackRouter_OnlyFirstResultDelivered(t *testing.T) {
	results := make(chan callbackResult, 1)
	router := newCallbackRouter("s1", results, zap.NewNop())

	for _, code := range []string{"first", "second"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?state=s1&code="+code, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	require.Len(t, results, 1)
	assert.Equal(t, "first", (<-results).code)
}

func TestStatic(t *testing.T) {
	s := &Static{Session: Session{Token: "t", Source: SourceDryRun}}
	got, err := s.Resolve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceDryRun, got.Source)
	assert.False(t, s.CanSignIn())

	empty := &Static{}
	_, err = empty.Resolve(context.Background())
	assert.ErrorIs(t, err, ErrNoCredential)
}
