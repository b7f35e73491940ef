package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSearchUnconfigured(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/search?q=matrix", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	noQuery := env.do(http.MethodGet, "/api/search", nil, "")
	require.Equal(t, http.StatusServiceUnavailable, noQuery.Code)
}
