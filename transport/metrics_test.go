package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingDoer struct{}

func (failingDoer) Do(*http.Request) (*http.Response, error) {
	return nil, errors.New("dial tcp: connection refused")
}

func TestMetrics_Observe(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	client := NewClient(WithMetrics(m))

	for range 2 {
		_, err := client.Execute(context.Background(), Build(server.URL, nil, DecodeRaw).SetMethod(MethodDelete))
		require.NoError(t, err)
	}

	assert.InDelta(t, 2, testutil.ToFloat64(m.requestsTotal.WithLabelValues("DELETE", "204")), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestDuration))

	failing := NewClient(WithMetrics(m), WithHTTPClient(failingDoer{}))
	_, err := failing.Execute(context.Background(), Build(server.URL, nil, DecodeRaw))
	require.ErrorIs(t, err, ErrTransport)

	assert.InDelta(t, 1, testutil.ToFloat64(m.failuresTotal.WithLabelValues("GET")), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.observe(MethodGet, 200, 0)
		m.observeFailure(MethodGet)
	})
}
