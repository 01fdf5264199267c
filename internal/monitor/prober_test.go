package monitor_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/trafficwarden/trafficwarden/internal/monitor"
)

func newProber() *monitor.HTTPProber {
	return monitor.NewHTTPProber(monitor.HTTPProberConfig{Logger: zerolog.Nop()})
}

func TestHTTPProber_ExpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	out := newProber().Probe(context.Background(), server.URL, monitor.CheckConfig{
		ExpectedStatus: 200,
		Timeout:        2 * time.Second,
	})

	assert.Equal(t, monitor.OutcomeSuccess, out.Kind)
	assert.Equal(t, 200, out.StatusCode)
	assert.Greater(t, out.ResponseTimeMS, 0.0)
	assert.False(t, out.Failed())
}

func TestHTTPProber_UnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	out := newProber().Probe(context.Background(), server.URL, monitor.CheckConfig{
		ExpectedStatus: 200,
		Timeout:        2 * time.Second,
	})

	assert.Equal(t, monitor.OutcomeUnexpectedStatus, out.Kind)
	assert.Equal(t, 503, out.StatusCode)
	assert.Greater(t, out.ResponseTimeMS, 0.0, "the endpoint responded, time is recorded")
	assert.True(t, out.Failed())
}

func TestHTTPProber_NonDefaultExpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	out := newProber().Probe(context.Background(), server.URL, monitor.CheckConfig{
		ExpectedStatus: 404,
		Timeout:        2 * time.Second,
	})

	assert.Equal(t, monitor.OutcomeSuccess, out.Kind, "a 404 is a success when 404 is expected")
}

func TestHTTPProber_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	defer server.Close()

	start := time.Now()
	out := newProber().Probe(context.Background(), server.URL, monitor.CheckConfig{
		ExpectedStatus: 200,
		Timeout:        100 * time.Millisecond,
	})
	elapsed := time.Since(start)

	assert.Equal(t, monitor.OutcomeTimeout, out.Kind)
	assert.Less(t, elapsed, time.Second, "the timeout is a hard wall-clock bound")
}

func TestHTTPProber_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	url := server.URL
	server.Close()

	out := newProber().Probe(context.Background(), url, monitor.CheckConfig{
		ExpectedStatus: 200,
		Timeout:        2 * time.Second,
	})

	assert.Equal(t, monitor.OutcomeConnectionFailed, out.Kind)
}

func TestHTTPProber_SetsUserAgent(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
	}))
	defer server.Close()

	newProber().Probe(context.Background(), server.URL, monitor.CheckConfig{
		ExpectedStatus: 200,
		Timeout:        2 * time.Second,
	})

	assert.Equal(t, monitor.DefaultUserAgent, gotAgent)
}

func TestHTTPProber_MalformedURL(t *testing.T) {
	out := newProber().Probe(context.Background(), "https://bad url with spaces", monitor.CheckConfig{
		ExpectedStatus: 200,
		Timeout:        time.Second,
	})

	assert.Equal(t, monitor.OutcomeOtherError, out.Kind)
	assert.NotEmpty(t, out.Err)
}
