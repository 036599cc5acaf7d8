package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(attempts int, maxSize int64) *Client {
	return New(Options{
		Timeout:       5 * time.Second,
		RetryAttempts: attempts,
		RetryDelay:    time.Millisecond,
		UserAgent:     "crxfetch-test",
		MaxSize:       maxSize,
	})
}

func TestFetchSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "crxfetch-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "https://chrome.google.com", r.Header.Get("Referer"))
		w.Header().Set("Content-Type", "application/x-chrome-extension")
		w.Write([]byte("Cr24-payload"))
	}))
	defer srv.Close()

	data, err := testClient(3, 0).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("Cr24-payload"), data)
}

func TestFetchNoContent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	_, err := testClient(3, 0).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrNotAvailable)
	// 204 is terminal, no retries.
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFetchHTMLResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte("<html>not here</html>"))
	}))
	defer srv.Close()

	_, err := testClient(3, 0).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrNotAvailable)
}

func TestFetchRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	data, err := testClient(3, 0).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []byte("ok"), data)
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestFetchRetriesExhausted(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(2, 0).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestFetchClientErrorIsTerminal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(3, 0).Fetch(context.Background(), srv.URL)
	assert.Error(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestFetchSizeLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	_, err := testClient(1, 1024).Fetch(context.Background(), srv.URL)
	assert.ErrorIs(t, err, ErrTooLarge)

	data, err := testClient(1, 4096).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Len(t, data, 2048)
}

func TestFetchContextCancel(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Second)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := testClient(3, 0).Fetch(ctx, srv.URL)
	assert.Error(t, err)
}
