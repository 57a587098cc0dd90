package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHealthPoller(t *testing.T) {
	var healthy atomic.Bool
	healthy.Store(true)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		if !healthy.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(Health{Status: "OK", Database: "connected"})
	}))
	defer srv.Close()

	p := NewHealthPoller(New(srv.URL), 10*time.Millisecond)
	defer p.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	require.Eventually(t, p.Online, time.Second, 5*time.Millisecond)

	healthy.Store(false)
	require.Eventually(t, func() bool { return !p.Online() }, time.Second, 5*time.Millisecond)
}

func TestHealthPollerStopConcurrent(t *testing.T) {
	p := NewHealthPoller(New("http://localhost:0/api"), time.Minute)
	p.Start(context.Background())

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.Stop()
		}()
	}
	wg.Wait()
	p.Stop()
}
