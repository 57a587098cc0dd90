package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerLastCallWins(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)
	defer d.Stop()

	got := make(chan string, 2)
	d.Call(func() { got <- "first" })
	d.Call(func() { got <- "second" })

	select {
	case v := <-got:
		assert.Equal(t, "second", v)
	case <-time.After(time.Second):
		t.Fatal("debounced call never fired")
	}

	select {
	case v := <-got:
		t.Fatalf("superseded call fired: %q", v)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestDebouncerStop(t *testing.T) {
	d := NewDebouncer(30 * time.Millisecond)

	fired := make(chan struct{}, 1)
	d.Call(func() { fired <- struct{}{} })
	d.Stop()

	select {
	case <-fired:
		t.Fatal("stopped call fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebouncerSequentialCalls(t *testing.T) {
	d := NewDebouncer(10 * time.Millisecond)
	defer d.Stop()

	got := make(chan string, 2)
	d.Call(func() { got <- "a" })

	select {
	case v := <-got:
		require.Equal(t, "a", v)
	case <-time.After(time.Second):
		t.Fatal("first call never fired")
	}

	d.Call(func() { got <- "b" })
	select {
	case v := <-got:
		require.Equal(t, "b", v)
	case <-time.After(time.Second):
		t.Fatal("second call never fired")
	}
}
