package api

import (
	"context"
	"errors"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

type fakePinger struct {
	fail atomic.Bool
}

func (p *fakePinger) Ping(_ context.Context) error {
	if p.fail.Load() {
		return errors.New("store unreachable")
	}
	return nil
}

func TestProber_StartsServing(t *testing.T) {
	p := NewProber(&fakePinger{})
	if !p.Serving() {
		t.Error("expected prober to start in serving state")
	}
}

func TestProber_FlipsOnFailure(t *testing.T) {
	pinger := &fakePinger{}
	p := NewProber(pinger)
	pinger.fail.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Serve(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.Serving() {
		select {
		case <-deadline:
			t.Fatal("expected prober to flip to not-serving")
		case <-time.After(20 * time.Millisecond):
		}
	}

	cancel()
	<-done
}

func TestProber_Handler(t *testing.T) {
	p := NewProber(&fakePinger{})

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	p.Handler()(rec, req)

	if rec.Code != 200 {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}
