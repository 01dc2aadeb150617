package browser

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	r := New()
	if r.timeout != DefaultTimeout || r.settle != DefaultSettle {
		t.Errorf("defaults = %v/%v, want %v/%v", r.timeout, r.settle, DefaultTimeout, DefaultSettle)
	}
	if r.browser != nil {
		t.Error("New() must not start a browser")
	}
}

func TestOptions(t *testing.T) {
	r := New(
		WithProxy("http://proxy:8080"),
		WithUserAgent("test-agent"),
		WithTimeout(5*time.Second),
		WithSettle(0),
	)
	if r.proxy != "http://proxy:8080" || r.userAgent != "test-agent" || r.timeout != 5*time.Second || r.settle != 0 {
		t.Errorf("options not applied: %+v", r)
	}
	if ua := r.contextOptions().UserAgent; ua == nil || *ua != "test-agent" {
		t.Errorf("contextOptions().UserAgent = %v", ua)
	}
	if New().contextOptions().UserAgent != nil {
		t.Error("contextOptions() should leave the default User-Agent")
	}
}

func TestCloseBeforeUse(t *testing.T) {
	r := New()
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, err := r.Render(context.Background(), "https://www.etmoney.com/"); !errors.Is(err, ErrClosed) {
		t.Errorf("Render() after Close error = %v, want ErrClosed", err)
	}
}

func TestRenderCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Render(ctx, "https://www.etmoney.com/"); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}
