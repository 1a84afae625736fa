package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestProgressNonTerminalDrawsNothing(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, "Computing...")
	if p.animate {
		t.Fatal("a bytes.Buffer is not a terminal")
	}
	p.start(context.Background())
	p.finish()
	if buf.Len() != 0 {
		t.Errorf("output = %q, want none", buf.String())
	}
}

func TestProgressAnimatesAndClears(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, "Computing...")
	p.animate = true
	p.start(context.Background())
	time.Sleep(3 * spinnerInterval)
	p.finish()

	out := buf.String()
	if !strings.Contains(out, "Computing...") {
		t.Errorf("output %q does not show the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("output %q does not end by clearing the line", out)
	}
}

func TestProgressStopsOnCancel(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, "Waiting...")
	p.animate = true
	ctx, cancel := context.WithCancel(context.Background())
	p.start(ctx)
	cancel()

	select {
	case <-p.stopped:
	case <-time.After(time.Second):
		t.Fatal("animation did not stop after cancel")
	}
}

func TestProgressFinishIsIdempotent(t *testing.T) {
	p := newProgress(&bytes.Buffer{}, "Done")
	p.animate = true
	p.start(context.Background())
	p.finish()
	p.finish()
}

func TestRunWithSpinner(t *testing.T) {
	got, err := runWithSpinner(context.Background(), "Adding...", func(context.Context) (int, error) {
		return 42, nil
	})
	if err != nil || got != 42 {
		t.Fatalf("runWithSpinner = %d, %v", got, err)
	}

	boom := errors.New("boom")
	_, err = runWithSpinner(context.Background(), "Failing...", func(context.Context) (int, error) {
		return 0, boom
	})
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = runWithSpinner(ctx, "Canceled...", func(context.Context) (int, error) {
		return 1, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
