package capture

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not reached before deadline")
}

func TestEngineConcatenatesChunksInOrder(t *testing.T) {
	device := &ScriptedDevice{Chunks: [][]byte{[]byte("aa"), []byte("bb"), []byte("cc")}}
	var seen [][]byte
	done := make(chan struct{}, 3)
	engine := NewEngine(device, func(chunk []byte) {
		seen = append(seen, chunk)
		done <- struct{}{}
	})

	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("sink never observed chunk")
		}
	}

	artifact, err := engine.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !bytes.Equal(artifact, []byte("aabbcc")) {
		t.Fatalf("artifact = %q, want %q", artifact, "aabbcc")
	}
	if len(seen) != 3 || !bytes.Equal(seen[0], []byte("aa")) || !bytes.Equal(seen[2], []byte("cc")) {
		t.Fatalf("sink saw chunks out of order: %q", seen)
	}
}

func TestEngineZeroChunksYieldsNilArtifact(t *testing.T) {
	engine := NewEngine(&ScriptedDevice{}, nil)
	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	artifact, err := engine.Stop()
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if artifact != nil {
		t.Fatalf("expected nil artifact, got %d bytes", len(artifact))
	}
}

func TestEngineOpenFailure(t *testing.T) {
	engine := NewEngine(&ScriptedDevice{OpenErr: errors.New("mic unplugged")}, nil)
	err := engine.Start(context.Background())
	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Fatalf("expected device unavailable, got %v", err)
	}
	if got := engine.State(); got != EngineIdle {
		t.Fatalf("failed start must leave engine idle, got %s", got)
	}
}

func TestEnginePauseSuspendsProduction(t *testing.T) {
	chunks := make([][]byte, 64)
	for i := range chunks {
		chunks[i] = []byte{byte(i)}
	}
	device := &ScriptedDevice{Chunks: chunks, Interval: 5 * time.Millisecond}
	engine := NewEngine(device, nil)
	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return len(engine.Chunks()) >= 2 })

	if err := engine.Pause(); err != nil {
		t.Fatalf("pause: %v", err)
	}
	// One in-flight read may still land after the pause takes effect.
	time.Sleep(30 * time.Millisecond)
	before := len(engine.Chunks())
	time.Sleep(50 * time.Millisecond)
	if after := len(engine.Chunks()); after != before {
		t.Fatalf("paused engine kept producing: %d -> %d", before, after)
	}

	if err := engine.Resume(); err != nil {
		t.Fatalf("resume: %v", err)
	}
	waitFor(t, 2*time.Second, func() bool { return len(engine.Chunks()) > before })

	if _, err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
}

func TestEngineInvalidTransitions(t *testing.T) {
	engine := NewEngine(&ScriptedDevice{}, nil)
	if err := engine.Pause(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("pause before start: expected invalid state, got %v", err)
	}
	if _, err := engine.Stop(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("stop before start: expected invalid state, got %v", err)
	}
	if err := engine.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := engine.Start(context.Background()); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second start: expected invalid state, got %v", err)
	}
	if _, err := engine.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if _, err := engine.Stop(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("second stop: expected invalid state, got %v", err)
	}
	if err := engine.Resume(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("resume after stop: expected invalid state, got %v", err)
	}
}
