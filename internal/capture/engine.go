package capture

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
)

// EngineState identifies the capture phase of an Engine.
type EngineState string

const (
	EngineIdle      EngineState = "idle"
	EngineCapturing EngineState = "capturing"
	EnginePaused    EngineState = "paused"
	EngineStopped   EngineState = "stopped"
)

// ChunkReader produces ordered audio chunks. ReadChunk blocks until the next
// chunk is available and returns io.EOF when the source is exhausted. Close
// releases the underlying device and unblocks any pending read.
type ChunkReader interface {
	ReadChunk() ([]byte, error)
	Close() error
}

// Device is an audio input source. Open acquires the device exclusively and
// returns the chunk stream; acquisition failures should be reported as-is and
// are wrapped as device-unavailable by the Engine.
type Device interface {
	Open(ctx context.Context) (ChunkReader, error)
}

// Engine pulls chunks from a Device on a background goroutine and accumulates
// them in production order. Pausing suspends the pull loop without discarding
// anything; stopping releases the device and freezes the accumulated chunks.
type Engine struct {
	mu     sync.Mutex
	cond   *sync.Cond
	state  EngineState
	device Device
	reader ChunkReader
	chunks [][]byte
	sink   func(chunk []byte)
	done   chan struct{}
	rerr   error
}

// NewEngine returns an idle engine bound to the given device. sink, when
// non-nil, observes every chunk as it is appended.
func NewEngine(device Device, sink func(chunk []byte)) *Engine {
	e := &Engine{state: EngineIdle, device: device, sink: sink}
	e.cond = sync.NewCond(&e.mu)
	return e
}

// State reports the current phase.
func (e *Engine) State() EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Start acquires the device and begins pulling chunks. Only legal while idle.
// Acquisition failures leave the engine idle.
func (e *Engine) Start(ctx context.Context) error {
	e.mu.Lock()
	if e.state != EngineIdle {
		e.mu.Unlock()
		return Wrap(ErrInvalidState, "engine", "start", "capture already started", nil)
	}
	e.mu.Unlock()

	reader, err := e.device.Open(ctx)
	if err != nil {
		return Wrap(ErrDeviceUnavailable, "engine", "start", "open audio device", err)
	}

	e.mu.Lock()
	e.reader = reader
	e.state = EngineCapturing
	e.done = make(chan struct{})
	go e.pull(reader, e.done)
	e.mu.Unlock()
	return nil
}

// Pause suspends chunk production. Pausing an already paused engine is a
// no-op; pausing before start or after stop is invalid.
func (e *Engine) Pause() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case EnginePaused:
		return nil
	case EngineCapturing:
		e.state = EnginePaused
		return nil
	default:
		return Wrap(ErrInvalidState, "engine", "pause", "capture is not active", nil)
	}
}

// Resume continues chunk production after a pause. Resuming a capturing
// engine is a no-op.
func (e *Engine) Resume() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case EngineCapturing:
		return nil
	case EnginePaused:
		e.state = EngineCapturing
		e.cond.Broadcast()
		return nil
	default:
		return Wrap(ErrInvalidState, "engine", "resume", "capture is not active", nil)
	}
}

// Stop releases the device and returns the captured audio as the
// concatenation of all chunks in production order. Zero chunks yield a nil
// artifact. Stopping twice is invalid.
func (e *Engine) Stop() ([]byte, error) {
	e.mu.Lock()
	if e.state != EngineCapturing && e.state != EnginePaused {
		e.mu.Unlock()
		return nil, Wrap(ErrInvalidState, "engine", "stop", "capture is not active", nil)
	}
	e.state = EngineStopped
	reader := e.reader
	done := e.done
	e.cond.Broadcast()
	e.mu.Unlock()

	if reader != nil {
		_ = reader.Close()
	}
	if done != nil {
		<-done
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	var artifact []byte
	if len(e.chunks) > 0 {
		artifact = bytes.Join(e.chunks, nil)
	}
	if e.rerr != nil {
		return artifact, Wrap(ErrDeviceUnavailable, "engine", "stop", "audio device lost during capture", e.rerr)
	}
	return artifact, nil
}

// Chunks returns a snapshot of the accumulated chunks in production order.
func (e *Engine) Chunks() [][]byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]byte, len(e.chunks))
	copy(out, e.chunks)
	return out
}

func (e *Engine) pull(reader ChunkReader, done chan struct{}) {
	defer close(done)
	for {
		if !e.waitUntilCapturing() {
			return
		}
		chunk, err := reader.ReadChunk()
		if len(chunk) > 0 {
			e.ingest(chunk)
		}
		if err != nil {
			e.mu.Lock()
			// Close failures during an intentional stop are not device loss.
			if e.state != EngineStopped && !errors.Is(err, io.EOF) {
				e.rerr = err
			}
			e.mu.Unlock()
			return
		}
	}
}

// waitUntilCapturing blocks while the engine is paused and reports whether
// another read should happen.
func (e *Engine) waitUntilCapturing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for e.state == EnginePaused {
		e.cond.Wait()
	}
	return e.state == EngineCapturing
}

func (e *Engine) ingest(chunk []byte) {
	buf := make([]byte, len(chunk))
	copy(buf, chunk)
	e.mu.Lock()
	if e.state == EngineStopped {
		e.mu.Unlock()
		return
	}
	e.chunks = append(e.chunks, buf)
	sink := e.sink
	e.mu.Unlock()
	if sink != nil {
		sink(buf)
	}
}
