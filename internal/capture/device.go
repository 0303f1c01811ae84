package capture

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"
)

// CommandDevice captures audio by spawning an external recorder process and
// chunking its stdout. The default command records raw mono PCM with arecord;
// name selects the ALSA device when non-empty.
type CommandDevice struct {
	Name      string
	Command   string
	Args      []string
	ChunkSize int
}

// NewCommandDevice builds a device for the given ALSA device name using the
// default arecord invocation.
func NewCommandDevice(name string) *CommandDevice {
	return &CommandDevice{Name: name}
}

// Open starts the recorder process. The process lives until the returned
// reader is closed; ctx only bounds startup.
func (d *CommandDevice) Open(ctx context.Context) (ChunkReader, error) {
	command := d.Command
	args := d.Args
	if command == "" {
		command = "arecord"
		args = []string{"-q", "-f", "S16_LE", "-r", "16000", "-c", "1", "-t", "raw"}
		if d.Name != "" {
			args = append(args, "-D", d.Name)
		}
	}
	if _, err := exec.LookPath(command); err != nil {
		return nil, fmt.Errorf("locate %s: %w", command, err)
	}
	cmd := exec.CommandContext(ctx, command, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("attach %s stdout: %w", command, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start %s: %w", command, err)
	}
	size := d.ChunkSize
	if size <= 0 {
		size = 32 * 1024
	}
	return &processReader{cmd: cmd, stdout: stdout, buf: make([]byte, size)}, nil
}

type processReader struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	buf    []byte
}

func (r *processReader) ReadChunk() ([]byte, error) {
	n, err := r.stdout.Read(r.buf)
	if n > 0 {
		return r.buf[:n], err
	}
	return nil, err
}

func (r *processReader) Close() error {
	_ = r.stdout.Close()
	if r.cmd.Process != nil {
		_ = r.cmd.Process.Kill()
	}
	_ = r.cmd.Wait()
	return nil
}

// ScriptedDevice replays a fixed chunk sequence, optionally pacing the
// replay. It backs the demo recorder and tests.
type ScriptedDevice struct {
	Chunks   [][]byte
	Interval time.Duration
	OpenErr  error
}

// Open returns a reader over the scripted chunks, or the configured error.
func (d *ScriptedDevice) Open(ctx context.Context) (ChunkReader, error) {
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	chunks := make([][]byte, len(d.Chunks))
	copy(chunks, d.Chunks)
	return &scriptedReader{chunks: chunks, interval: d.Interval, closed: make(chan struct{})}, nil
}

type scriptedReader struct {
	mu       sync.Mutex
	chunks   [][]byte
	next     int
	interval time.Duration
	closed   chan struct{}
	once     sync.Once
}

func (r *scriptedReader) ReadChunk() ([]byte, error) {
	if r.interval > 0 {
		select {
		case <-r.closed:
			return nil, io.EOF
		case <-time.After(r.interval):
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	select {
	case <-r.closed:
		return nil, io.EOF
	default:
	}
	if r.next >= len(r.chunks) {
		// Exhausted scripts behave like a silent microphone: block until
		// the session stops and closes the reader.
		r.mu.Unlock()
		<-r.closed
		r.mu.Lock()
		return nil, io.EOF
	}
	chunk := r.chunks[r.next]
	r.next++
	return chunk, nil
}

func (r *scriptedReader) Close() error {
	r.once.Do(func() { close(r.closed) })
	return nil
}
