// Package artifacts stores captured audio files under the uploads directory.
// Files are named <unix-millis>-<sanitized-name> so listings sort by save
// time and references stay unique without a registry.
package artifacts

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fieldnote/internal/logging"
	"fieldnote/internal/textutil"
)

const fallbackName = "audio.webm"

// ErrInvalidRef marks a reference that does not name a file inside the store.
var ErrInvalidRef = errors.New("invalid artifact reference")

// Store is a flat directory of audio artifacts addressed by filename.
type Store struct {
	dir    string
	logger *slog.Logger
	now    func() time.Time
}

// NewStore opens (creating if needed) the artifact directory.
func NewStore(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create artifact directory: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logging.NewComponentLogger(logger, "artifacts"),
		now:    time.Now,
	}, nil
}

// Dir returns the backing directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save writes data under a time-prefixed name derived from name and returns
// the reference. An unusable name falls back to a generic one.
func (s *Store) Save(name string, data []byte) (string, error) {
	base := textutil.SanitizeFileName(filepath.Base(name))
	if base == "" || base == "." {
		base = fallbackName
	}
	millis := s.now().UnixMilli()
	ref := fmt.Sprintf("%d-%s", millis, base)
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(s.dir, ref)); os.IsNotExist(err) {
			break
		}
		ref = fmt.Sprintf("%d-%d-%s", millis, n, base)
	}

	tmp, err := os.CreateTemp(s.dir, ".artifact-*")
	if err != nil {
		return "", fmt.Errorf("stage artifact: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, ref)); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("place artifact: %w", err)
	}
	s.logger.Debug("artifact saved", logging.String("ref", ref), logging.Int("bytes", len(data)))
	return ref, nil
}

// Path resolves a reference to its absolute path, rejecting anything that
// would escape the store directory.
func (s *Store) Path(ref string) (string, error) {
	if ref == "" || ref != filepath.Base(ref) || strings.HasPrefix(ref, ".") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	return filepath.Join(s.dir, ref), nil
}

// Open returns a reader over the referenced artifact.
func (s *Store) Open(ref string) (io.ReadCloser, error) {
	path, err := s.Path(ref)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

// Remove deletes the referenced artifact. A missing file is not an error so
// cascade cleanup can run best-effort.
func (s *Store) Remove(ref string) error {
	path, err := s.Path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove artifact: %w", err)
	}
	return nil
}

// RemoveAll deletes every referenced artifact, reporting the first error
// after attempting all of them.
func (s *Store) RemoveAll(refs []string) error {
	var firstErr error
	for _, ref := range refs {
		if ref == "" {
			continue
		}
		if err := s.Remove(ref); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
