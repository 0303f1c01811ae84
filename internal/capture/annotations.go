package capture

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Annotation is a timestamped note captured during a session. Timestamp is the
// clock offset at creation time, not wall-clock time.
type Annotation struct {
	ID        string
	Timestamp time.Duration
	Content   string
}

// AnnotationLog holds session annotations in insertion order. Entries carry
// the clock offset they were created at, which is not required to be
// monotonic: notes added after recording stops share the final duration, and
// notes added before recording starts sit at zero.
type AnnotationLog struct {
	mu      sync.Mutex
	entries []Annotation
	maxLen  int
}

// NewAnnotationLog returns an empty log. maxLen caps the content length in
// bytes after trimming; zero means unlimited.
func NewAnnotationLog(maxLen int) *AnnotationLog {
	return &AnnotationLog{maxLen: maxLen}
}

// Add appends a note stamped at the given offset and returns its generated
// id. Content is trimmed; empty or over-length content is rejected without
// modifying the log.
func (l *AnnotationLog) Add(offset time.Duration, content string) (Annotation, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Annotation{}, Wrap(ErrValidation, "annotations", "add", "content is empty", nil)
	}
	if l.maxLen > 0 && len(content) > l.maxLen {
		return Annotation{}, Wrap(ErrValidation, "annotations", "add", "content exceeds maximum length", nil)
	}
	entry := Annotation{ID: uuid.NewString(), Timestamp: offset, Content: content}
	l.mu.Lock()
	l.entries = append(l.entries, entry)
	l.mu.Unlock()
	return entry, nil
}

// Remove deletes the entry with the given id. Removing an absent id is a
// no-op.
func (l *AnnotationLog) Remove(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, entry := range l.entries {
		if entry.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return
		}
	}
}

// List returns the entries in insertion order.
func (l *AnnotationLog) List() []Annotation {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Annotation, len(l.entries))
	copy(out, l.entries)
	return out
}

// Chronological returns the entries ordered by timestamp. Entries with equal
// timestamps keep their insertion order.
func (l *AnnotationLog) Chronological() []Annotation {
	out := l.List()
	sortAnnotations(out)
	return out
}

// Len reports the number of entries.
func (l *AnnotationLog) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

func sortAnnotations(entries []Annotation) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Timestamp < entries[j].Timestamp
	})
}
