package interviews

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fieldnote/internal/artifacts"
	"fieldnote/internal/logging"
	"fieldnote/internal/store"
)

// ErrDeleteFailed marks a failed cascade delete.
var ErrDeleteFailed = errors.New("delete failed")

// DeleteError carries the entity kind alongside the underlying storage error
// so callers can rebuild the user-facing message verbatim.
type DeleteError struct {
	Kind Kind
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s: %v", e.Kind, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

func (e *DeleteError) Is(target error) bool { return target == ErrDeleteFailed }

// Kind names a deletable entity.
type Kind string

const (
	KindProject   Kind = "project"
	KindPersona   Kind = "persona"
	KindExercise  Kind = "exercise"
	KindInterview Kind = "interview"
)

// ParseKind maps a route segment to a Kind.
func ParseKind(value string) (Kind, bool) {
	switch Kind(value) {
	case KindProject, KindPersona, KindExercise, KindInterview:
		return Kind(value), true
	}
	return "", false
}

// Deleter removes an entity and everything beneath it. Row deletion rides on
// the store's ON DELETE CASCADE rules so the database never holds a partial
// subtree; artifact files are removed afterwards, best-effort.
type Deleter struct {
	store     *store.Store
	artifacts *artifacts.Store
	logger    *slog.Logger
}

// NewDeleter wires the cascade coordinator to its backends.
func NewDeleter(st *store.Store, art *artifacts.Store, logger *slog.Logger) *Deleter {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Deleter{
		store:     st,
		artifacts: art,
		logger:    logging.NewComponentLogger(logger, "cascade"),
	}
}

// Delete removes the identified entity and its descendants. Deleting a
// missing id fails; there is no soft delete, so a repeated delete reports
// the same failure every time.
func (d *Deleter) Delete(ctx context.Context, kind Kind, id string) error {
	var (
		refs []string
		err  error
	)
	switch kind {
	case KindProject:
		refs, err = d.store.DeleteProject(ctx, id)
	case KindPersona:
		refs, err = d.store.DeletePersona(ctx, id)
	case KindExercise:
		refs, err = d.store.DeleteExercise(ctx, id)
	case KindInterview:
		refs, err = d.store.DeleteInterview(ctx, id)
	default:
		return &DeleteError{Kind: kind, Err: fmt.Errorf("unknown entity kind %q", kind)}
	}
	if err != nil {
		return &DeleteError{Kind: kind, Err: err}
	}

	if rmErr := d.artifacts.RemoveAll(refs); rmErr != nil {
		// Rows are already gone; a leftover file is a cleanup problem,
		// not a failed delete.
		d.logger.Warn("audio cleanup incomplete",
			logging.String(logging.FieldEntity, string(kind)),
			logging.String(logging.FieldEntityID, id),
			logging.Error(rmErr))
	}

	d.logger.Info("entity deleted",
		logging.String(logging.FieldEntity, string(kind)),
		logging.String(logging.FieldEntityID, id),
		logging.Int("audio_files", len(refs)))
	return nil
}
