package archive

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Kind identifies what an archived artifact is.
type Kind string

const (
	KindLessonPlan     Kind = "plano_aula"
	KindWeeklySchedule Kind = "planejamento_semanal"
)

var (
	// ErrInvalidConfig is returned when a driver is missing a required option.
	ErrInvalidConfig = errors.New("archive: invalid configuration")
	// ErrInvalidStoreType is returned for an unknown driver name.
	ErrInvalidStoreType = errors.New("archive: invalid store type")
)

// Record is one generated artifact.
type Record struct {
	ID        string          `json:"id"`
	SessionID string          `json:"session_id"`
	Kind      Kind            `json:"kind"`
	Content   string          `json:"content"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// Archive keeps generated artifacts beyond the lifetime of the in-memory
// session so that a later PDF request can still find them.
type Archive interface {
	// Save stores rec, filling ID and CreatedAt when empty.
	Save(ctx context.Context, rec *Record) error

	// Latest returns the newest record of kind for the session.
	// Returns nil if there is none (not an error).
	Latest(ctx context.Context, sessionID string, kind Kind) (*Record, error)

	Close() error
}
