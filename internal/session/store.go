package session

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultHistoryLimit is the number of messages kept per session.
const DefaultHistoryLimit = 50

// ErrUnknownField is returned by SetCollectedField for keys outside CollectedData.
var ErrUnknownField = errors.New("session: unknown collected field")

type entry struct {
	mu   sync.Mutex
	ctx  Context
	turn sync.Mutex
	// removed is set under mu once the entry has left the map; writers that
	// still hold it must look the session up again.
	removed bool
}

// Store keeps every live session in memory.
//
// The map is guarded by mu; each entry carries its own lock so that work on
// one session never blocks another.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*entry

	historyLimit int
	now          func() time.Time
	log          *zap.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithHistoryLimit overrides DefaultHistoryLimit.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for state-change events.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) { s.log = l.Named("session") }
}

// NewStore returns an empty store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions:     make(map[string]*entry),
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
		log:          zap.NewNop(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Store) entry(id string) *entry {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok := s.sessions[id]; ok {
		return e
	}
	e = &entry{ctx: Context{SessionID: id, LastActivity: s.now()}}
	s.sessions[id] = e
	s.log.Debug("session created", zap.String("session_id", id))
	return e
}

// update runs fn on the live context under the entry lock and refreshes activity.
func (s *Store) update(id string, fn func(c *Context)) Context {
	for {
		e := s.entry(id)
		e.mu.Lock()
		if e.removed {
			e.mu.Unlock()
			continue
		}
		fn(&e.ctx)
		e.ctx.LastActivity = s.now()
		out := e.ctx.clone()
		e.mu.Unlock()
		return out
	}
}

// GetOrCreate returns a snapshot of the session, creating it when absent.
func (s *Store) GetOrCreate(id string) Context {
	return s.update(id, func(*Context) {})
}

// Snapshot returns a copy of the session without creating it or touching its
// activity time.
func (s *Store) Snapshot(id string) (Context, bool) {
	s.mu.RLock()
	e, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return Context{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ctx.clone(), true
}

// History returns a copy of the session's messages, or nil for unknown ids.
func (s *Store) History(id string) []Message {
	c, ok := s.Snapshot(id)
	if !ok {
		return nil
	}
	return c.History
}

// AppendMessage adds m to the history and drops the oldest messages beyond
// the limit.
func (s *Store) AppendMessage(id string, m Message) {
	s.update(id, func(c *Context) {
		if m.Timestamp.IsZero() {
			m.Timestamp = s.now()
		}
		if m.Type == "" {
			m.Type = MessageText
		}
		c.History = append(c.History, m)
		if over := len(c.History) - s.historyLimit; over > 0 {
			c.History = append([]Message(nil), c.History[over:]...)
		}
	})
}

// SetCollectedField stores one field by its wire name.
func (s *Store) SetCollectedField(id, key, value string) error {
	var known bool
	s.update(id, func(c *Context) {
		known = c.Data.Set(key, value)
	})
	if !known {
		return ErrUnknownField
	}
	return nil
}

// MergeLessonSlots applies the non-empty fields of u and returns the result.
func (s *Store) MergeLessonSlots(id string, u LessonPlanSlots) LessonPlanSlots {
	c := s.update(id, func(c *Context) {
		c.Data.Lesson = c.Data.Lesson.Merge(u)
	})
	return c.Data.Lesson
}

// MergeWeeklySlots applies the non-empty fields of u and returns the result.
func (s *Store) MergeWeeklySlots(id string, u WeeklyScheduleSlots) WeeklyScheduleSlots {
	c := s.update(id, func(c *Context) {
		c.Data.Weekly = c.Data.Weekly.Merge(u)
	})
	return c.Data.Weekly
}

// SaveLessonPlan records a generated lesson plan and the data it came from.
func (s *Store) SaveLessonPlan(id, content string, data LessonPlanSlots) {
	s.update(id, func(c *Context) {
		c.Data.Artifacts.LastPlanoContent = content
		c.Data.Artifacts.LastPlanoData = &data
	})
}

// SaveWeeklySchedule records a generated weekly schedule and its data.
func (s *Store) SaveWeeklySchedule(id, content string, data WeeklyScheduleSlots) {
	data = data.clone()
	s.update(id, func(c *Context) {
		c.Data.Artifacts.LastPlanejamentoContent = content
		c.Data.Artifacts.LastPlanejamentoData = &data
	})
}

// UpdateIntent commits intent and confidence together. Switching from one
// task to a different one drops the slots of the task being abandoned;
// artifacts are never touched here.
func (s *Store) UpdateIntent(id string, intent Intent, confidence float64) {
	s.update(id, func(c *Context) {
		prev := c.CurrentIntent
		if prev != intent && prev.IsTask() && intent.IsTask() && c.Data.HasSlots() {
			s.log.Info("progress_lost",
				zap.String("session_id", id),
				zap.String("from", string(prev)),
				zap.String("to", string(intent)),
			)
			switch prev {
			case IntentLessonPlan:
				c.Data.Lesson = LessonPlanSlots{}
			case IntentWeeklySchedule:
				c.Data.Weekly = WeeklyScheduleSlots{}
			}
			c.WaitingFor = ""
			c.LastBotQuestion = ""
		}
		c.CurrentIntent = intent
		c.IntentConfidence = confidence
	})
}

// SetWaitingFor records the field the last bot question asked for.
func (s *Store) SetWaitingFor(id, field, question string) {
	s.update(id, func(c *Context) {
		c.WaitingFor = field
		c.LastBotQuestion = question
	})
}

// ClearWaitingFor forgets the pending question.
func (s *Store) ClearWaitingFor(id string) {
	s.update(id, func(c *Context) {
		c.WaitingFor = ""
	})
}

// ResetKeepingHistory starts a fresh task: intent, slots and the pending
// question are cleared, only the listed artifacts survive, history is kept.
func (s *Store) ResetKeepingHistory(id string, preserve ...ArtifactKey) {
	s.update(id, func(c *Context) {
		c.CurrentIntent = IntentNone
		c.IntentConfidence = 0
		c.Data = CollectedData{Artifacts: c.Data.Artifacts.keep(preserve)}
		c.WaitingFor = ""
		c.LastBotQuestion = ""
	})
	s.log.Debug("session reset", zap.String("session_id", id), zap.Int("preserved", len(preserve)))
}

// Clear removes the session entirely.
func (s *Store) Clear(id string) {
	s.mu.Lock()
	if e, ok := s.sessions[id]; ok {
		e.mu.Lock()
		e.removed = true
		e.mu.Unlock()
		delete(s.sessions, id)
	}
	s.mu.Unlock()
	s.log.Debug("session cleared", zap.String("session_id", id))
}

// SweepInactive deletes sessions idle for longer than threshold and returns
// how many were removed. Sessions in the middle of a turn are left alone.
func (s *Store) SweepInactive(threshold time.Duration) int {
	cutoff := s.now().Add(-threshold)

	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.sessions {
		if !e.turn.TryLock() {
			continue
		}
		e.mu.Lock()
		idle := e.ctx.LastActivity.Before(cutoff)
		if idle {
			e.removed = true
			delete(s.sessions, id)
			removed++
		}
		e.mu.Unlock()
		e.turn.Unlock()
	}
	return removed
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// BeginTurn serializes message processing for one session. The returned
// function ends the turn.
func (s *Store) BeginTurn(id string) func() {
	for {
		e := s.entry(id)
		e.turn.Lock()
		e.mu.Lock()
		gone := e.removed
		e.mu.Unlock()
		if !gone {
			return e.turn.Unlock
		}
		e.turn.Unlock()
	}
}
