// Package loginguard throttles repeated failed logins per identity.
//
// An identity is blocked once it has MaxAttempts consecutive failures and the
// most recent one is younger than BlockWindow. A successful login clears the
// record; otherwise the block lapses on its own when the window elapses.
package loginguard

import (
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/foodspot-finder/internal/domain"
)

const (
	DefaultMaxAttempts = 2
	DefaultBlockWindow = 5 * time.Minute
	DefaultRecordTTL   = time.Hour
)

// State is the externally visible status of one identity.
type State int

const (
	StateClear State = iota
	StateWarned
	StateBlocked
)

func (s State) String() string {
	switch s {
	case StateClear:
		return "clear"
	case StateWarned:
		return "warned"
	case StateBlocked:
		return "blocked"
	}
	return "unknown"
}

// Config - guard thresholds. Zero fields are replaced by DefaultConfig values.
type Config struct {
	MaxAttempts int
	BlockWindow time.Duration
	// RecordTTL is how long an idle record survives a Sweep. Values shorter
	// than BlockWindow are raised to BlockWindow.
	RecordTTL time.Duration
}

// DefaultConfig - two failures within five minutes, records kept for an hour
func DefaultConfig() Config {
	return Config{
		MaxAttempts: DefaultMaxAttempts,
		BlockWindow: DefaultBlockWindow,
		RecordTTL:   DefaultRecordTTL,
	}
}

// Option customizes a Guard.
type Option func(*Guard)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

// WithLogger - receives a warning when an identity becomes blocked; defaults to a no-op logger
func WithLogger(logger *zap.Logger) Option {
	return func(g *Guard) { g.logger = logger }
}

// Guard is safe for concurrent use. All state lives behind one mutex and no
// method performs I/O while holding it.
type Guard struct {
	mu      sync.Mutex
	records map[string]domain.LoginAttemptRecord
	cfg     Config
	now     func() time.Time
	logger  *zap.Logger
}

// New creates a Guard with no records.
func New(cfg Config, opts ...Option) *Guard {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.BlockWindow <= 0 {
		cfg.BlockWindow = DefaultBlockWindow
	}
	if cfg.RecordTTL < cfg.BlockWindow {
		cfg.RecordTTL = cfg.BlockWindow
	}

	g := &Guard{
		records: make(map[string]domain.LoginAttemptRecord),
		cfg:     cfg,
		now:     time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config - effective configuration after defaults are applied
func (g *Guard) Config() Config {
	return g.cfg
}

// CheckAllowed reports whether identity may attempt to authenticate. It never
// changes state.
func (g *Guard) CheckAllowed(identity string) bool {
	return g.State(identity) != StateBlocked
}

// State reports the identity's current state. A lapsed record reads as StateClear.
func (g *Guard) State(identity string) State {
	key := normalize(identity)

	g.mu.Lock()
	rec, ok := g.records[key]
	g.mu.Unlock()

	if !ok {
		return StateClear
	}
	return g.classify(rec, g.now())
}

// RecordFailure counts one failed attempt. A failure arriving when the
// previous one is already BlockWindow old starts a fresh count.
func (g *Guard) RecordFailure(identity string) {
	key := normalize(identity)
	now := g.now()

	g.mu.Lock()
	rec := g.records[key]
	if rec.Count > 0 && now.Sub(rec.LastFailure) >= g.cfg.BlockWindow {
		rec.Count = 0
	}
	rec.Count++
	rec.LastFailure = now
	g.records[key] = rec
	g.mu.Unlock()

	if rec.Count >= g.cfg.MaxAttempts {
		g.logger.Warn("login identity blocked",
			zap.String("identity", key),
			zap.Int("failures", rec.Count),
			zap.Duration("window", g.cfg.BlockWindow),
		)
	}
}

// RecordSuccess forgets every previous failure of identity.
func (g *Guard) RecordSuccess(identity string) {
	key := normalize(identity)

	g.mu.Lock()
	delete(g.records, key)
	g.mu.Unlock()
}

// Sweep evicts records whose last failure is older than RecordTTL and
// returns how many were removed.
func (g *Guard) Sweep() int {
	now := g.now()
	removed := 0

	g.mu.Lock()
	for key, rec := range g.records {
		if now.Sub(rec.LastFailure) >= g.cfg.RecordTTL {
			delete(g.records, key)
			removed++
		}
	}
	g.mu.Unlock()

	return removed
}

// Len is the number of identities currently tracked.
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

func (g *Guard) classify(rec domain.LoginAttemptRecord, now time.Time) State {
	if rec.Count == 0 {
		return StateClear
	}
	if now.Sub(rec.LastFailure) >= g.cfg.BlockWindow {
		// lapsed failures no longer count toward a block
		return StateClear
	}
	if rec.Count >= g.cfg.MaxAttempts {
		return StateBlocked
	}
	return StateWarned
}

func normalize(identity string) string {
	return strings.ToLower(strings.TrimSpace(identity))
}
