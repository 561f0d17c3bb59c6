package store

import (
	"log/slog"
	"math/rand/v2"

	"github.com/c4-modeller/engine/internal/diagram"
	"github.com/c4-modeller/engine/internal/registry"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for mutation and import logs.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// WithComplexityThreshold sets the visible-element count above which
// validation reports an info warning. n <= 0 keeps the default.
func WithComplexityThreshold(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithIDGenerator replaces diagram.NewID. The store still rejects ids it has
// already seen, so a generator that repeats itself is retried.
func WithIDGenerator(gen func(prefix string) string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithPositionGenerator sets the position given to entities added without one.
func WithPositionGenerator(gen func() diagram.Position) Option {
	return func(s *Store) {
		if gen != nil {
			s.newPosition = gen
		}
	}
}

// WithRegistry sets the entity handler registry (registry.Default otherwise).
func WithRegistry(r *registry.Registry) Option {
	return func(s *Store) {
		if r != nil {
			s.reg = r
		}
	}
}

// randomPosition returns a point in [100,500) x [100,400).
func randomPosition() diagram.Position {
	return diagram.Position{
		X: 100 + rand.Float64()*400,
		Y: 100 + rand.Float64()*300,
	}
}
