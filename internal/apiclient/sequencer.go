package apiclient

import "sync/atomic"

// Ticket identifies one request issued through a Sequencer.
type Ticket uint64

// Sequencer fences responses so only the most recently issued request of a
// screen may apply its result. Older responses are dropped.
type Sequencer struct {
	latest atomic.Uint64
}

// Next issues a ticket newer than every ticket before it.
func (s *Sequencer) Next() Ticket {
	return Ticket(s.latest.Add(1))
}

// IsLatest reports whether t is still the newest ticket.
func (s *Sequencer) IsLatest(t Ticket) bool {
	return s.latest.Load() == uint64(t)
}

// Fetch runs fn under a fresh ticket. applied is false when a newer request
// was issued while fn was running; the caller must then discard the value.
func Fetch[T any](s *Sequencer, fn func() (T, error)) (value T, applied bool, err error) {
	t := s.Next()
	value, err = fn()
	if !s.IsLatest(t) {
		var zero T
		return zero, false, nil
	}
	return value, true, err
}
