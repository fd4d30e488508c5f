package datagrid

import "log/slog"

// State is the authority for one piece of view state. It is either owned by
// the table or delegated to the caller; which one is fixed at construction.
type State[T any] struct {
	get       func() T
	set       func(T)
	delegated bool
}

// Owned returns table-owned state seeded with initial.
func Owned[T any](initial T) *State[T] {
	value := initial
	return &State[T]{
		get: func() T { return value },
		set: func(v T) { value = v },
	}
}

// Delegated returns state whose every read and write goes to the caller.
func Delegated[T any](get func() T, set func(T)) *State[T] {
	return &State[T]{get: get, set: set, delegated: true}
}

// Get returns the current value.
func (s *State[T]) Get() T {
	return s.get()
}

// Set replaces the current value.
func (s *State[T]) Set(v T) {
	s.set(v)
}

// IsDelegated reports whether the caller owns this state.
func (s *State[T]) IsDelegated() bool {
	return s.delegated
}

// Controlled is a caller-supplied (getter, setter) pair for one concern.
type Controlled[T any] struct {
	Get func() T
	Set func(T)
}

// resolveState picks the authority for a concern. Both halves of the pair must
// be present for delegation; a half-supplied pair is logged and ignored.
func resolveState[T any](logger *slog.Logger, concern string, c *Controlled[T], initial T) *State[T] {
	if c == nil {
		return Owned(initial)
	}
	if c.Get != nil && c.Set != nil {
		logger.Debug("delegating table state to caller", "concern", concern)
		return Delegated(c.Get, c.Set)
	}
	logger.Warn("incomplete controlled state, falling back to table-owned value",
		"concern", concern,
		"has_getter", c.Get != nil,
		"has_setter", c.Set != nil,
	)
	return Owned(initial)
}
