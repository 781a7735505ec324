package shpanreservoir

import "errors"

// ErrInvalidCapacity is returned when a reservoir or coordinator is created with a non-positive capacity.
var ErrInvalidCapacity = errors.New("capacity must be > 0")

// ErrNotEnoughElements is returned when a sample result is requested before the reservoir is full.
// It is recoverable, offer more elements and ask again.
var ErrNotEnoughElements = errors.New("not enough elements to sample")

// ErrPoisoned is reported by a handle whose lock holder panicked mid-mutation.
// The reservoir state behind such a handle can not be trusted anymore.
var ErrPoisoned = errors.New("sampler handle poisoned")
