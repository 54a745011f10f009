package reservation

import (
	"booking-core/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock      clock.Clock
	References ReferenceGenerator
}

func NewFactory(clock clock.Clock, references ReferenceGenerator) *Factory {
	if references == nil {
		references = RandomReferenceGenerator{}
	}
	return &Factory{
		Clock:      clock,
		References: references,
	}
}

// Create builds a new reservation in the state named by p.Intent with a fresh
// id and booking reference.
func (f *Factory) Create(p NewParams) (*Reservation, error) {
	now := f.Clock.Now()
	return newReservation(uuid.New(), f.References.Generate(now), now, p)
}
