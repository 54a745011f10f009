package shared

import "time"

// Metrics is the booking-side instrumentation surface.
type Metrics interface {
	BookingCreated(channel, status string)
	BookingRejected(reason string)
	ReservationTransition(to string)
	OptionsExpired(n int)
	SweepCompleted(elapsed time.Duration, failed int)
}

type NopMetrics struct{}

func (NopMetrics) BookingCreated(string, string)     {}
func (NopMetrics) BookingRejected(string)            {}
func (NopMetrics) ReservationTransition(string)      {}
func (NopMetrics) OptionsExpired(int)                {}
func (NopMetrics) SweepCompleted(time.Duration, int) {}
