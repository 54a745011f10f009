package response

import (
	"booking-core/internal/usecase/commands"
	"booking-core/internal/usecase/queries"
)

type ReservationResponse struct {
	*queries.ReservationView
	Replayed bool `json:"replayed,omitempty"`
}

func FromReservationView(v *queries.ReservationView) *ReservationResponse {
	return &ReservationResponse{ReservationView: v}
}

func FromCreateResult(r *commands.CreateReservationResult) *ReservationResponse {
	return &ReservationResponse{ReservationView: r.Reservation, Replayed: r.IsReplayed}
}

type AvailabilityResponse struct {
	PropertyID string                     `json:"property_id"`
	RoomTypeID string                     `json:"room_type_id"`
	CheckIn    string                     `json:"check_in"`
	CheckOut   string                     `json:"check_out"`
	Nights     []queries.InventoryDayView `json:"nights"`
}

type SweepResponse struct {
	Checked int `json:"checked"`
	Expired int `json:"expired"`
	Failed  int `json:"failed"`
}

func FromSweepResult(r commands.SweepResult) SweepResponse {
	return SweepResponse{Checked: r.Checked, Expired: r.Expired, Failed: r.Failed}
}
