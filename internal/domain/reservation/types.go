package reservation

type Status string

const (
	StatusOption        Status = "option"
	StatusPending       Status = "pending"
	StatusConfirmed     Status = "confirmed"
	StatusCheckedIn     Status = "checked_in"
	StatusCheckedOut    Status = "checked_out"
	StatusCancelled     Status = "cancelled"
	StatusNoShow        Status = "no_show"
	StatusOptionExpired Status = "option_expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusOption, StatusPending, StatusConfirmed, StatusCheckedIn,
		StatusCheckedOut, StatusCancelled, StatusNoShow, StatusOptionExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusCheckedOut, StatusCancelled, StatusNoShow, StatusOptionExpired:
		return true
	default:
		return false
	}
}

// HoldsInventory reports whether a reservation in this state has rooms debited.
func (s Status) HoldsInventory() bool {
	switch s {
	case StatusOption, StatusPending, StatusConfirmed, StatusCheckedIn:
		return true
	default:
		return false
	}
}

type Channel string

const (
	ChannelDirect Channel = "direct"
	ChannelPhone  Channel = "phone"
	ChannelOTA    Channel = "ota"
	ChannelAgency Channel = "agency"
	ChannelGDS    Channel = "gds"
)

func (c Channel) IsValid() bool {
	switch c {
	case ChannelDirect, ChannelPhone, ChannelOTA, ChannelAgency, ChannelGDS:
		return true
	default:
		return false
	}
}

// Intent is the state a new reservation is created in.
type Intent string

const (
	IntentOption    Intent = "option"
	IntentPending   Intent = "pending"
	IntentConfirmed Intent = "confirmed"
)

func (i Intent) Status() Status {
	switch i {
	case IntentOption:
		return StatusOption
	case IntentPending:
		return StatusPending
	default:
		return StatusConfirmed
	}
}

func (i Intent) IsValid() bool {
	switch i {
	case IntentOption, IntentPending, IntentConfirmed:
		return true
	default:
		return false
	}
}

type CommissionStatus string

const (
	CommissionPending  CommissionStatus = "PENDING"
	CommissionInvoiced CommissionStatus = "INVOICED"
	CommissionPaid     CommissionStatus = "PAID"
)

func (s CommissionStatus) IsValid() bool {
	switch s {
	case CommissionPending, CommissionInvoiced, CommissionPaid:
		return true
	default:
		return false
	}
}
