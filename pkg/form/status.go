package form

// Status is the validity status of a control.
type Status string

const (
	StatusValid   Status = "VALID"
	StatusInvalid Status = "INVALID"
	StatusPending Status = "PENDING"
)

// Settled reports whether the status is final, i.e. anything but PENDING.
func (s Status) Settled() bool {
	return s != StatusPending
}

func (s Status) String() string {
	return string(s)
}
