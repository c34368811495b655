package availability

import (
	"errors"
	"fmt"
)

var (
	ErrDoctorNotFound = errors.New("doctor not found")
	ErrSlotNotFound   = errors.New("slot not found")
)

type FetchKind int

const (
	// FetchNotFound: the remote system answered, but not with a snapshot.
	FetchNotFound FetchKind = iota + 1
	// FetchUnreachable: no usable answer (network, timeout, bad payload).
	FetchUnreachable
)

func (k FetchKind) String() string {
	switch k {
	case FetchNotFound:
		return "not_found"
	case FetchUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// FetchError reports that a doctor's remote availability could not be read.
// Both kinds mean the doctor is skipped for the cycle.
type FetchError struct {
	Kind       FetchKind
	DoctorID   uint
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote availability for doctor %d: %s (status %d)", e.DoctorID, e.Kind, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("remote availability for doctor %d: %s: %v", e.DoctorID, e.Kind, e.Err)
	}
	return fmt.Sprintf("remote availability for doctor %d: %s", e.DoctorID, e.Kind)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// AsFetchError is a shorthand for errors.As on *FetchError.
func AsFetchError(err error) (*FetchError, bool) {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}
