package httperr

import "errors"

const (
	CodeDoctorNotFound      = "doctor_not_found"
	CodeDoctorAlreadyExists = "doctor_already_exists"
	CodeDoctorUnavailable   = "doctor_unavailable"
	CodeUserNotFound        = "user_not_found"
	CodeUserAlreadyExists   = "user_already_exists"
	CodeSubscriptionExists  = "subscription_already_exists"
	CodeSubscriptionMissing = "subscription_not_found"
	CodeSlotNotFound        = "timeslot_not_found"
)

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// BusinessCode returns the code carried by err, if any.
func BusinessCode(err error) (string, bool) {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
