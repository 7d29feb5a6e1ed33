package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidWeekday = errors.New("invalid weekday")
	ErrAlreadyLoaded  = errors.New("manager already loaded")
	ErrNotLoaded      = errors.New("manager not loaded")
)

type InvalidNameError struct {
	Value  string
	Reason string
}

func (e InvalidNameError) Error() string {
	return fmt.Sprintf("invalid name %q: %s", e.Value, e.Reason)
}

type InvalidCitizenshipError struct {
	Value  string
	Reason string
}

func (e InvalidCitizenshipError) Error() string {
	return fmt.Sprintf("invalid citizenship %q: %s", e.Value, e.Reason)
}

type NoSeatsAvailableError struct {
	FlightCode string
}

func (e NoSeatsAvailableError) Error() string {
	return fmt.Sprintf("no seats available on flight %s", e.FlightCode)
}

type NotFoundError struct {
	Resource string
	Key      string
}

func (e NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.Key)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsNoSeats(err error) bool {
	var target NoSeatsAvailableError
	return errors.As(err, &target)
}

// IsValidation reports whether err carries a name or citizenship failure.
func IsValidation(err error) bool {
	var name InvalidNameError
	var citizenship InvalidCitizenshipError
	return errors.As(err, &name) || errors.As(err, &citizenship)
}
