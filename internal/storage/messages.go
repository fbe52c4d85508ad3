package storage

import "fmt"

// AlreadyEnteredMessage is the operator-facing reason for ErrAlreadyExists on insert
func AlreadyEnteredMessage(name string) string {
	return fmt.Sprintf("guest: '%s' is already entered into the registry", name)
}

// MustExistMessage is the operator-facing reason for ErrNotFound on replace
func MustExistMessage(name string) string {
	return fmt.Sprintf("guest: '%s' must exist in the registry in order to update their information", name)
}

// NoGuestMessage is the operator-facing reason for ErrNotFound on lookup
func NoGuestMessage(name string) string {
	return fmt.Sprintf("no guest with name '%s'", name)
}
