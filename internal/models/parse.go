package models

import (
	"errors"
	"fmt"
)

// ErrInvalidGuest is matched by every rejection produced by the parsers
var ErrInvalidGuest = errors.New("invalid guest")

// RejectionKind separates type errors from cross-field errors
type RejectionKind int

const (
	KindStructural RejectionKind = iota
	KindInvariant
)

// RejectedError explains why input could not become a Guest.
// Error returns the user-facing reason.
type RejectedError struct {
	Kind   RejectionKind
	Field  string
	Reason string
}

func (e *RejectedError) Error() string {
	return e.Reason
}

func (e *RejectedError) Is(target error) bool {
	return target == ErrInvalidGuest
}

func reject(kind RejectionKind, field, reason string) *RejectedError {
	return &RejectedError{Kind: kind, Field: field, Reason: reason}
}

func invalidParam(kind RejectionKind, field string) *RejectedError {
	return reject(kind, field, fmt.Sprintf("missing or invalid '%s' parameter", field))
}

// ParseGuest validates a fully specified guest, as sent to an update.
// input is expected to be a decoded JSON object. A key holding null counts
// as present with the wrong type.
func ParseGuest(input any) (Guest, error) {
	rec, ok := input.(map[string]any)
	if !ok || rec == nil {
		return Guest{}, reject(KindStructural, "", "not a record")
	}

	name, ok := rec["name"].(string)
	if !ok {
		return Guest{}, invalidParam(KindStructural, "name")
	}

	sideStr, ok := rec["side"].(string)
	side := Side(sideStr)
	if !ok || !side.Valid() {
		return Guest{}, invalidParam(KindStructural, "side")
	}

	family, ok := rec["family"].(bool)
	if !ok {
		return Guest{}, invalidParam(KindStructural, "family")
	}

	diet, ok := optionalString(rec, "diet")
	if !ok {
		return Guest{}, invalidParam(KindStructural, "diet")
	}

	plusOne, ok := optionalBool(rec, "plusOne")
	if !ok {
		return Guest{}, invalidParam(KindStructural, "plusOne")
	}
	confirmed := plusOne != nil && *plusOne

	plusOneName, ok := optionalString(rec, "plusOneName")
	if !ok {
		return Guest{}, invalidParam(KindStructural, "plusOneName")
	}
	if (plusOneName != nil) != confirmed {
		return Guest{}, invalidParam(KindInvariant, "plusOneName")
	}

	plusOneDiet, ok := optionalString(rec, "plusOneDiet")
	if !ok {
		return Guest{}, invalidParam(KindStructural, "plusOneDiet")
	}
	if plusOneDiet != nil && !confirmed {
		return Guest{}, invalidParam(KindInvariant, "plusOneDiet")
	}

	return Guest{
		Name:        name,
		Side:        side,
		Family:      family,
		Diet:        diet,
		PlusOne:     plusOne,
		PlusOneName: plusOneName,
		PlusOneDiet: plusOneDiet,
	}, nil
}

// ParseNewGuest validates the fields accepted when a guest is first saved.
// Only name, side and family are read; everything else starts absent.
func ParseNewGuest(input any) (Guest, error) {
	rec, ok := input.(map[string]any)
	if !ok || rec == nil {
		return Guest{}, reject(KindStructural, "", "not a record")
	}

	name, ok := rec["name"].(string)
	if !ok {
		return Guest{}, reject(KindStructural, "name", "missing 'name' parameter")
	}

	sideStr, ok := rec["side"].(string)
	if !ok {
		return Guest{}, reject(KindStructural, "side", "missing 'side' parameter")
	}
	side := Side(sideStr)
	if !side.Valid() {
		return Guest{}, reject(KindStructural, "side", fmt.Sprintf(
			"side parameter was not expected value. side: '%s'. expected: 'Molly' | 'James'.", sideStr))
	}

	family, ok := rec["family"].(bool)
	if !ok {
		return Guest{}, reject(KindStructural, "family", "missing 'family' parameter")
	}

	return Guest{Name: name, Side: side, Family: family}, nil
}

// ParseGuestCollection parses every element or none. The first failure
// wins and its error names the offending index.
func ParseGuestCollection(inputs []any) ([]Guest, error) {
	guests := make([]Guest, 0, len(inputs))
	for i, in := range inputs {
		g, err := ParseGuest(in)
		if err != nil {
			return nil, fmt.Errorf("guest %d: %w", i, err)
		}
		guests = append(guests, g)
	}
	return guests, nil
}

func optionalString(rec map[string]any, key string) (*string, bool) {
	v, present := rec[key]
	if !present {
		return nil, true
	}
	s, ok := v.(string)
	if !ok {
		return nil, false
	}
	return &s, true
}

func optionalBool(rec map[string]any, key string) (*bool, bool) {
	v, present := rec[key]
	if !present {
		return nil, true
	}
	b, ok := v.(bool)
	if !ok {
		return nil, false
	}
	return &b, true
}
