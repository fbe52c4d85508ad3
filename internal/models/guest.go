package models

import "fmt"

// Side identifies which host a guest attends on behalf of
type Side string

const (
	SideMolly Side = "Molly"
	SideJames Side = "James"
)

// Sides lists every valid side in display order
var Sides = []Side{SideMolly, SideJames}

// Valid reports whether s is one of the two hosts
func (s Side) Valid() bool {
	return s == SideMolly || s == SideJames
}

// Guest represents a wedding guest.
//
// Optional fields are nil when absent. PlusOneName is set if and only if
// PlusOne is true, and PlusOneDiet may only be set when PlusOne is true.
type Guest struct {
	Name        string  `json:"name"`
	Side        Side    `json:"side"`
	Family      bool    `json:"family"`
	Diet        *string `json:"diet,omitempty"`
	PlusOne     *bool   `json:"plusOne,omitempty"`
	PlusOneName *string `json:"plusOneName,omitempty"`
	PlusOneDiet *string `json:"plusOneDiet,omitempty"`
}

// PlusOneStatus is the three-state companion status of a guest
type PlusOneStatus int

const (
	PlusOneUnknown PlusOneStatus = iota
	PlusOneNo
	PlusOneYes
)

func (p PlusOneStatus) String() string {
	switch p {
	case PlusOneNo:
		return "no"
	case PlusOneYes:
		return "yes"
	default:
		return "unknown"
	}
}

// PlusOneStatus reports whether the guest's companion is unknown, declined or confirmed
func (g Guest) PlusOneStatus() PlusOneStatus {
	switch {
	case g.PlusOne == nil:
		return PlusOneUnknown
	case *g.PlusOne:
		return PlusOneYes
	default:
		return PlusOneNo
	}
}

// HasPlusOne is true only for a confirmed companion
func (g Guest) HasPlusOne() bool {
	return g.PlusOneStatus() == PlusOneYes
}

// Validate checks the invariant on an already typed guest
func (g Guest) Validate() error {
	if !g.Side.Valid() {
		return reject(KindStructural, "side", fmt.Sprintf("invalid side %q", string(g.Side)))
	}
	if (g.PlusOneName != nil) != g.HasPlusOne() {
		return reject(KindInvariant, "plusOneName", "plusOneName must be set exactly when plusOne is true")
	}
	if g.PlusOneDiet != nil && !g.HasPlusOne() {
		return reject(KindInvariant, "plusOneDiet", "plusOneDiet requires plusOne to be true")
	}
	return nil
}

// Clone returns a deep copy that shares no pointers with g
func (g Guest) Clone() Guest {
	c := g
	c.Diet = cloneString(g.Diet)
	c.PlusOneName = cloneString(g.PlusOneName)
	c.PlusOneDiet = cloneString(g.PlusOneDiet)
	if g.PlusOne != nil {
		v := *g.PlusOne
		c.PlusOne = &v
	}
	return c
}

// Equal compares two guests by value, including optional fields
func (g Guest) Equal(o Guest) bool {
	return g.Name == o.Name &&
		g.Side == o.Side &&
		g.Family == o.Family &&
		equalString(g.Diet, o.Diet) &&
		equalBool(g.PlusOne, o.PlusOne) &&
		equalString(g.PlusOneName, o.PlusOneName) &&
		equalString(g.PlusOneDiet, o.PlusOneDiet)
}

// String returns a pointer to s, for filling optional fields
func String(s string) *string {
	return &s
}

// Bool returns a pointer to b, for filling optional fields
func Bool(b bool) *bool {
	return &b
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func equalString(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalBool(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
