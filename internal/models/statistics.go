package models

import "encoding/json"

// SideStatistics holds the headcount figures for one side
type SideStatistics struct {
	Confirmed int
	Family    int
	Potential int
}

// Add returns the element-wise sum of both counters
func (s SideStatistics) Add(o SideStatistics) SideStatistics {
	return SideStatistics{
		Confirmed: s.Confirmed + o.Confirmed,
		Family:    s.Family + o.Family,
		Potential: s.Potential + o.Potential,
	}
}

// GuestStatistics is derived from the guest list on every request and never stored
type GuestStatistics struct {
	Molly SideStatistics
	James SideStatistics
}

// ComputeStatistics folds guests into per-side counts.
// A guest counts once toward confirmed and twice with a confirmed
// plus-one. Companions never count toward family. A guest whose plus-one
// is still unknown is a potential extra attendee.
func ComputeStatistics(guests []Guest) GuestStatistics {
	var stats GuestStatistics
	for _, g := range guests {
		s := stats.side(g.Side)
		if s == nil {
			continue
		}
		s.Confirmed++
		if g.HasPlusOne() {
			s.Confirmed++
		}
		if g.Family {
			s.Family++
		}
		if g.PlusOne == nil {
			s.Potential++
		}
	}
	return stats
}

// Add merges two partial results
func (s GuestStatistics) Add(o GuestStatistics) GuestStatistics {
	return GuestStatistics{
		Molly: s.Molly.Add(o.Molly),
		James: s.James.Add(o.James),
	}
}

// For returns the counters of a single side
func (s GuestStatistics) For(side Side) SideStatistics {
	switch side {
	case SideMolly:
		return s.Molly
	case SideJames:
		return s.James
	}
	return SideStatistics{}
}

// Total sums both sides
func (s GuestStatistics) Total() SideStatistics {
	return s.Molly.Add(s.James)
}

func (s *GuestStatistics) side(side Side) *SideStatistics {
	switch side {
	case SideMolly:
		return &s.Molly
	case SideJames:
		return &s.James
	}
	return nil
}

type flatStatistics struct {
	MollyConfirmed int `json:"mollyConfirmed"`
	MollyFam       int `json:"mollyFam"`
	MollyPotential int `json:"mollyPotential"`
	JamesConfirmed int `json:"jamesConfirmed"`
	JamesFam       int `json:"jamesFam"`
	JamesPotential int `json:"jamesPotential"`
}

// MarshalJSON emits the flat shape the list view consumes
func (s GuestStatistics) MarshalJSON() ([]byte, error) {
	return json.Marshal(flatStatistics{
		MollyConfirmed: s.Molly.Confirmed,
		MollyFam:       s.Molly.Family,
		MollyPotential: s.Molly.Potential,
		JamesConfirmed: s.James.Confirmed,
		JamesFam:       s.James.Family,
		JamesPotential: s.James.Potential,
	})
}

func (s *GuestStatistics) UnmarshalJSON(data []byte) error {
	var f flatStatistics
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	s.Molly = SideStatistics{Confirmed: f.MollyConfirmed, Family: f.MollyFam, Potential: f.MollyPotential}
	s.James = SideStatistics{Confirmed: f.JamesConfirmed, Family: f.JamesFam, Potential: f.JamesPotential}
	return nil
}
