package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func decode(t testing.TB, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestParseGuest_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		reason string
		kind   RejectionKind
	}{
		{"string", "hi", "not a record", KindStructural},
		{"number", 17.0, "not a record", KindStructural},
		{"array", []any{}, "not a record", KindStructural},
		{"nil", nil, "not a record", KindStructural},
		{"missing name", map[string]any{}, "missing or invalid 'name' parameter", KindStructural},
		{"numeric name", map[string]any{"name": 7.0}, "missing or invalid 'name' parameter", KindStructural},
		{"missing side", map[string]any{"name": "Brady"}, "missing or invalid 'side' parameter", KindStructural},
		{"unknown side", map[string]any{"name": "Brady", "side": "Bride"}, "missing or invalid 'side' parameter", KindStructural},
		{"lowercase side", map[string]any{"name": "Brady", "side": "molly"}, "missing or invalid 'side' parameter", KindStructural},
		{"missing family", map[string]any{"name": "Brady", "side": "James"}, "missing or invalid 'family' parameter", KindStructural},
		{"string family", map[string]any{"name": "Brady", "side": "James", "family": "yes"}, "missing or invalid 'family' parameter", KindStructural},
		{
			"numeric diet",
			map[string]any{"name": "Brady", "side": "James", "family": false, "diet": 3.0},
			"missing or invalid 'diet' parameter", KindStructural,
		},
		{
			"null diet",
			map[string]any{"name": "Brady", "side": "James", "family": false, "diet": nil},
			"missing or invalid 'diet' parameter", KindStructural,
		},
		{
			"string plusOne",
			map[string]any{"name": "Brady", "side": "James", "family": false, "plusOne": "true"},
			"missing or invalid 'plusOne' parameter", KindStructural,
		},
		{
			"numeric plusOneName",
			map[string]any{"name": "Brady", "side": "James", "family": false, "plusOne": true, "plusOneName": 1.0},
			"missing or invalid 'plusOneName' parameter", KindStructural,
		},
		{
			"plusOne without name",
			map[string]any{"name": "Brady", "side": "James", "family": false, "plusOne": true},
			"missing or invalid 'plusOneName' parameter", KindInvariant,
		},
		{
			"name without plusOne",
			map[string]any{"name": "Brady", "side": "James", "family": false, "plusOneName": "Ann"},
			"missing or invalid 'plusOneName' parameter", KindInvariant,
		},
		{
			"name with declined plusOne",
			map[string]any{"name": "Brady", "side": "James", "family": false, "plusOne": false, "plusOneName": "Ann"},
			"missing or invalid 'plusOneName' parameter", KindInvariant,
		},
		{
			"plusOneDiet without plusOne",
			map[string]any{"name": "Brady", "side": "James", "family": false, "plusOneDiet": "vegan"},
			"missing or invalid 'plusOneDiet' parameter", KindInvariant,
		},
		{
			"plusOneDiet with declined plusOne",
			map[string]any{"name": "Brady", "side": "James", "family": false, "plusOne": false, "plusOneDiet": "vegan"},
			"missing or invalid 'plusOneDiet' parameter", KindInvariant,
		},
		{
			"numeric plusOneDiet",
			map[string]any{"name": "Brady", "side": "James", "family": false, "plusOne": true, "plusOneName": "Ann", "plusOneDiet": 2.0},
			"missing or invalid 'plusOneDiet' parameter", KindStructural,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGuest(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.reason, err.Error())
			assert.ErrorIs(t, err, ErrInvalidGuest)

			var rejected *RejectedError
			require.True(t, errors.As(err, &rejected))
			assert.Equal(t, tt.kind, rejected.Kind)
		})
	}
}

func TestParseGuest_FirstFailingCheckWins(t *testing.T) {
	_, err := ParseGuest(map[string]any{"name": 1.0, "side": "nobody", "family": "no"})
	require.Error(t, err)
	assert.Equal(t, "missing or invalid 'name' parameter", err.Error())
}

func TestParseGuest_Accepts(t *testing.T) {
	t.Run("minimal", func(t *testing.T) {
		g, err := ParseGuest(decode(t, `{"name":"Brady","side":"James","family":false}`))
		require.NoError(t, err)
		assert.True(t, g.Equal(Guest{Name: "Brady", Side: SideJames}))
		assert.Nil(t, g.Diet)
		assert.Nil(t, g.PlusOne)
		assert.Nil(t, g.PlusOneName)
		assert.Nil(t, g.PlusOneDiet)
	})

	t.Run("declined plus one", func(t *testing.T) {
		g, err := ParseGuest(decode(t, `{"name":"Sam","side":"Molly","family":true,"diet":"none","plusOne":false}`))
		require.NoError(t, err)
		assert.Equal(t, PlusOneNo, g.PlusOneStatus())
		assert.Equal(t, "none", *g.Diet)
	})

	t.Run("companion diet not yet specified", func(t *testing.T) {
		g, err := ParseGuest(decode(t, `{"name":"Alice","side":"James","family":true,"plusOne":true,"plusOneName":"Cheshire Cat"}`))
		require.NoError(t, err)
		assert.Equal(t, PlusOneYes, g.PlusOneStatus())
		assert.Equal(t, "Cheshire Cat", *g.PlusOneName)
		assert.Nil(t, g.PlusOneDiet)
	})

	t.Run("full", func(t *testing.T) {
		g, err := ParseGuest(decode(t, `{"name":"Meemaw","side":"Molly","family":true,"diet":"gluten free",
			"plusOne":true,"plusOneName":"Peepaw","plusOneDiet":"no pickles please"}`))
		require.NoError(t, err)
		assert.True(t, g.Equal(Guest{
			Name:        "Meemaw",
			Side:        SideMolly,
			Family:      true,
			Diet:        String("gluten free"),
			PlusOne:     Bool(true),
			PlusOneName: String("Peepaw"),
			PlusOneDiet: String("no pickles please"),
		}))
	})

	t.Run("empty companion name is still a name", func(t *testing.T) {
		_, err := ParseGuest(decode(t, `{"name":"x","side":"Molly","family":false,"plusOne":true,"plusOneName":""}`))
		require.NoError(t, err)
	})
}

func TestParseNewGuest(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		reason string
	}{
		{"empty", map[string]any{}, "missing 'name' parameter"},
		{"numeric name", map[string]any{"name": 5.0}, "missing 'name' parameter"},
		{"missing side", map[string]any{"name": "Brady"}, "missing 'side' parameter"},
		{"numeric side", map[string]any{"name": "Bradley", "side": 9.0}, "missing 'side' parameter"},
		{
			"unexpected side",
			map[string]any{"name": "Bradley", "side": "Bride"},
			"side parameter was not expected value. side: 'Bride'. expected: 'Molly' | 'James'.",
		},
		{"missing family", map[string]any{"name": "Brady", "side": "James"}, "missing 'family' parameter"},
		{"not a record", "Brady", "not a record"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNewGuest(tt.input)
			require.Error(t, err)
			assert.Equal(t, tt.reason, err.Error())
			assert.ErrorIs(t, err, ErrInvalidGuest)
		})
	}

	t.Run("ignores rsvp details", func(t *testing.T) {
		g, err := ParseNewGuest(map[string]any{
			"name": "Brady", "side": "James", "family": false,
			"plusOne": true, "diet": 4.0,
		})
		require.NoError(t, err)
		assert.True(t, g.Equal(Guest{Name: "Brady", Side: SideJames}))
	})
}

func TestParseGuestCollection(t *testing.T) {
	guests, err := ParseGuestCollection(nil)
	require.NoError(t, err)
	assert.Empty(t, guests)

	guests, err = ParseGuestCollection([]any{
		map[string]any{"name": "Brady", "side": "James", "family": false},
		map[string]any{"name": "Katie", "side": "Molly", "family": true},
	})
	require.NoError(t, err)
	require.Len(t, guests, 2)
	assert.Equal(t, "Brady", guests[0].Name)
	assert.Equal(t, "Katie", guests[1].Name)

	_, err = ParseGuestCollection([]any{
		map[string]any{"name": "Brady", "side": "James", "family": false},
		map[string]any{"name": "Katie", "side": "Bride", "family": true},
		"not even close",
	})
	require.Error(t, err)
	assert.Equal(t, "guest 1: missing or invalid 'side' parameter", err.Error())
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "side", rejected.Field)
}

func guestGen() *rapid.Generator[Guest] {
	optString := func(t *rapid.T, label string) *string {
		if rapid.Bool().Draw(t, label+"Set") {
			return String(rapid.String().Draw(t, label))
		}
		return nil
	}
	return rapid.Custom(func(t *rapid.T) Guest {
		g := Guest{
			Name:   rapid.String().Draw(t, "name"),
			Side:   rapid.SampledFrom(Sides).Draw(t, "side"),
			Family: rapid.Bool().Draw(t, "family"),
			Diet:   optString(t, "diet"),
		}
		switch rapid.IntRange(0, 2).Draw(t, "plusOne") {
		case 1:
			g.PlusOne = Bool(false)
		case 2:
			g.PlusOne = Bool(true)
			g.PlusOneName = String(rapid.String().Draw(t, "plusOneName"))
			g.PlusOneDiet = optString(t, "plusOneDiet")
		}
		return g
	})
}

func TestParseGuest_RoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		g := guestGen().Draw(t, "guest")
		if err := g.Validate(); err != nil {
			t.Fatalf("generated guest breaks invariant: %v", err)
		}

		data, err := json.Marshal(g)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var raw any
		if err := json.Unmarshal(data, &raw); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}

		parsed, err := ParseGuest(raw)
		if err != nil {
			t.Fatalf("parse %s: %v", data, err)
		}
		if !parsed.Equal(g) {
			t.Fatalf("round trip mismatch: %+v != %+v", parsed, g)
		}
	})
}
