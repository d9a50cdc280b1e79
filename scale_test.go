package gdsii

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScaleRoundTrip(t *testing.T) {
	s := Micrometer()
	n, err := s.Encode(1234.5)
	require.NoError(t, err)
	assert.InDelta(t, 1234.5, s.Decode(n), 1.0, "sub-unit remainder is lost, not the whole value")
}

func TestScaleOverflow(t *testing.T) {
	s := AnonymousScale(1e-15)
	_, err := s.Encode(1e9)
	assert.Error(t, err)
}

func TestSnapScale(t *testing.T) {
	assert.Equal(t, Micrometer(), snapScale(1e-6))
	assert.Equal(t, Nanometer(), snapScale(1e-9))
	assert.Equal(t, Picometer(), snapScale(1e-12))

	anon := snapScale(2.4e-9 / 1000) // not one of the three named scales
	assert.Equal(t, AnonymousScale(2.4e-12), anon)
}

func TestUnitsRecordScenario(t *testing.T) {
	// spec.md §8 scenario: a library declares a 2.4um database unit
	// with a 1um user unit; UNITS values should recover both.
	dbs := AnonymousScale(2.4e-6)
	userUnitMeters := 1e-6

	vals := unitsPayload(dbs, userUnitMeters)
	require.Len(t, vals, 2)

	gotDBS, gotUserUnit := parseUnits(vals)
	assert.InDelta(t, dbs.MetersPerUnit, gotDBS.MetersPerUnit, 1e-15)
	assert.InDelta(t, userUnitMeters, gotUserUnit, 1e-15)
}
