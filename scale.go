/*
	Database-unit scale arithmetic (spec.md §4.3): conversion between
	physical length quantities and the 32-bit integer grid defined by
	the library's database unit.  Generalizes the teacher's LBUINT --
	a named wrapper around a plain integer with small pure conversion
	helpers (AsLBUINT, plus) -- to a named wrapper around the
	meters-per-database-unit ratio.
*/
package gdsii

import "math"

// Scale is a database unit: the physical length, expressed in
// meters, that one on-disk integer coordinate unit represents.
type Scale struct {
	MetersPerUnit float64
}

func Micrometer() Scale       { return Scale{1e-6} }
func Nanometer() Scale        { return Scale{1e-9} }
func Picometer() Scale        { return Scale{1e-12} }
func AnonymousScale(m float64) Scale { return Scale{m} }

const scaleSnapTolerance = 1e-9

// snapScale rounds a measured meters-per-database-unit ratio to the
// nearest of 1um/1nm/1pm within floating tolerance, else returns an
// anonymous scale carrying the measured value verbatim (spec.md §4.5
// "otherwise construct an anonymous length unit").
func snapScale(metersPerUnit float64) Scale {
	for _, candidate := range []float64{1e-6, 1e-9, 1e-12} {
		if math.Abs(metersPerUnit-candidate) <= scaleSnapTolerance*candidate {
			return Scale{candidate}
		}
	}
	return AnonymousScale(metersPerUnit)
}

// Encode converts a length quantity x, in micrometers (spec.md §4.3
// "a unitless input is treated as micrometers"), to an on-disk int32
// by computing round(x/dbs) and checking it fits in int32.
func (s Scale) Encode(xMicrometers float64) (int32, error) {
	meters := xMicrometers * 1e-6
	n := math.Round(meters / s.MetersPerUnit)
	if n > math.MaxInt32 || n < math.MinInt32 {
		return 0, newEncodeError("scale_overflow",
			"length %g um does not fit a signed 32-bit database-unit count at scale %g m", xMicrometers, s.MetersPerUnit)
	}
	return int32(n), nil
}

// Decode maps an on-disk int32 back to a length quantity in
// micrometers: n * dbs, expressed in the caller's unitless convention.
func (s Scale) Decode(n int32) float64 {
	return float64(n) * (s.MetersPerUnit / 1e-6)
}

// unitsPayload builds the two GDS64 reals written by the UNITS record
// (spec.md §4.4): user-unit-in-db-units = dbs/userunit, and
// db-unit-in-meters = dbs/1m.
func unitsPayload(dbs Scale, userUnitMeters float64) []float64 {
	return []float64{dbs.MetersPerUnit / userUnitMeters, dbs.MetersPerUnit}
}

// parseUnits decodes the UNITS record's two reals into a (possibly
// snapped) database Scale and the user unit, in meters.
func parseUnits(vals []float64) (dbs Scale, userUnitMeters float64) {
	dbs = snapScale(vals[1])
	if vals[0] != 0 {
		userUnitMeters = dbs.MetersPerUnit / vals[0]
	} else {
		userUnitMeters = 1e-6
	}
	return
}
