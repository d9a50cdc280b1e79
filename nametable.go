/*
	Structure-name bookkeeping, generalizing the teacher's catalog.go
	Catalog (a name-keyed registry guarding Put against a name already
	present) to the case-insensitive collision rule spec.md §3 states
	for GDSII structure names.  Spec.md §7 lists both an oversized name
	and a case-insensitive name collision as warnings, not fatal
	errors, so this table reports collisions rather than rejecting
	them, and name legality is a separate warn-only check.  The
	sync.RWMutex catalog.go wraps every access in is dropped: spec.md
	§5 scopes one Read or Write call to one goroutine, so there is
	nothing to guard.
*/
package gdsii

import "strings"

// checkName warns about a structure name that violates spec.md §3's
// character set or length rule, without blocking the read or write
// that is using it (spec.md §7 "oversized structure name" is a
// warning).
func checkName(logger Logger, name string) {
	if len(name) > maxNameLength {
		logger.Warn("structure name exceeds length limit", "name", name, "length", len(name), "limit", maxNameLength)
	}
	for i := 0; i < len(name); i++ {
		if !isNameChar(name[i]) {
			logger.Warn("structure name contains an illegal character", "name", name, "char", string(name[i]))
			return
		}
	}
}

// checkLayerDatatype warns about a layer or datatype outside [0, 63]
// (spec.md §3, §7), without refusing to encode or decode it.
func checkLayerDatatype(logger Logger, layer, datatype int16) {
	if layer < 0 || layer > 63 {
		logger.Warn("layer out of range", "layer", layer)
	}
	if datatype < 0 || datatype > 63 {
		logger.Warn("datatype out of range", "datatype", datatype)
	}
}

// checkColRow warns about an AREF column or row count outside
// [0, 32767] (spec.md §3, §7).
func checkColRow(logger Logger, cols, rows int) {
	if cols < 0 || cols > 32767 {
		logger.Warn("aref column count out of range", "cols", cols)
	}
	if rows < 0 || rows > 32767 {
		logger.Warn("aref row count out of range", "rows", rows)
	}
}

// normalizedName is the case-insensitive key structure names collide
// under (spec.md §3, §7).
func normalizedName(name string) string {
	return strings.ToLower(name)
}

// nameTable tracks structure names seen so far and flags
// case-insensitive collisions (spec.md §4.4, §4.5, §4.9).
type nameTable struct {
	seen map[string]string // lowercased name -> original name
}

func newNameTable() *nameTable {
	return &nameTable{seen: make(map[string]string)}
}

// add registers name, returning the already-registered name it
// collides with (case-insensitively) if any.
func (t *nameTable) add(name string) (collidesWith string, ok bool) {
	key := normalizedName(name)
	if existing, dup := t.seen[key]; dup {
		return existing, true
	}
	t.seen[key] = name
	return "", false
}
