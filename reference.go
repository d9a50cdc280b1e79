/*
	Two-pass reference resolution (spec.md §4.5, §4.9): SREF/AREF
	elements are parsed with only a structure name in hand, since the
	named target may not have been defined yet at that point in the
	stream; once the whole stream has been read, every reference is
	resolved against the now-complete set of structures.  Generalizes
	the teacher's document.go FieldRef/DocRef indirection -- a
	reference that starts as a bare identifier and is later bound to
	a concrete Doc -- to structure references bound to a concrete
	*Structure.
*/
package gdsii

// resolveReferences binds every Reference.Structure in lib to its
// named target.  A name with no matching structure is a fatal parse
// error (spec.md §4.9 "a reference whose target name is never
// defined anywhere in the library").
func resolveReferences(lib *Library) error {
	for _, s := range lib.Structures {
		for i := range s.References {
			r := &s.References[i]
			target, ok := lib.ByName(r.StructureName)
			if !ok {
				return errUnresolvedReference(r.StructureName).In(s.Name)
			}
			r.Structure = target
		}
	}
	return nil
}
