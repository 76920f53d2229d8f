// Package profile loads named filter profiles written in CUE.
//
// A profile is a reusable filter configuration kept in a file, for teams
// who share non-trivial filters instead of retyping flag strings:
//
//	all:   false
//	path:  ["text/template"]
//	not:   ["vendor"]
//	depth: 2
//
// The file is unified with the embedded #Profile schema, so unknown fields
// and out-of-range limits fail with positioned errors. A valid profile
// lowers to the same query.Spec the flag language produces; CLI flags may
// then refine it per field.
package profile
