package profile

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/genprobe/genprobe/internal/query"
)

//go:embed schema.cue
var schemaCUE string

// Load reads, validates, and lowers a profile file to a query.Spec.
func Load(path string) (query.Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return query.Spec{}, &LoadError{
			Code:    ErrCodeNotFound,
			Message: fmt.Sprintf("cannot read profile: %v", err),
		}
	}
	return Compile(data, path)
}

// Compile validates profile source against the embedded #Profile schema
// and lowers it. The filename only labels error positions.
func Compile(data []byte, filename string) (query.Spec, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	def := schema.LookupPath(cue.ParsePath("#Profile"))
	if err := def.Err(); err != nil {
		// The embedded schema is part of the binary; failing to compile
		// it is a build defect, not a user error.
		panic(fmt.Sprintf("profile: embedded schema is invalid: %v", err))
	}

	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return query.Spec{}, &LoadError{
			Code:    ErrCodeParse,
			Message: cueerrors.Details(err, nil),
			Pos:     firstPos(err),
		}
	}

	unified := def.Unify(v)
	if err := unified.Validate(); err != nil {
		return query.Spec{}, &LoadError{
			Code:    ErrCodeSchema,
			Message: cueerrors.Details(err, nil),
			Pos:     firstPos(err),
		}
	}

	return lower(unified)
}

// lower extracts the validated profile fields into a Spec.
func lower(v cue.Value) (query.Spec, error) {
	var spec query.Spec
	var err error

	if spec.ShowAll, err = boolField(v, "all"); err != nil {
		return query.Spec{}, err
	}
	if spec.Verbose, err = boolField(v, "verbose"); err != nil {
		return query.Spec{}, err
	}
	if spec.Keywords, err = stringsField(v, "keywords"); err != nil {
		return query.Spec{}, err
	}
	if spec.Excludes, err = stringsField(v, "not"); err != nil {
		return query.Spec{}, err
	}
	if spec.PathFilters, err = stringsField(v, "path"); err != nil {
		return query.Spec{}, err
	}
	if spec.MaxDepth, err = intField(v, "depth"); err != nil {
		return query.Spec{}, err
	}
	if spec.MaxCount, err = intField(v, "count"); err != nil {
		return query.Spec{}, err
	}
	return spec, nil
}

func boolField(v cue.Value, name string) (bool, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return false, nil
	}
	b, err := f.Bool()
	if err != nil {
		return false, valueError(name, f, err)
	}
	return b, nil
}

func stringsField(v cue.Value, name string) ([]string, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil, nil
	}
	iter, err := f.List()
	if err != nil {
		return nil, valueError(name, f, err)
	}
	var out []string
	for iter.Next() {
		s, err := iter.Value().String()
		if err != nil {
			return nil, valueError(name, iter.Value(), err)
		}
		out = append(out, s)
	}
	return out, nil
}

func intField(v cue.Value, name string) (*int, error) {
	f := v.LookupPath(cue.ParsePath(name))
	if !f.Exists() {
		return nil, nil
	}
	n, err := f.Int64()
	if err != nil {
		return nil, valueError(name, f, err)
	}
	val := int(n)
	return &val, nil
}

func valueError(name string, v cue.Value, err error) *LoadError {
	return &LoadError{
		Code:    ErrCodeValue,
		Message: fmt.Sprintf("field %q: %v", name, err),
		Pos:     v.Pos(),
	}
}

func firstPos(err error) token.Pos {
	if positions := cueerrors.Positions(cueerrors.Promote(err, "")); len(positions) > 0 {
		return positions[0]
	}
	return token.NoPos
}
