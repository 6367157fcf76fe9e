package scene

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/voltlab/internal/circuit"
)

// LoadFile reads a CUE scene file, compiles it, and validates the result.
func LoadFile(path string) (*circuit.SceneSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene file: %w", err)
	}
	return LoadBytes(path, data)
}

// LoadBytes compiles scene CUE source. filename is used for error positions.
func LoadBytes(filename string, data []byte) (*circuit.SceneSpec, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	sceneVal := v.LookupPath(cue.ParsePath("scene"))
	if !sceneVal.Exists() {
		return nil, &CompileError{
			Field:   "scene",
			Message: "top-level scene struct is required",
			Pos:     v.Pos(),
		}
	}

	spec, err := CompileScene(sceneVal)
	if err != nil {
		return nil, err
	}
	if verrs := Validate(spec); len(verrs) > 0 {
		return nil, verrs[0]
	}
	return spec, nil
}

// CompileScene parses a CUE value into a SceneSpec.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the scene struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`scene: { name: "loop", components: [...] }`)
//	spec, err := CompileScene(v.LookupPath(cue.ParsePath("scene")))
func CompileScene(v cue.Value) (*circuit.SceneSpec, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	spec := &circuit.SceneSpec{}

	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{
			Field:   "name",
			Message: "name is required",
			Pos:     v.Pos(),
		}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}
	spec.Name = name

	compVal := v.LookupPath(cue.ParsePath("components"))
	if !compVal.Exists() {
		return nil, &CompileError{
			Field:   "components",
			Message: "at least one component is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := compVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		comp, err := parseComponent(iter.Value())
		if err != nil {
			return nil, err
		}
		spec.Components = append(spec.Components, comp)
	}
	if len(spec.Components) == 0 {
		return nil, &CompileError{
			Field:   "components",
			Message: "at least one component is required",
			Pos:     v.Pos(),
		}
	}

	return spec, nil
}

// parseComponent parses one component declaration.
func parseComponent(v cue.Value) (circuit.ComponentSpec, error) {
	var comp circuit.ComponentSpec

	id, err := requiredString(v, "id")
	if err != nil {
		return comp, err
	}
	comp.ID = circuit.ComponentID(id)

	kind, err := requiredString(v, "kind")
	if err != nil {
		return comp, err
	}
	comp.Kind = circuit.ComponentKind(kind)

	termsVal := v.LookupPath(cue.ParsePath("terminals"))
	if !termsVal.Exists() {
		return comp, &CompileError{
			Field:   fmt.Sprintf("components.%s.terminals", id),
			Message: "terminals are required",
			Pos:     v.Pos(),
		}
	}
	termIter, err := termsVal.List()
	if err != nil {
		return comp, formatCUEError(err)
	}
	for termIter.Next() {
		key, err := termIter.Value().String()
		if err != nil {
			return comp, formatCUEError(err)
		}
		comp.Terminals = append(comp.Terminals, circuit.TerminalKey(key))
	}

	if sg := v.LookupPath(cue.ParsePath("series_group")); sg.Exists() {
		group, err := sg.String()
		if err != nil {
			return comp, formatCUEError(err)
		}
		comp.SeriesGroup = group
	}
	if pg := v.LookupPath(cue.ParsePath("parallel_group")); pg.Exists() {
		group, err := pg.String()
		if err != nil {
			return comp, formatCUEError(err)
		}
		comp.ParallelGroup = group
	}

	return comp, nil
}

func requiredString(v cue.Value, field string) (string, error) {
	fieldVal := v.LookupPath(cue.ParsePath(field))
	if !fieldVal.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fieldVal.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := cueerrors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
