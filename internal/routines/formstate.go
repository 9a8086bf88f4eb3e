// internal/routines/formstate.go
package routines

import (
	"fmt"
	"strconv"
)

// FormState is the request-scoped reconstruction of a routine being
// edited. It is built fresh for every request, either from a stored
// routine or from the resubmitted form fields, and discarded when the
// response is written.
type FormState struct {
	Routine          Routine
	EditMode         bool   // false: add, true: edit
	OriginalName     string // identity at fetch time, for rename detection
	OriginalKind     Kind
	ToggleSuggestion Kind // the kind the UI offers to switch to
	Errors           []string
}

// NewAddForm returns a fresh add-mode state with zero parameters.
func NewAddForm() *FormState {
	return &FormState{
		Routine: Routine{
			Kind:          KindProcedure,
			SQLDataAccess: "CONTAINS SQL",
		},
		ToggleSuggestion: KindFunction,
	}
}

// FormFromRoutine hydrates edit-mode state from a stored routine,
// snapshotting its identity so a rename can be detected on submit.
func FormFromRoutine(rt *Routine) *FormState {
	return &FormState{
		Routine:          *rt,
		EditMode:         true,
		OriginalName:     rt.Name,
		OriginalKind:     rt.Kind,
		ToggleSuggestion: rt.Kind.Opposite(),
	}
}

// FormFromRequest hydrates state entirely from resubmitted wire fields.
// Nothing is re-fetched, so in-progress edits survive parameter
// add/remove round-trips.
func FormFromRequest(q Request) *FormState {
	f := q.Form

	s := &FormState{
		EditMode:     f.Get("form_mode") == "edit",
		OriginalName: q.OriginalName,
	}
	if k, ok := ParseKind(q.OriginalKind); ok {
		s.OriginalKind = k
	}

	kind := KindProcedure
	if k, ok := ParseKind(q.Kind); ok {
		kind = k
	}
	s.ToggleSuggestion = kind.Opposite()
	if suggested, ok := ParseKind(f.Get("toggle_suggestion")); ok {
		s.ToggleSuggestion = suggested
	}

	s.Routine = Routine{
		Name:            q.Name,
		Kind:            kind,
		ReturnType:      f.Get("return_type"),
		Body:            f.Get("body"),
		SQLDataAccess:   f.Get("sql_data_access"),
		Definer:         f.Get("definer"),
		IsDeterministic: f.Get("is_deterministic") != "",
		Comment:         f.Get("comment"),
	}

	// The declared count drives hydration so the parameter list can
	// never drift out of alignment with the wire arrays.
	count, _ := strconv.Atoi(f.Get("param_count"))
	directions := f["param_direction"]
	names := f["param_name"]
	types := f["param_type"]
	lengths := f["param_length"]
	options := f["param_options"]

	field := func(vals []string, i int) string {
		if i < len(vals) {
			return vals[i]
		}
		return ""
	}

	for i := 0; i < count; i++ {
		s.Routine.Params = append(s.Routine.Params, Parameter{
			Direction: field(directions, i),
			Name:      field(names, i),
			Type:      field(types, i),
			Length:    field(lengths, i),
			Options:   field(options, i),
		})
	}

	return s
}

// Validate checks a submitted form state and returns display errors.
// A nonzero result routes the next request back into show-editor.
func Validate(s *FormState) []string {
	var errs []string

	if s.Routine.Name == "" {
		errs = append(errs, "You must provide a routine name.")
	}
	if s.Routine.Body == "" {
		errs = append(errs, "You must provide a routine definition.")
	}
	if s.Routine.Kind == KindFunction && s.Routine.ReturnType == "" {
		errs = append(errs, "You must provide a return type for the function.")
	}

	for i, p := range s.Routine.Params {
		if p.Name == "" || p.Type == "" {
			errs = append(errs, fmt.Sprintf("Parameter %d needs both a name and a type.", i+1))
			continue
		}
		if s.Routine.Kind == KindProcedure {
			switch p.Direction {
			case "IN", "OUT", "INOUT":
			default:
				errs = append(errs, fmt.Sprintf("Parameter %d has an invalid direction.", i+1))
			}
		}
	}

	return errs
}
