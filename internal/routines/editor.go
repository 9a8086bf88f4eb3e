// internal/routines/editor.go
package routines

// AddParameter appends one blank parameter row to the form state.
func AddParameter(s *FormState) {
	s.Routine.Params = append(s.Routine.Params, Parameter{})
}

// RemoveParameter drops the last parameter row. The control is only
// offered when a row exists, so an empty list is a no-op here rather
// than a panic.
func RemoveParameter(s *FormState) {
	if n := len(s.Routine.Params); n > 0 {
		s.Routine.Params = s.Routine.Params[:n-1]
	}
}

// ToggleKind flips the routine kind and records the previous kind as
// the suggestion for the next toggle. Toggling twice restores the
// original kind.
func ToggleKind(s *FormState) {
	previous := s.Routine.Kind
	s.Routine.Kind = previous.Opposite()
	s.ToggleSuggestion = previous
}

// ApplyEdit runs the single parameter-list operation the request asked
// for. The operations are mutually exclusive per request.
func ApplyEdit(s *FormState, q Request) {
	switch {
	case q.AddParam:
		AddParameter(s)
	case q.RemoveParam:
		RemoveParameter(s)
	case q.ChangeKind:
		ToggleKind(s)
	}
}
