// internal/routines/resolver.go
package routines

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/cwarner/routinepanel/internal/log"
)

// Mode is the single workflow branch selected for a request.
type Mode int

const (
	ModeList Mode = iota
	ModeProcessSubmit
	ModeShowEditor
	ModeExecute
	ModeExecuteDialog
	ModeExport
)

func (m Mode) String() string {
	switch m {
	case ModeProcessSubmit:
		return "process-submit"
	case ModeShowEditor:
		return "show-editor"
	case ModeExecute:
		return "execute-routine"
	case ModeExecuteDialog:
		return "show-execute-dialog"
	case ModeExport:
		return "export"
	}
	return "list"
}

// Request is the one immutable request-context value handed to every
// workflow component. All mode flags and identity fields are read here,
// exactly once, so no component reads ambient request state.
type Request struct {
	SubmitAdd   bool
	SubmitEdit  bool
	AddItem     bool
	EditItem    bool
	AddParam    bool
	RemoveParam bool
	ChangeKind  bool
	ExecuteItem bool
	ExecDialog  bool
	ExportItem  bool
	DropItem    bool

	Name         string
	Kind         string
	OriginalName string
	OriginalKind string

	ErrorCount int
	Offset     int
	Partial    bool

	// Form holds the raw merged query+body fields for form-state
	// hydration and execution argument binding.
	Form url.Values
}

// ParseRequest reads all consumed fields out of one HTTP exchange.
// A malformed body leaves the fields empty and the request resolves to
// the list branch.
func ParseRequest(r *http.Request) Request {
	if err := r.ParseForm(); err != nil {
		log.Debug("form parse failed", "error", err.Error())
	}
	f := r.Form

	has := func(key string) bool { return f.Get(key) != "" }

	q := Request{
		SubmitAdd:   has("submit_add"),
		SubmitEdit:  has("submit_edit"),
		AddItem:     has("add_item"),
		EditItem:    has("edit_item"),
		AddParam:    has("add_param"),
		RemoveParam: has("remove_param"),
		ChangeKind:  has("change_kind"),
		ExecuteItem: has("execute_routine"),
		ExecDialog:  has("execute_dialog"),
		ExportItem:  has("export_item"),
		DropItem:    has("drop_item"),

		Name:         f.Get("name"),
		Kind:         f.Get("kind"),
		OriginalName: f.Get("original_name"),
		OriginalKind: f.Get("original_kind"),

		Partial: f.Get("ajax") == "true" || r.Header.Get("X-Requested-With") == "XMLHttpRequest",
		Form:    f,
	}

	if n, err := strconv.Atoi(f.Get("error_count")); err == nil && n > 0 {
		q.ErrorCount = n
	}
	if n, err := strconv.Atoi(f.Get("offset")); err == nil && n > 0 {
		q.Offset = n
	}

	return q
}

// The resolution rules, in priority order. First match wins; the
// order mirrors precedence, not arrival order.
var resolutionRules = []struct {
	mode  Mode
	match func(Request) bool
}{
	{ModeProcessSubmit, func(q Request) bool {
		return q.SubmitAdd || q.SubmitEdit
	}},
	{ModeShowEditor, func(q Request) bool {
		return q.ErrorCount > 0 || q.AddItem || q.EditItem || q.AddParam || q.RemoveParam || q.ChangeKind
	}},
	{ModeExecute, func(q Request) bool {
		return q.ExecuteItem && q.Name != ""
	}},
	{ModeExecuteDialog, func(q Request) bool {
		return q.ExecDialog && q.Name != ""
	}},
	{ModeExport, func(q Request) bool {
		if !q.ExportItem || q.Name == "" {
			return false
		}
		_, ok := ParseKind(q.Kind)
		return ok
	}},
}

// Resolve picks exactly one workflow branch for the request.
func Resolve(q Request) Mode {
	for _, rule := range resolutionRules {
		if rule.match(q) {
			return rule.mode
		}
	}
	return ModeList
}
