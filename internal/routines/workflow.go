// internal/routines/workflow.go
package routines

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/cwarner/routinepanel/internal/log"
)

// DefaultPageSize is the listing page size when none is configured.
const DefaultPageSize = 25

// Workflow is the routines controller core. One request comes in, the
// resolver picks exactly one branch, and the branch writes exactly one
// response through the channel selected up front. No branch ever
// inspects the output mode.
type Workflow struct {
	store    *Store
	executor *Executor
	exporter *Exporter
	dbName   string
	pageSize int
}

// NewWorkflow builds the workflow over the given catalog database.
// dbName is the display name used in messages; empty means no catalog
// is selected.
func NewWorkflow(db *sql.DB, dbName string, pageSize int) *Workflow {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	store := NewStore(db)
	return &Workflow{
		store:    store,
		executor: NewExecutor(db, store),
		exporter: NewExporter(store, dbName),
		dbName:   dbName,
		pageSize: pageSize,
	}
}

// Store exposes the repository, used by tests and CLI commands.
func (wf *Workflow) Store() *Store {
	return wf.store
}

// Handle processes one routines request end to end.
func (wf *Workflow) Handle(w http.ResponseWriter, r *http.Request) {
	q := ParseRequest(r)
	ch := ChannelFor(q)

	if wf.dbName == "" {
		// Nothing to operate on; send the user somewhere neutral.
		ch.Redirect(w, r, "/panel", "No database selected.")
		return
	}

	mode := Resolve(q)
	log.Debug("routines request", "mode", mode.String(), "name", q.Name, "partial", q.Partial)

	switch mode {
	case ModeProcessSubmit:
		wf.processSubmit(w, r, q, ch)
	case ModeShowEditor:
		wf.showEditor(w, r, q, ch)
	case ModeExecute:
		wf.executeRoutine(w, r, q, ch)
	case ModeExecuteDialog:
		wf.executeDialog(w, r, q, ch)
	case ModeExport:
		wf.exportRoutine(w, r, q, ch)
	default:
		wf.list(w, r, q, ch, nil)
	}
}

// buildListing renders the listing page at offset, or reports the
// corrected offset when the window needs a redirect.
func (wf *Workflow) buildListing(offset int) (content string, corrected int, redirect bool, err error) {
	total, err := wf.store.Count()
	if err != nil {
		return "", 0, false, err
	}

	win := PageWindow{Offset: offset, PageSize: wf.pageSize, Total: total}
	if off, moved := win.Normalize(); moved {
		return "", off, true, nil
	}

	items, err := wf.store.List(win.Offset, wf.pageSize)
	if err != nil {
		return "", 0, false, err
	}
	return renderListing(items, win), win.Offset, false, nil
}

// list renders the routine listing, optionally preceded by a message
// from an earlier branch. Drop requests are handled here before
// rendering; dropping is a plain destructive action, not a workflow
// mode.
func (wf *Workflow) list(w http.ResponseWriter, r *http.Request, q Request, ch Channel, msg *ResultMessage) {
	if q.DropItem && q.Name != "" && msg == nil {
		kind, ok := ParseKind(q.Kind)
		if !ok {
			m := ErrorMessage(fmt.Sprintf("Cannot drop %q: unknown routine kind.", q.Name))
			msg = &m
		} else if err := wf.store.Delete(q.Name, kind); err != nil {
			m := ErrorMessage(fmt.Sprintf("Could not drop %s %q: %v", strings.ToLower(string(kind)), q.Name, err))
			msg = &m
		} else {
			log.Info("routine dropped", "name", q.Name, "kind", string(kind))
			m := SuccessMessage(fmt.Sprintf("%s %q has been dropped.", kindTitle(kind), q.Name))
			msg = &m
		}
	}

	// A message carried through a corrective redirect.
	if msg == nil {
		if text := q.Form.Get("message"); text != "" {
			m := SuccessMessage(text)
			msg = &m
		}
	}

	content, off, redirect, err := wf.buildListing(q.Offset)
	if err != nil {
		m := ErrorMessage(fmt.Sprintf("Could not list routines: %v", err))
		msg = &m
	}
	if redirect {
		ch.Redirect(w, r, fmt.Sprintf("routines?offset=%d", off), "")
		return
	}

	p := &Payload{Success: true, Title: "Routines", Content: content}
	if msg != nil {
		p.Success = msg.Success
		p.Message = msg.Text
	}
	ch.Send(w, p)
}

// showEditor reconstructs the form state and renders the editor. The
// state comes from the wire on postbacks and validation retries, from
// the catalog on an initial edit, and fresh otherwise.
func (wf *Workflow) showEditor(w http.ResponseWriter, r *http.Request, q Request, ch Channel) {
	var s *FormState

	switch {
	case q.ErrorCount > 0 || q.AddParam || q.RemoveParam || q.ChangeKind:
		s = FormFromRequest(q)
	case q.EditItem && q.Name != "":
		kind, _ := wf.resolveKind(q)
		rt, err := wf.store.Get(q.Name, kind)
		if err != nil {
			m := ErrorMessage(fmt.Sprintf("No routine with name %q found.", q.Name))
			wf.list(w, r, q, ch, &m)
			return
		}
		s = FormFromRoutine(rt)
	default:
		s = NewAddForm()
		// A brand-new add form starts with one blank parameter row.
		AddParameter(s)
	}

	ApplyEdit(s, q)

	title := "Add routine"
	if s.EditMode {
		title = fmt.Sprintf("Edit routine %q", s.OriginalName)
	}

	ch.Send(w, &Payload{
		Success:       true,
		Title:         title,
		Content:       renderEditor(s),
		ParamTemplate: renderParamTemplate(s.Routine.Kind),
		SelectedKind:  s.Routine.Kind,
	})
}

// processSubmit validates the submitted form state and persists the
// routine. Validation failures re-enter the editor with the error
// count embedded, so the next postback resolves back here.
func (wf *Workflow) processSubmit(w http.ResponseWriter, r *http.Request, q Request, ch Channel) {
	s := FormFromRequest(q)
	s.Errors = Validate(s)

	if len(s.Errors) == 0 {
		rt := s.Routine
		if rt.Kind == KindFunction {
			// Functions carry no parameter directions.
			for i := range rt.Params {
				rt.Params[i].Direction = ""
			}
		}
		rt.Source = BuildDDL(&rt)

		var err error
		if s.EditMode {
			err = wf.store.Replace(s.OriginalName, s.OriginalKind, &rt)
		} else {
			err = wf.store.Save(&rt)
		}
		if err != nil {
			s.Errors = append(s.Errors, fmt.Sprintf("Could not save routine %q: %v", rt.Name, err))
		} else {
			verb := "created"
			if s.EditMode {
				verb = "modified"
			}
			log.Info("routine saved", "name", rt.Name, "kind", string(rt.Kind), "mode", verb)

			content, off, redirect, lerr := wf.buildListing(q.Offset)
			if redirect {
				content, _, _, lerr = wf.buildListing(off)
			}
			if lerr != nil {
				log.Error("listing after save failed", "error", lerr.Error())
			}

			ch.Send(w, &Payload{
				Success:   true,
				Message:   fmt.Sprintf("Routine %q has been %s.", rt.Name, verb),
				Title:     "Routines",
				Content:   content,
				RowMarkup: renderRow(&rt),
				Inserted:  !s.EditMode,
			})
			return
		}
	}

	ch.Send(w, &Payload{
		Success:       false,
		Message:       strings.Join(s.Errors, " "),
		Title:         "Routines",
		Content:       renderEditor(s),
		ParamTemplate: renderParamTemplate(s.Routine.Kind),
		SelectedKind:  s.Routine.Kind,
	})
}

// executeRoutine runs a routine with the submitted argument values.
// When the routine cannot be located, the error message is emitted and
// the listing is rendered beneath it; that fallthrough is long-standing
// behavior the UI depends on.
func (wf *Workflow) executeRoutine(w http.ResponseWriter, r *http.Request, q Request, ch Channel) {
	kind, _ := wf.resolveKind(q)

	out, msg, err := wf.executor.Execute(q.Name, kind, q.Form["params"])
	if errors.Is(err, ErrNotFound) {
		wf.list(w, r, q, ch, &msg)
		return
	}

	ch.Send(w, &Payload{
		Success: msg.Success,
		Message: msg.Text,
		Title:   fmt.Sprintf("Execution results of %q", q.Name),
		Content: renderOutput(out),
	})
}

// executeDialog renders the argument-entry dialog for a routine.
func (wf *Workflow) executeDialog(w http.ResponseWriter, r *http.Request, q Request, ch Channel) {
	kind, _ := wf.resolveKind(q)

	rt, err := wf.store.Get(q.Name, kind)
	if err != nil {
		m := ErrorMessage(fmt.Sprintf("No routine with name %q found.", q.Name))
		wf.list(w, r, q, ch, &m)
		return
	}

	ch.Send(w, &Payload{
		Success: true,
		Title:   fmt.Sprintf("Execute %q", rt.Name),
		Content: renderDialog(rt),
		Dialog:  true,
	})
}

// exportRoutine serves a routine's re-delimited definition.
func (wf *Workflow) exportRoutine(w http.ResponseWriter, r *http.Request, q Request, ch Channel) {
	kind, _ := ParseKind(q.Kind)

	payload, msg := wf.exporter.Export(q.Name, kind)
	if !msg.Success {
		wf.list(w, r, q, ch, &msg)
		return
	}

	ch.Send(w, &Payload{
		Success: true,
		Title:   msg.Text,
		Content: renderExport(msg.Text, payload),
	})
}

// resolveKind parses the requested kind, falling back to whichever kind
// the named routine actually has when the field is absent.
func (wf *Workflow) resolveKind(q Request) (Kind, bool) {
	if k, ok := ParseKind(q.Kind); ok {
		return k, true
	}
	for _, k := range []Kind{KindProcedure, KindFunction} {
		if wf.store.Exists(q.Name, k) {
			return k, true
		}
	}
	return KindProcedure, false
}
