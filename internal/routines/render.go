// internal/routines/render.go
//
// All markup for both channels is produced here, through html/template,
// so every display value is escaped before it reaches a response body.
package routines

import (
	"html/template"
	"strings"

	"github.com/cwarner/routinepanel/internal/log"
)

var templates = template.Must(template.New("routines").Parse(`
{{define "page"}}<!DOCTYPE html>
<html>
<head><title>{{if .Title}}{{.Title}} - {{end}}routinepanel</title></head>
<body>
<h1>Routines</h1>
{{if .Message}}<div class="{{if .Success}}notice{{else}}error{{end}}">{{.Message}}</div>{{end}}
{{.Content}}
</body>
</html>
{{end}}

{{define "listing"}}<table class="routines">
<thead><tr><th>Name</th><th>Type</th><th>Returns</th><th colspan="4">Actions</th></tr></thead>
<tbody>
{{range .Routines}}{{template "row" .}}{{end}}
{{if not .Routines}}<tr><td colspan="7">No routines defined.</td></tr>{{end}}
</tbody>
</table>
<p>
<a href="routines?add_item=1">Add routine</a>
{{if .Window.HasPrev}} | <a href="routines?offset={{.Window.PrevOffset}}">Previous</a>{{end}}
{{if .Window.HasNext}} | <a href="routines?offset={{.Window.NextOffset}}">Next</a>{{end}}
</p>
{{end}}

{{define "row"}}<tr class="routine-row">
<td>{{.Name}}</td>
<td>{{.Kind}}</td>
<td>{{.ReturnType}}</td>
<td><a href="routines?edit_item=1&name={{.Name}}&kind={{.Kind}}">Edit</a></td>
<td><a href="routines?execute_dialog=1&name={{.Name}}&kind={{.Kind}}">Execute</a></td>
<td><a href="routines?export_item=1&name={{.Name}}&kind={{.Kind}}">Export</a></td>
<td><a href="routines?drop_item=1&name={{.Name}}&kind={{.Kind}}" class="drop">Drop</a></td>
</tr>
{{end}}

{{define "editor"}}<form method="post" action="routines" class="routine-editor">
<input type="hidden" name="form_mode" value="{{.ModeValue}}">
<input type="hidden" name="original_name" value="{{.OriginalName}}">
<input type="hidden" name="original_kind" value="{{.OriginalKind}}">
<input type="hidden" name="toggle_suggestion" value="{{.ToggleSuggestion}}">
<input type="hidden" name="param_count" value="{{len .Params}}">
<input type="hidden" name="error_count" value="{{len .Errors}}">
<input type="hidden" name="kind" value="{{.Kind}}">
{{range .Errors}}<p class="error">{{.}}</p>{{end}}
<p><label>Name <input name="name" value="{{.Name}}"></label></p>
<p>Type: {{.Kind}}
<button type="submit" name="change_kind" value="1">Change to {{.ToggleSuggestion}}</button></p>
<table class="params">
{{range .Params}}{{template "paramRow" .}}{{end}}
</table>
<p>
<button type="submit" name="add_param" value="1">Add parameter</button>
{{if .Params}}<button type="submit" name="remove_param" value="1">Remove last parameter</button>{{end}}
</p>
{{if .IsFunction}}<p><label>Return type <input name="return_type" value="{{.ReturnType}}"></label></p>{{end}}
<p><label>Definition <textarea name="body">{{.Body}}</textarea></label></p>
<p><label>Definer <input name="definer" value="{{.Definer}}"></label></p>
<p><label>SQL data access
<select name="sql_data_access">
{{range .AccessOptions}}<option{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
</select></label></p>
<p><label>Deterministic <input type="checkbox" name="is_deterministic" value="1"{{if .IsDeterministic}} checked{{end}}></label></p>
<p><label>Comment <input name="comment" value="{{.Comment}}"></label></p>
<p><button type="submit" name="{{.SubmitField}}" value="1">Go</button></p>
</form>
{{end}}

{{define "paramRow"}}<tr class="param-row">
{{if .IsProcedure}}<td><select name="param_direction">
{{range .Directions}}<option{{if .Selected}} selected{{end}}>{{.Value}}</option>{{end}}
</select></td>{{end}}
<td><input name="param_name" value="{{.Name}}"></td>
<td><input name="param_type" value="{{.Type}}"></td>
<td><input name="param_length" value="{{.Length}}"></td>
<td><input name="param_options" value="{{.Options}}"></td>
</tr>
{{end}}

{{define "dialog"}}<form method="post" action="routines" class="execute-dialog">
<input type="hidden" name="execute_routine" value="1">
<input type="hidden" name="name" value="{{.Name}}">
<input type="hidden" name="kind" value="{{.Kind}}">
<h2>Execute {{.Kind}} {{.Name}}</h2>
<table>
{{range .Inputs}}<tr>
<td>{{.Label}}</td>
<td><input name="params"></td>
</tr>
{{end}}
</table>
<p><button type="submit">Execute</button></p>
</form>
{{end}}

{{define "export"}}<div class="export-box">
<h2>{{.Title}}</h2>
<textarea readonly rows="16" cols="80">{{.Payload}}</textarea>
</div>
{{end}}

{{define "output"}}<pre class="execution-output">{{.}}</pre>{{end}}
`))

type pageView struct {
	Title   string
	Message string
	Success bool
	Content template.HTML
}

type listingView struct {
	Routines []*Routine
	Window   PageWindow
}

type option struct {
	Value    string
	Selected bool
}

type paramView struct {
	Parameter
	IsProcedure bool
	Directions  []option
}

type editorView struct {
	ModeValue        string
	OriginalName     string
	OriginalKind     Kind
	ToggleSuggestion Kind
	Errors           []string
	Name             string
	Kind             Kind
	IsFunction       bool
	ReturnType       string
	Body             string
	Definer          string
	IsDeterministic  bool
	Comment          string
	Params           []paramView
	AccessOptions    []option
	SubmitField      string
}

type dialogView struct {
	Name   string
	Kind   Kind
	Inputs []struct{ Label string }
}

type exportView struct {
	Title   string
	Payload string
}

var directions = []string{"IN", "OUT", "INOUT"}

var accessModes = []string{"CONTAINS SQL", "NO SQL", "READS SQL DATA", "MODIFIES SQL DATA"}

// render executes one named template into a string. Template errors
// only happen on programming mistakes, so they are logged, not surfaced.
func render(name string, data interface{}) string {
	var b strings.Builder
	if err := templates.ExecuteTemplate(&b, name, data); err != nil {
		log.Error("template render failed", "template", name, "error", err.Error())
		return ""
	}
	return b.String()
}

func renderPage(p *Payload) string {
	return render("page", pageView{
		Title:   p.Title,
		Message: p.Message,
		Success: p.Success,
		Content: template.HTML(p.Content),
	})
}

func renderListing(items []*Routine, win PageWindow) string {
	return render("listing", listingView{Routines: items, Window: win})
}

func renderRow(rt *Routine) string {
	return render("row", rt)
}

func newParamView(p Parameter, kind Kind) paramView {
	v := paramView{Parameter: p, IsProcedure: kind == KindProcedure}
	for _, d := range directions {
		v.Directions = append(v.Directions, option{Value: d, Selected: d == p.Direction})
	}
	return v
}

func renderEditor(s *FormState) string {
	view := editorView{
		ModeValue:        "add",
		OriginalName:     s.OriginalName,
		OriginalKind:     s.OriginalKind,
		ToggleSuggestion: s.ToggleSuggestion,
		Errors:           s.Errors,
		Name:             s.Routine.Name,
		Kind:             s.Routine.Kind,
		IsFunction:       s.Routine.Kind == KindFunction,
		ReturnType:       s.Routine.ReturnType,
		Body:             s.Routine.Body,
		Definer:          s.Routine.Definer,
		IsDeterministic:  s.Routine.IsDeterministic,
		Comment:          s.Routine.Comment,
		SubmitField:      "submit_add",
	}
	if s.EditMode {
		view.ModeValue = "edit"
		view.SubmitField = "submit_edit"
	}
	for _, p := range s.Routine.Params {
		view.Params = append(view.Params, newParamView(p, s.Routine.Kind))
	}
	for _, m := range accessModes {
		view.AccessOptions = append(view.AccessOptions, option{Value: m, Selected: m == s.Routine.SQLDataAccess})
	}
	return render("editor", view)
}

// renderParamTemplate builds the blank parameter row the client clones
// when adding rows without a round-trip.
func renderParamTemplate(kind Kind) string {
	return render("paramRow", newParamView(Parameter{}, kind))
}

func renderDialog(rt *Routine) string {
	view := dialogView{Name: rt.Name, Kind: rt.Kind}
	for _, p := range rt.Params {
		if rt.Kind == KindProcedure && p.Direction == "OUT" {
			continue
		}
		label := p.Name
		if p.Direction != "" {
			label = p.Direction + " " + p.Name
		}
		view.Inputs = append(view.Inputs, struct{ Label string }{label})
	}
	return render("dialog", view)
}

func renderExport(title, payload string) string {
	return render("export", exportView{Title: title, Payload: payload})
}

func renderOutput(text string) string {
	if text == "" {
		return ""
	}
	return render("output", text)
}
