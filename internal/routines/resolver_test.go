package routines

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func parseForm(t *testing.T, form url.Values) Request {
	t.Helper()
	r := httptest.NewRequest("POST", "/panel/routines", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return ParseRequest(r)
}

func TestResolveDefaultsToList(t *testing.T) {
	assert.Equal(t, ModeList, Resolve(Request{}))
}

func TestResolveSubmitWinsOverEditorFlags(t *testing.T) {
	q := Request{SubmitAdd: true, AddParam: true, ExecuteItem: true, Name: "p"}
	assert.Equal(t, ModeProcessSubmit, Resolve(q))

	q = Request{SubmitEdit: true, EditItem: true}
	assert.Equal(t, ModeProcessSubmit, Resolve(q))
}

func TestResolveEditorBeatsExecute(t *testing.T) {
	q := Request{AddParam: true, ExecuteItem: true, Name: "p"}
	assert.Equal(t, ModeShowEditor, Resolve(q))

	q = Request{ErrorCount: 2, ExportItem: true, Name: "p", Kind: "PROCEDURE"}
	assert.Equal(t, ModeShowEditor, Resolve(q))
}

func TestResolveExecuteRequiresName(t *testing.T) {
	assert.Equal(t, ModeList, Resolve(Request{ExecuteItem: true}))
	assert.Equal(t, ModeExecute, Resolve(Request{ExecuteItem: true, Name: "p"}))
}

func TestResolveExecuteBeatsDialog(t *testing.T) {
	q := Request{ExecuteItem: true, ExecDialog: true, Name: "p"}
	assert.Equal(t, ModeExecute, Resolve(q))

	assert.Equal(t, ModeExecuteDialog, Resolve(Request{ExecDialog: true, Name: "p"}))
}

func TestResolveExportNeedsValidKind(t *testing.T) {
	assert.Equal(t, ModeExport, Resolve(Request{ExportItem: true, Name: "p", Kind: "FUNCTION"}))
	assert.Equal(t, ModeList, Resolve(Request{ExportItem: true, Name: "p", Kind: "TRIGGER"}))
	assert.Equal(t, ModeList, Resolve(Request{ExportItem: true, Name: "p"}))
}

func TestParseRequestFields(t *testing.T) {
	q := parseForm(t, url.Values{
		"edit_item":     {"1"},
		"name":          {"sync_totals"},
		"kind":          {"PROCEDURE"},
		"original_name": {"old_name"},
		"original_kind": {"FUNCTION"},
		"error_count":   {"3"},
		"offset":        {"50"},
		"ajax":          {"true"},
	})

	assert.True(t, q.EditItem)
	assert.Equal(t, "sync_totals", q.Name)
	assert.Equal(t, "PROCEDURE", q.Kind)
	assert.Equal(t, "old_name", q.OriginalName)
	assert.Equal(t, "FUNCTION", q.OriginalKind)
	assert.Equal(t, 3, q.ErrorCount)
	assert.Equal(t, 50, q.Offset)
	assert.True(t, q.Partial)
}

func TestParseRequestXHRHeader(t *testing.T) {
	r := httptest.NewRequest("GET", "/panel/routines", nil)
	r.Header.Set("X-Requested-With", "XMLHttpRequest")
	assert.True(t, ParseRequest(r).Partial)

	r = httptest.NewRequest("GET", "/panel/routines", nil)
	assert.False(t, ParseRequest(r).Partial)
}

func TestParseRequestMalformedBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/panel/routines", strings.NewReader("%zz"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	q := ParseRequest(r)
	assert.NotNil(t, q.Form)
	assert.Equal(t, ModeList, Resolve(q))
}

func TestParseRequestIgnoresBadNumbers(t *testing.T) {
	q := parseForm(t, url.Values{
		"error_count": {"not-a-number"},
		"offset":      {"-10"},
	})
	assert.Equal(t, 0, q.ErrorCount)
	assert.Equal(t, 0, q.Offset)
}
