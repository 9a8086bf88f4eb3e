// internal/routines/output.go
package routines

import (
	"encoding/json"
	"net/http"
	"net/url"
)

// Payload is one response's semantic content. Both channels serialize
// the same payload; no workflow branch ever formats per channel.
type Payload struct {
	Success       bool
	Message       string
	Title         string
	Content       string // main markup fragment: listing, editor, dialog or export box
	RowMarkup     string // freshly built routine row for in-place insertion
	Inserted      bool
	Dialog        bool
	ParamTemplate string // blank parameter row markup
	SelectedKind  Kind
}

// Channel wraps the two presentation modes behind one interface. The
// caller picks the channel once per request; branches stay
// channel-agnostic.
type Channel interface {
	Send(w http.ResponseWriter, p *Payload)
	Redirect(w http.ResponseWriter, r *http.Request, location, message string)
}

// ChannelFor selects the channel matching the caller's expectation.
func ChannelFor(q Request) Channel {
	if q.Partial {
		return jsonChannel{}
	}
	return htmlChannel{}
}

type jsonChannel struct{}

func (jsonChannel) Send(w http.ResponseWriter, p *Payload) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":        p.Success,
		"message":        p.Message,
		"title":          p.Title,
		"content":        p.Content,
		"new_row":        p.RowMarkup,
		"inserted":       p.Inserted,
		"dialog":         p.Dialog,
		"param_template": p.ParamTemplate,
		"selected_kind":  string(p.SelectedKind),
	})
}

func (jsonChannel) Redirect(w http.ResponseWriter, r *http.Request, location, message string) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":  true,
		"redirect": location,
		"message":  message,
	})
}

type htmlChannel struct{}

func (htmlChannel) Send(w http.ResponseWriter, p *Payload) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(renderPage(p)))
}

func (htmlChannel) Redirect(w http.ResponseWriter, r *http.Request, location, message string) {
	if message != "" {
		sep := "?"
		if u, err := url.Parse(location); err == nil && u.RawQuery != "" {
			sep = "&"
		}
		location += sep + "message=" + url.QueryEscape(message)
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}
