package problem

import (
	"net/http"

	"github.com/goccy/go-json"
)

// Problem is an RFC 7807 body. Errors carries per-field validation messages.
type Problem struct {
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Status   int               `json:"status"`
	Detail   string            `json:"detail,omitempty"`
	Instance string            `json:"instance,omitempty"`
	Errors   map[string]string `json:"errors,omitempty"`
}

func Write(w http.ResponseWriter, status int, title, detail string) {
	WriteProblem(w, Problem{Title: title, Status: status, Detail: detail})
}

// WriteFields writes a 400 listing the offending fields.
func WriteFields(w http.ResponseWriter, detail string, fields map[string]string) {
	WriteProblem(w, Problem{
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: detail,
		Errors: fields,
	})
}

func WriteProblem(w http.ResponseWriter, p Problem) {
	if p.Type == "" {
		p.Type = "about:blank"
	}
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	_ = json.NewEncoder(w).Encode(p)
}
