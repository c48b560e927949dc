package xhttp

import (
	"bytes"
	"net/http"

	go_json "github.com/goccy/go-json"
)

// WriteJSON writes data with status, or a bare 500 if data does not encode.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := go_json.NewEncoder(&buf).Encode(data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	SetHeaderContentTypeApplicationJSON(w.Header())
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

func WriteOK(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, data)
}
