package xhttp

import (
	"net/http"
)

const (
	XForwardedFor    = "X-Forwarded-For"
	XRealIP          = "X-Real-IP"
	XContentTypeOpts = "X-Content-Type-Options"
	XFrameOpts       = "X-Frame-Options"
	ReferrerPolicy   = "Referrer-Policy"
	CacheControl     = "Cache-Control"
	XRequestID       = "X-Request-ID"
	ContentType      = "Content-Type"
)

const (
	applicationJSON = "application/json"
	textHTML        = "text/html; charset=utf-8"
)

func SetHeaderContentTypeApplicationJSON(h http.Header) {
	h.Set(ContentType, applicationJSON)
}

func SetHeaderContentTypeTextHTML(w http.ResponseWriter) {
	w.Header().Set(ContentType, textHTML)
}
