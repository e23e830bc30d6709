package api

import (
	"net/http"

	"github.com/cuemby/burrow/pkg/config"
)

// Responder writes responses with the configured CORS policy applied. One is
// built per request so the Origin echo matches the caller.
type Responder struct {
	allowedOrigins []string
	allowedMethods []string
	origin         string
}

// NewResponder builds a responder for one request from the startup policy
// and the inbound headers.
func NewResponder(cfg config.ResponderConfig, header http.Header) *Responder {
	return &Responder{
		allowedOrigins: cfg.AllowedOrigins,
		allowedMethods: cfg.AllowedMethods,
		origin:         header.Get("Origin"),
	}
}

// applyHeaders emits one Allow-Methods value per configured method on every
// response. When the request has an Origin, Allow-Origin is * if the wildcard
// is configured, else the Origin itself if it is in the allowed list.
func (r *Responder) applyHeaders(w http.ResponseWriter) {
	for _, method := range r.allowedMethods {
		w.Header().Add("Access-Control-Allow-Methods", method)
	}

	if r.origin == "" {
		return
	}
	for _, allowed := range r.allowedOrigins {
		if allowed == "*" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			return
		}
	}
	for _, allowed := range r.allowedOrigins {
		if allowed == r.origin {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			return
		}
	}
}

// Respond writes a plain-text response with an arbitrary status code.
func (r *Responder) Respond(w http.ResponseWriter, code int, body string) {
	r.applyHeaders(w)
	w.WriteHeader(code)
	_, _ = w.Write([]byte(body))
}

// Ok writes the bare success response.
func (r *Responder) Ok(w http.ResponseWriter) {
	r.Respond(w, http.StatusOK, "Ok")
}

// OkJSON writes a JSON success response.
func (r *Responder) OkJSON(w http.ResponseWriter, body []byte) {
	r.applyHeaders(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (r *Responder) ErrBadRequest(w http.ResponseWriter, body string) {
	r.Respond(w, http.StatusBadRequest, body)
}

func (r *Responder) ErrNotFound(w http.ResponseWriter, body string) {
	r.Respond(w, http.StatusNotFound, body)
}

func (r *Responder) ErrMethodNotAllowed(w http.ResponseWriter, body string) {
	r.Respond(w, http.StatusMethodNotAllowed, body)
}

func (r *Responder) ErrNotImplemented(w http.ResponseWriter, body string) {
	r.Respond(w, http.StatusNotImplemented, body)
}

func (r *Responder) ErrInternal(w http.ResponseWriter, body string) {
	r.Respond(w, http.StatusInternalServerError, body)
}
