package api

import (
	"net/http"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
)

// HandlerFunc is endpoint logic that reports failure by returning an error.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// AuthedHandlerFunc is a HandlerFunc that requires an authenticated caller.
type AuthedHandlerFunc func(w http.ResponseWriter, r *http.Request, p domain.Principal) error

// Responder adapts HandlerFuncs to net/http, sending every returned error and
// every panic to its Translator.
type Responder struct {
	tr *Translator
}

func NewResponder(tr *Translator) *Responder { return &Responder{tr: tr} }

func (rs *Responder) Translator() *Translator { return rs.tr }

func (rs *Responder) Wrap(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tw := &trackingWriter{ResponseWriter: w}
		defer func() {
			if v := recover(); v != nil {
				if v == http.ErrAbortHandler {
					panic(v)
				}
				rs.tr.Write(tw, r, newPanicError(v))
			}
		}()
		if err := h(tw, r); err != nil {
			rs.tr.Write(tw, r, err)
		}
	}
}

// WrapAuthed resolves the principal set by the auth middleware. A route
// mounted without that middleware answers 401.
func (rs *Responder) WrapAuthed(h AuthedHandlerFunc) http.HandlerFunc {
	return rs.Wrap(func(w http.ResponseWriter, r *http.Request) error {
		p, ok := PrincipalFrom(r.Context())
		if !ok {
			return apperr.Unauthorized("Unauthorized request")
		}
		return h(w, r, p)
	})
}
