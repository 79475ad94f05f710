package api

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/validate"
)

const internalMessage = "Internal Server Error"

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
	Stack      string   `json:"stack,omitempty"`
}

// PanicError carries a value recovered from a panicking handler.
type PanicError struct {
	Value any
	Stack []byte
}

func (p *PanicError) Error() string { return fmt.Sprintf("panic: %v", p.Value) }

func newPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

// Translator is the single place that turns an error into an HTTP response.
type Translator struct {
	// Production hides diagnostic text from clients.
	Production bool
}

// Translate classifies err. It never panics, including on nil.
func (t *Translator) Translate(err error) (env ErrorEnvelope) {
	env = t.classify(err)
	if env.Errors == nil {
		env.Errors = []string{}
	}
	if !t.Production && err != nil {
		env.Stack = diagnostic(err)
	}
	return env
}

func (t *Translator) classify(err error) ErrorEnvelope {
	if err == nil {
		return failure(http.StatusInternalServerError, internalMessage, nil)
	}

	if ae, ok := apperr.As(err); ok {
		status := ae.StatusCode
		if status < http.StatusBadRequest || status > 599 {
			status = http.StatusInternalServerError
		}
		msg := ae.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return failure(status, msg, ae.Details)
	}

	var ide *domain.InvalidIDError
	if errors.As(err, &ide) {
		return failure(http.StatusBadRequest, "Invalid "+ide.Field, []string{ide.Error()})
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return failure(http.StatusBadRequest, validate.Message(ve[0]), validate.Messages(ve))
	}

	var de *domain.DuplicateError
	if errors.As(err, &de) {
		return failure(http.StatusConflict, de.Field+" already exists", nil)
	}
	var ccf *dynamotypes.ConditionalCheckFailedException
	if errors.As(err, &ccf) {
		return failure(http.StatusConflict, "Resource was modified or already exists", nil)
	}
	var tce *dynamotypes.TransactionCanceledException
	if errors.As(err, &tce) && conditionalCancel(tce) {
		return failure(http.StatusConflict, "Resource was modified or already exists", nil)
	}

	for _, s := range sentinels {
		if errors.Is(err, s.err) {
			return failure(s.status, trimSentinel(err, s.err), nil)
		}
	}

	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) {
		return failure(http.StatusRequestEntityTooLarge, "Request body too large", nil)
	}

	return failure(http.StatusInternalServerError, internalMessage, nil)
}

var sentinels = []struct {
	err    error
	status int
}{
	{domain.ErrBadRequest, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
	{domain.ErrForbidden, http.StatusForbidden},
	{domain.ErrNotFound, http.StatusNotFound},
	{domain.ErrConflict, http.StatusConflict},
}

// Write sends the error envelope for err, unless a response was already sent.
func (t *Translator) Write(w http.ResponseWriter, r *http.Request, err error) {
	env := t.Translate(err)
	errorsTotal.WithLabelValues(strconv.Itoa(env.StatusCode)).Inc()

	logger := zerolog.Ctx(r.Context())
	if written(w) {
		logger.Error().Err(err).Int("status", env.StatusCode).Msg("handler failed after writing a response")
		return
	}

	var ev *zerolog.Event
	if env.StatusCode >= http.StatusInternalServerError {
		ev = logger.Error()
		var pe *PanicError
		if errors.As(err, &pe) {
			ev = ev.Bytes("stack", pe.Stack)
		}
	} else {
		ev = logger.Debug()
	}
	ev.Err(err).Int("status", env.StatusCode).Msg(env.Message)

	if werr := writeJSON(w, env.StatusCode, env); werr != nil {
		logger.Error().Err(werr).Msg("write error envelope")
	}
}

func failure(status int, msg string, details []string) ErrorEnvelope {
	return ErrorEnvelope{StatusCode: status, Message: msg, Success: false, Errors: details}
}

func conditionalCancel(e *dynamotypes.TransactionCanceledException) bool {
	for _, r := range e.CancellationReasons {
		if r.Code != nil && *r.Code == "ConditionalCheckFailed" {
			return true
		}
	}
	return false
}

// trimSentinel drops the ": not found" style suffix added by %w wrapping.
func trimSentinel(err, sentinel error) string {
	msg := strings.TrimSuffix(err.Error(), ": "+sentinel.Error())
	if msg == "" {
		return sentinel.Error()
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func diagnostic(err error) string {
	var pe *PanicError
	if errors.As(err, &pe) {
		return pe.Error() + "\n" + string(pe.Stack)
	}
	return err.Error()
}
