package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	dynamotypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-video-api/internal/domain"
	"github.com/go-video-api/internal/pkg/apperr"
	"github.com/go-video-api/internal/pkg/id"
	"github.com/go-video-api/internal/pkg/validate"
)

func serve(t *testing.T, production bool, h HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	rs := NewResponder(&Translator{Production: production})
	rec := httptest.NewRecorder()
	rs.Wrap(h)(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestWrap_SuccessWritesEnvelope(t *testing.T) {
	rec := serve(t, true, func(w http.ResponseWriter, r *http.Request) error {
		return Respond(w, OK(map[string]string{"title": "clip"}, "Video fetched successfully"))
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope[map[string]string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.Success)
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.Equal(t, "clip", env.Data["title"])
	assert.Equal(t, "Video fetched successfully", env.Message)
}

func TestWrap_TypedErrorKeepsStatus(t *testing.T) {
	for _, status := range []int{400, 401, 403, 404, 409, 422, 503} {
		rec := serve(t, true, func(w http.ResponseWriter, r *http.Request) error {
			return apperr.New(status, "nope", "detail")
		})
		env := decodeError(t, rec)
		assert.Equal(t, status, rec.Code)
		assert.Equal(t, status, env.StatusCode)
		assert.False(t, env.Success)
		assert.Equal(t, "nope", env.Message)
		assert.Equal(t, []string{"detail"}, env.Errors)
	}
}

func TestWrap_UnknownFaultDoesNotLeak(t *testing.T) {
	rec := serve(t, true, func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("dial tcp 10.0.0.7:8000: connection refused")
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "10.0.0.7")

	env := decodeError(t, rec)
	assert.Equal(t, "Internal Server Error", env.Message)
	assert.NotNil(t, env.Errors)
	assert.Empty(t, env.Stack)
}

func TestWrap_DevelopmentIncludesStack(t *testing.T) {
	rec := serve(t, false, func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("boom")
	})
	env := decodeError(t, rec)
	assert.Equal(t, "Internal Server Error", env.Message)
	assert.Equal(t, "boom", env.Stack)
}

func TestWrap_PanicBecomes500(t *testing.T) {
	rec := serve(t, true, func(w http.ResponseWriter, r *http.Request) error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeError(t, rec)
	assert.False(t, env.Success)
	assert.Equal(t, "Internal Server Error", env.Message)
}

func TestWrap_PanicStackOutsideProduction(t *testing.T) {
	rec := serve(t, false, func(w http.ResponseWriter, r *http.Request) error {
		panic("kaput")
	})
	env := decodeError(t, rec)
	assert.True(t, strings.HasPrefix(env.Stack, "panic: kaput"))
}

func TestWrap_RespondOnce(t *testing.T) {
	rec := serve(t, true, func(w http.ResponseWriter, r *http.Request) error {
		if err := Respond(w, Created("first", "ok")); err != nil {
			return err
		}
		return apperr.Conflict("late failure")
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "late failure")

	var env Envelope[string]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "first", env.Data)
}

func TestRespond_SecondCallFails(t *testing.T) {
	rec := serve(t, true, func(w http.ResponseWriter, r *http.Request) error {
		require.NoError(t, Respond(w, OK(1, "one")))
		err := Respond(w, OK(2, "two"))
		assert.ErrorIs(t, err, ErrResponseWritten)
		return err
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "two")
}

func TestWrapAuthed(t *testing.T) {
	rs := NewResponder(&Translator{Production: true})
	h := rs.WrapAuthed(func(w http.ResponseWriter, r *http.Request, p domain.Principal) error {
		return Respond(w, OK(p.UserID, "me"))
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	uid := id.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithPrincipal(req.Context(), domain.Principal{UserID: uid}))
	rec = httptest.NewRecorder()
	h(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), uid)
}

func TestEnvelope_RoundTrip(t *testing.T) {
	for _, status := range []int{200, 201, 204, 302, 400, 500} {
		in := New(status, []int{1, 2}, fmt.Sprintf("m%d", status))
		raw, err := json.Marshal(in)
		require.NoError(t, err)

		var out Envelope[[]int]
		require.NoError(t, json.Unmarshal(raw, &out))
		assert.Equal(t, in.StatusCode, out.StatusCode)
		assert.Equal(t, in.Message, out.Message)
		assert.Equal(t, status < 400, out.Success)
	}
}

type createVideo struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
}

func TestTranslate_Classification(t *testing.T) {
	tr := &Translator{Production: true}
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"invalid id", id.Validate("videoId", "bad"), 400, "Invalid videoId"},
		{"validation", validate.Struct(createVideo{}), 400, "title is required"},
		{"duplicate", fmt.Errorf("put user: %w", &domain.DuplicateError{Field: "username", Value: "ann"}), 409, "username already exists"},
		{"conditional check", &dynamotypes.ConditionalCheckFailedException{}, 409, "Resource was modified or already exists"},
		{"tx cancel", &dynamotypes.TransactionCanceledException{CancellationReasons: []dynamotypes.CancellationReason{
			{Code: aws.String("None")}, {Code: aws.String("ConditionalCheckFailed")},
		}}, 409, "Resource was modified or already exists"},
		{"tx cancel other", &dynamotypes.TransactionCanceledException{CancellationReasons: []dynamotypes.CancellationReason{
			{Code: aws.String("ThrottlingError")},
		}}, 500, "Internal Server Error"},
		{"not found sentinel", fmt.Errorf("video not found: %w", domain.ErrNotFound), 404, "Video not found"},
		{"forbidden sentinel", domain.ErrForbidden, 403, "Forbidden"},
		{"max bytes", fmt.Errorf("read: %w", &http.MaxBytesError{Limit: 1}), 413, "Request body too large"},
		{"nil", nil, 500, "Internal Server Error"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			env := tr.Translate(c.err)
			assert.Equal(t, c.status, env.StatusCode)
			assert.Equal(t, c.msg, env.Message)
			assert.False(t, env.Success)
			assert.NotNil(t, env.Errors)
		})
	}
}

func TestTranslate_ValidationListsEveryField(t *testing.T) {
	env := (&Translator{}).Translate(validate.Struct(createVideo{}))
	assert.Equal(t, []string{"title is required", "description is required"}, env.Errors)
}

func TestTranslate_OutOfRangeTypedStatus(t *testing.T) {
	env := (&Translator{}).Translate(apperr.New(http.StatusOK, "weird"))
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
}

func TestReadJSON(t *testing.T) {
	var dst createVideo
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"a","description":"b"}`))
	require.NoError(t, ReadJSON(req, &dst))
	assert.Equal(t, "a", dst.Title)

	for _, body := range []string{``, `{`, `{"title":"a","extra":1}`, `{"title":"a"}{"title":"b"}`} {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := ReadJSON(req, &createVideo{})
		ae, ok := apperr.As(err)
		require.True(t, ok, body)
		assert.Equal(t, http.StatusBadRequest, ae.StatusCode, body)
	}
}

func TestReadJSON_TooLarge(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"title":"`+strings.Repeat("a", 64)+`"}`))
	req.Body = http.MaxBytesReader(rec, req.Body, 8)
	ae, ok := apperr.As(ReadJSON(req, &createVideo{}))
	require.True(t, ok)
	assert.Equal(t, http.StatusRequestEntityTooLarge, ae.StatusCode)
}

func withParam(r *http.Request, key, val string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, val)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestPathID(t *testing.T) {
	uid := id.New()
	got, err := PathID(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "videoId", uid), "videoId")
	require.NoError(t, err)
	assert.Equal(t, uid, got)

	_, err = PathID(withParam(httptest.NewRequest(http.MethodGet, "/", nil), "videoId", "123"), "videoId")
	var ide *domain.InvalidIDError
	assert.True(t, errors.As(err, &ide))
}

func TestPageFromQuery(t *testing.T) {
	pr, err := PageFromQuery(httptest.NewRequest(http.MethodGet, "/?cursor=abc", nil))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultPageLimit, pr.Limit)
	assert.Equal(t, "abc", pr.Cursor)

	pr, err = PageFromQuery(httptest.NewRequest(http.MethodGet, "/?limit=1000", nil))
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPageLimit, pr.Limit)

	_, err = PageFromQuery(httptest.NewRequest(http.MethodGet, "/?limit=-1", nil))
	assert.Error(t, err)
}
