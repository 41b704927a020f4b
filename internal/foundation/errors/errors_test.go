package errors

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid site literal").
			WithSeverity(SeverityFatal).
			WithContext("file", "site.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "site.yaml" {
			t.Errorf("expected context file=site.yaml, got %v", file)
		}
	})

	t.Run("Config errors are fatal and not retryable", func(t *testing.T) {
		err := ConfigError("duplicate key").Build()
		if !HasCategory(err, CategoryConfig) {
			t.Error("expected config category")
		}
		if err.CanRetry() {
			t.Error("expected config error to not be retryable")
		}
		if !err.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Classification survives wrapping", func(t *testing.T) {
		inner := GitError("branch not found").Build()
		wrapped := fmt.Errorf("load content: %w", inner)
		if GetCategory(wrapped) != CategoryGit {
			t.Errorf("expected git category through wrap, got %s", GetCategory(wrapped))
		}
		if GetCategory(errors.New("plain")) != CategoryInternal {
			t.Error("expected unclassified errors to report internal")
		}
	})

	t.Run("WithContext does not mutate the receiver", func(t *testing.T) {
		base := ContentError("bad frontmatter").Build()
		derived := base.WithContext("path", "/1.x/")
		if _, ok := base.Context().Get("path"); ok {
			t.Error("expected base context untouched")
		}
		if v, _ := derived.Context().GetString("path"); v != "/1.x/" {
			t.Errorf("expected derived context path, got %q", v)
		}
	})
}

func TestErrorBuilderWrap(t *testing.T) {
	original := errors.New("connection refused")
	err := WrapError(original, CategoryTransport, "publish failed").
		Warning().
		Retryable().
		WithContext("subject", "docnav.issues").
		Build()

	if !errors.Is(err, original) {
		t.Error("expected error to wrap original error")
	}
	if !err.CanRetry() {
		t.Error("expected retryable error")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("expected cause in message, got %q", err.Error())
	}
}

type multiProblem struct{ lines []string }

func (m *multiProblem) Error() string     { return "configuration invalid" }
func (m *multiProblem) Details() []string { return m.lines }
func (m *multiProblem) Unwrap() error     { return ConfigError("configuration invalid").Build() }

func TestCLIErrorAdapter(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	cases := []struct {
		err  error
		code int
	}{
		{nil, 0},
		{errors.New("boom"), 1},
		{ConfigError("x").Build(), 7},
		{ValidationError("x").Build(), 2},
		{NotFoundError("x").Build(), 4},
		{TransportError("x").Build(), 8},
		{StorageError("x").Build(), 11},
		{InternalError("x").Build(), 10},
	}
	for _, tc := range cases {
		if got := a.ExitCodeFor(tc.err); got != tc.code {
			t.Errorf("ExitCodeFor(%v) = %d, want %d", tc.err, got, tc.code)
		}
	}

	t.Run("details are listed", func(t *testing.T) {
		err := &multiProblem{lines: []string{"sidebar: duplicate key \"/\"", "sidebar[\"/\"][0]: empty path"}}
		msg := a.FormatError(err)
		if !strings.Contains(msg, "duplicate key") || !strings.Contains(msg, "empty path") {
			t.Errorf("expected all problems in output, got %q", msg)
		}
		if a.ExitCodeFor(err) != 7 {
			t.Errorf("expected config exit code through Unwrap")
		}
	})

	t.Run("HandleError exits with mapped code", func(t *testing.T) {
		var out bytes.Buffer
		var code int
		h := NewCLIErrorAdapter(false, nil)
		h.out = &out
		h.exit = func(c int) { code = c }
		h.HandleError(ConfigError("broken").Build())
		if code != 7 {
			t.Errorf("expected exit 7, got %d", code)
		}
		if !strings.Contains(out.String(), "broken") {
			t.Errorf("expected message on output, got %q", out.String())
		}
	})
}

func TestHTTPErrorAdapter(t *testing.T) {
	a := NewHTTPErrorAdapter(nil)

	if got := a.StatusCodeFor(NotFoundError("no section").Build()); got != http.StatusNotFound {
		t.Errorf("expected 404, got %d", got)
	}
	if got := a.StatusCodeFor(ValidationError("bad path").Build()); got != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", got)
	}
	if got := a.StatusCodeFor(errors.New("x")); got != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", got)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/sidebar", nil)
	a.WriteErrorResponse(rec, req, ValidationError("path is required").WithContext("param", "path").Build())
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"code":"validation"`) {
		t.Errorf("expected category code in body, got %s", rec.Body.String())
	}
}
