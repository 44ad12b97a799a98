package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/taskboard/internal/model"
)

func TestWriteJSON_SuccessEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusCreated, map[string]int{"id": 1})

	if w.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", w.Code, http.StatusCreated)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	body := strings.TrimSpace(w.Body.String())
	if body != `{"status":"success","data":{"id":1}}` {
		t.Errorf("body = %s", body)
	}
}

func TestWriteJSON_EmptyListIsKept(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, []int{})

	if body := strings.TrimSpace(w.Body.String()); body != `{"status":"success","data":[]}` {
		t.Errorf("body = %s", body)
	}
}

func TestWriteErrorResponse_ErrorEnvelope(t *testing.T) {
	w := httptest.NewRecorder()
	WriteErrorResponse(w, http.StatusBadRequest, model.NewValidationError("Name is mandatory"))

	env := decodeEnvelope(t, w)
	if env.Status != StatusError || env.Code != model.ErrCodeValidationFailed {
		t.Errorf("envelope = %+v", env)
	}
	if env.Message != "Name is mandatory" || len(env.Details) != 1 {
		t.Errorf("message/details = %q / %v", env.Message, env.Details)
	}
	if env.Data != nil {
		t.Errorf("エラー時にdataが含まれている: %v", env.Data)
	}
}

func TestRecoveryMiddleware_Returns500Envelope(t *testing.T) {
	handler := NewRecoveryMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("unexpected nil")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
	env := decodeEnvelope(t, w)
	if env.Code != model.ErrCodeInternal || strings.Contains(env.Message, "unexpected nil") {
		t.Errorf("envelope = %+v", env)
	}
}

func TestSecurityHeadersMiddleware(t *testing.T) {
	w := httptest.NewRecorder()
	NewSecurityHeadersMiddleware()(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	}
	for k, v := range want {
		if got := w.Header().Get(k); got != v {
			t.Errorf("%s = %q, want %q", k, got, v)
		}
	}
}

type recordingCollector struct {
	statuses  []int
	latencies []time.Duration
}

func (c *recordingCollector) RecordTokenIssued(string)               {}
func (c *recordingCollector) RecordTokenVerification(string, string) {}
func (c *recordingCollector) RecordTokensSwept(int64)                {}
func (c *recordingCollector) RecordNotification(string, string)      {}
func (c *recordingCollector) RecordHTTPStatus(code int)              { c.statuses = append(c.statuses, code) }
func (c *recordingCollector) RecordRequestLatency(d time.Duration)   { c.latencies = append(c.latencies, d) }

func TestMetricsMiddleware_RecordsStatusAndLatency(t *testing.T) {
	c := &recordingCollector{}
	handler := NewMetricsMiddleware(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(c.statuses) != 1 || c.statuses[0] != http.StatusNotFound {
		t.Errorf("statuses = %v", c.statuses)
	}
	if len(c.latencies) != 1 {
		t.Errorf("latencies = %v", c.latencies)
	}
}
