package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dumblesdoor/socialkit/internal/api/shared"
	"github.com/dumblesdoor/socialkit/internal/controller"
	"github.com/dumblesdoor/socialkit/internal/generation"
	"github.com/dumblesdoor/socialkit/internal/metrics"
	"github.com/dumblesdoor/socialkit/internal/mocks"
	"github.com/dumblesdoor/socialkit/internal/platform/logger"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T, gen *mocks.MockGenerator) (*PlanHandler, *controller.Controller) {
	t.Helper()

	ctrl, err := controller.New(controller.Options{
		Factory:    generation.Static(gen),
		Logger:     logger.Discard(),
		ConfigHint: "Please set GEMINI_API_KEY.",
	})
	require.NoError(t, err)
	t.Cleanup(ctrl.Close)

	return NewPlanHandler(ctrl, logger.Discard()).WithWaitTimeout(5 * time.Second), ctrl
}

func settle(t *testing.T, ctrl *controller.Controller) controller.Snapshot {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := ctrl.Wait(ctx)
	require.NoError(t, err)
	return snap
}

func getPage(t *testing.T, h *PlanHandler) string {
	t.Helper()
	w := httptest.NewRecorder()
	h.ShowPage(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	return w.Body.String()
}

func postForm(h *PlanHandler, description string) *httptest.ResponseRecorder {
	form := url.Values{"description": {description}}
	req := httptest.NewRequest(http.MethodPost, "/plan", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	h.SubmitForm(w, req)
	return w
}

func postJSON(h *PlanHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/plan", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.CreatePlan(w, req)
	return w
}

func TestShowPageIdle(t *testing.T) {
	h, _ := newTestHandler(t, mocks.NewMockGeneratorWithText(mocks.SamplePlan(7)))

	page := getPage(t, h)

	assert.Contains(t, page, "Dumble's Door AI Presents:")
	assert.Contains(t, page, "The One-Click Social Media Kit")
	assert.Contains(t, page, "Powered by Dumble's Door AI &amp; Google Gemini")
	assert.Contains(t, page, "Generate My Plan")
	assert.NotContains(t, page, `http-equiv="refresh"`)
	assert.NotContains(t, page, `role="alert"`)
	assert.NotContains(t, page, " disabled>")
}

func TestPageLifecycle(t *testing.T) {
	gen := mocks.NewBlockingMockGenerator(mocks.SamplePlan(7))
	h, ctrl := newTestHandler(t, gen)

	w := postForm(h, "A specialty coffee shop in Kolkata")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	loading := getPage(t, h)
	assert.Contains(t, loading, `http-equiv="refresh"`)
	assert.Contains(t, loading, controller.MessageLoading)
	assert.Contains(t, loading, " disabled>")
	assert.Contains(t, loading, "A specialty coffee shop in Kolkata")

	close(gen.Gate)
	settle(t, ctrl)

	done := getPage(t, h)
	assert.NotContains(t, done, `http-equiv="refresh"`)
	assert.NotContains(t, done, controller.MessageLoading)
	assert.Equal(t, 7, strings.Count(done, "<h3"))
	assert.Contains(t, done, "Day 1: Theme 1")
}

func TestPageShowsErrors(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		h, _ := newTestHandler(t, mocks.NewMockGeneratorWithText("x"))

		w := postForm(h, "   ")
		assert.Equal(t, http.StatusSeeOther, w.Code)

		page := getPage(t, h)
		assert.Contains(t, page, `role="alert"`)
		assert.Contains(t, page, controller.MessageValidation)
	})

	t.Run("service", func(t *testing.T) {
		h, ctrl := newTestHandler(t, mocks.MockGeneratorThatFails())

		postForm(h, "bakery")
		settle(t, ctrl)

		page := getPage(t, h)
		assert.Contains(t, page, `role="alert"`)
		assert.Contains(t, page, "Failed to generate social media plan.")
	})
}

func TestPageEscapesDescription(t *testing.T) {
	h, ctrl := newTestHandler(t, mocks.NewMockGeneratorWithText(mocks.SamplePlan(1)))

	postForm(h, "</textarea><script>alert(1)</script>")
	settle(t, ctrl)

	page := getPage(t, h)
	assert.NotContains(t, page, "<script>alert(1)</script>")
}

func TestSubmitFormTooLong(t *testing.T) {
	gen := mocks.NewMockGeneratorWithText("x")
	h, _ := newTestHandler(t, gen)

	w := postForm(h, strings.Repeat("a", MaxDescriptionLength+1))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	page := w.Body.String()
	assert.Contains(t, page, `role="alert"`)
	assert.Contains(t, page, "Invalid Description: too long")
	assert.Contains(t, page, "Generate My Plan")
	assert.NotContains(t, page, `"error"`)
	assert.Equal(t, 0, gen.CallCount())
}

func TestDescriptionLengthCountsCharacters(t *testing.T) {
	// Bengali letters take three bytes each in UTF-8.
	bengali := strings.Repeat("ক", 1500)
	require.Greater(t, len(bengali), MaxDescriptionLength)

	t.Run("form", func(t *testing.T) {
		h, ctrl := newTestHandler(t, mocks.NewMockGeneratorWithText(mocks.SamplePlan(1)))

		w := postForm(h, bengali)
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, controller.StateSuccess, settle(t, ctrl).State)
	})

	t.Run("json", func(t *testing.T) {
		h, ctrl := newTestHandler(t, mocks.NewMockGeneratorWithText(mocks.SamplePlan(1)))

		w := postJSON(h, `{"description": "`+bengali+`"}`)
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.Equal(t, controller.StateSuccess, settle(t, ctrl).State)
	})

	t.Run("form_at_limit", func(t *testing.T) {
		h, ctrl := newTestHandler(t, mocks.NewMockGeneratorWithText(mocks.SamplePlan(1)))

		w := postForm(h, strings.Repeat("ক", MaxDescriptionLength))
		assert.Equal(t, http.StatusSeeOther, w.Code)
		settle(t, ctrl)
	})

	t.Run("form_over_limit", func(t *testing.T) {
		h, _ := newTestHandler(t, mocks.NewMockGeneratorWithText("x"))

		w := postForm(h, strings.Repeat("ক", MaxDescriptionLength+1))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid Description: too long")
	})
}

func TestCreatePlan(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedError  string
	}{
		{"blank description", `{"description": "  "}`, http.StatusBadRequest, controller.MessageValidation},
		{"missing description", `{}`, http.StatusBadRequest, controller.MessageValidation},
		{"malformed json", `{"description": `, http.StatusBadRequest, "Invalid request format"},
		{"unknown field", `{"desc": "cafe"}`, http.StatusBadRequest, "Invalid request format"},
		{
			"too long",
			`{"description": "` + strings.Repeat("a", MaxDescriptionLength+1) + `"}`,
			http.StatusBadRequest,
			"Invalid Description: too long",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			gen := mocks.NewMockGeneratorWithText("x")
			h, _ := newTestHandler(t, gen)

			w := postJSON(h, tc.body)
			assert.Equal(t, tc.expectedStatus, w.Code)

			var resp shared.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.expectedError, resp.Error)
			assert.Equal(t, 0, gen.CallCount())
		})
	}
}

func TestCreatePlanAcceptedThenBusy(t *testing.T) {
	gen := mocks.NewBlockingMockGenerator(mocks.SamplePlan(7))
	h, ctrl := newTestHandler(t, gen)

	w := postJSON(h, `{"description": "A specialty coffee shop in Kolkata"}`)
	require.Equal(t, http.StatusAccepted, w.Code)

	var accepted PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &accepted))
	assert.Equal(t, "loading", accepted.State)
	assert.Equal(t, controller.MessageLoading, accepted.Message)
	assert.NotEmpty(t, accepted.RequestID)
	assert.NotNil(t, accepted.StartedAt)

	before := testutil.ToFloat64(metrics.SubmissionsRejectedTotal.WithLabelValues(metrics.ReasonBusy))

	busy := postJSON(h, `{"description": "another"}`)
	assert.Equal(t, http.StatusConflict, busy.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.SubmissionsRejectedTotal.WithLabelValues(metrics.ReasonBusy)))

	close(gen.Gate)
	snap := settle(t, ctrl)
	assert.Equal(t, controller.StateSuccess, snap.State)
	assert.Equal(t, 1, gen.CallCount())
}

func TestGetPlan(t *testing.T) {
	gen := mocks.NewBlockingMockGenerator(mocks.SamplePlan(7))
	h, _ := newTestHandler(t, gen)

	get := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h.GetPlan(w, httptest.NewRequest(http.MethodGet, "/api/plan"+query, nil))
		return w
	}

	idle := get("")
	require.Equal(t, http.StatusOK, idle.Code)
	var resp PlanResponse
	require.NoError(t, json.Unmarshal(idle.Body.Bytes(), &resp))
	assert.Equal(t, "idle", resp.State)

	require.Equal(t, http.StatusAccepted, postJSON(h, `{"description": "bakery"}`).Code)

	go func() {
		time.Sleep(20 * time.Millisecond)
		close(gen.Gate)
	}()

	waited := get("?wait=true")
	require.Equal(t, http.StatusOK, waited.Code)
	require.NoError(t, json.Unmarshal(waited.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.State)
	assert.Contains(t, resp.HTML, "<h3")
	assert.Contains(t, resp.Markdown, "### Day 7")
	assert.NotNil(t, resp.SettledAt)
	assert.Empty(t, resp.ErrorKind)

	assert.Equal(t, http.StatusBadRequest, get("?wait=maybe").Code)
}

func TestGetPlanWaitTimeout(t *testing.T) {
	gen := mocks.NewBlockingMockGenerator("x")
	h, _ := newTestHandler(t, gen)
	h.WithWaitTimeout(10 * time.Millisecond)
	t.Cleanup(func() { close(gen.Gate) })

	require.Equal(t, http.StatusAccepted, postJSON(h, `{"description": "bakery"}`).Code)

	w := httptest.NewRecorder()
	h.GetPlan(w, httptest.NewRequest(http.MethodGet, "/api/plan?wait=1", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp PlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "loading", resp.State)
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t, mocks.NewMockGeneratorWithText("x"))

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","state":"idle"}`, w.Body.String())
}

func TestSubmitAfterClose(t *testing.T) {
	h, ctrl := newTestHandler(t, mocks.NewMockGeneratorWithText("x"))
	ctrl.Close()

	assert.Equal(t, http.StatusServiceUnavailable, postJSON(h, `{"description": "bakery"}`).Code)

	w := postForm(h, "bakery")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "The service is shutting down.")
}
