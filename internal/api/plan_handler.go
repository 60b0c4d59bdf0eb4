package api

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/dumblesdoor/socialkit/internal/api/shared"
	"github.com/dumblesdoor/socialkit/internal/controller"
	"github.com/dumblesdoor/socialkit/internal/metrics"
	"github.com/dumblesdoor/socialkit/internal/platform/logger"
)

//go:embed templates/page.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// DefaultWaitTimeout bounds GET /api/plan?wait=true.
const DefaultWaitTimeout = 90 * time.Second

// PlanController is the subset of controller.Controller used by the handlers.
type PlanController interface {
	Submit(description string) error
	Snapshot() controller.Snapshot
	Wait(ctx context.Context) (controller.Snapshot, error)
}

// PlanHandler serves the page and the JSON plan API.
type PlanHandler struct {
	controller  PlanController
	logger      *slog.Logger
	waitTimeout time.Duration
}

// NewPlanHandler creates a new PlanHandler.
func NewPlanHandler(c PlanController, logger *slog.Logger) *PlanHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &PlanHandler{
		controller:  c,
		logger:      logger.With("component", "plan_handler"),
		waitTimeout: DefaultWaitTimeout,
	}
}

// WithWaitTimeout sets the upper bound for GET /api/plan?wait=true.
func (h *PlanHandler) WithWaitTimeout(d time.Duration) *PlanHandler {
	h.waitTimeout = d
	return h
}

// log returns the trace-scoped request logger when the trace middleware ran,
// and the handler logger otherwise.
func (h *PlanHandler) log(ctx context.Context) *slog.Logger {
	if shared.GetTraceID(ctx) != "" {
		return logger.FromContext(ctx).With("component", "plan_handler")
	}
	return h.logger
}

type pageData struct {
	Snapshot       controller.Snapshot
	Loading        bool
	LoadingMessage string
	MaxLength      int
	// FormError is shown in place of the snapshot message when a form
	// submission was rejected before reaching the controller.
	FormError string
}

// ShowPage handles GET /.
func (h *PlanHandler) ShowPage(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, "")
}

func (h *PlanHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, formError string) {
	snap := h.controller.Snapshot()

	data := pageData{
		Snapshot:       snap,
		Loading:        snap.Loading(),
		LoadingMessage: controller.MessageLoading,
		MaxLength:      MaxDescriptionLength,
		FormError:      formError,
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := pageTemplate.Execute(w, data); err != nil {
		h.log(r.Context()).ErrorContext(r.Context(), "failed to render page", "error", err)
	}
}

// SubmitForm handles POST /plan and redirects back to the page, which shows
// the outcome of the submission. Submissions rejected before reaching the
// controller re-render the page with the reason instead.
func (h *PlanHandler) SubmitForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, shared.MaxRequestBodyBytes)
	if err := r.ParseForm(); err != nil {
		h.log(ctx).WarnContext(ctx, "invalid form submission", "error", err)
		h.renderPage(w, r, http.StatusBadRequest, "Invalid form submission")
		return
	}

	req := PlanRequest{Description: r.PostFormValue("description")}
	if err := shared.ValidateRequest(&req); err != nil {
		h.log(ctx).WarnContext(ctx, "form validation failed", "error", err)
		h.renderPage(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	if err := h.controller.Submit(req.Description); err != nil {
		switch {
		case errors.Is(err, controller.ErrBusy):
			metrics.RecordBusy()
		case errors.Is(err, controller.ErrValidation):
			// The page shows the validation message.
		default:
			h.log(ctx).ErrorContext(ctx, "form submission failed", "error", err)
			h.renderPage(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err))
			return
		}
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// CreatePlan handles POST /api/plan.
func (h *PlanHandler) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if err := h.controller.Submit(req.Description); err != nil {
		if errors.Is(err, controller.ErrBusy) {
			metrics.RecordBusy()
		}
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err,
			shared.WithElevatedLogLevel())
		return
	}

	snap := h.controller.Snapshot()
	h.log(r.Context()).InfoContext(r.Context(), "plan submitted",
		"request_id", snap.RequestID)

	shared.RespondWithJSON(w, r, http.StatusAccepted, NewPlanResponse(snap))
}

// GetPlan handles GET /api/plan. With wait=true it blocks until the in-flight
// request settles, the client goes away, or the wait timeout elapses; the
// current snapshot is returned in every case.
func (h *PlanHandler) GetPlan(w http.ResponseWriter, r *http.Request) {
	wait := false
	if raw := r.URL.Query().Get("wait"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid wait parameter")
			return
		}
		wait = parsed
	}

	snap := h.controller.Snapshot()
	if wait && snap.Loading() {
		ctx, cancel := context.WithTimeout(r.Context(), h.waitTimeout)
		defer cancel()

		var err error
		snap, err = h.controller.Wait(ctx)
		if err != nil {
			h.log(r.Context()).DebugContext(r.Context(), "wait ended before request settled",
				"error", err)
		}
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewPlanResponse(snap))
}

// Health handles GET /health.
func (h *PlanHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status: "ok",
		State:  h.controller.Snapshot().State.String(),
	})
}
