package api

import (
	"time"

	"github.com/dumblesdoor/socialkit/internal/controller"
)

// MaxDescriptionLength bounds the business description accepted over HTTP.
const MaxDescriptionLength = 4000

// PlanRequest defines the payload for the plan creation endpoint.
// Description is not required here: a blank description is a controller
// state transition, not a malformed request.
type PlanRequest struct {
	Description string `json:"description" validate:"max=4000"`
}

// PlanResponse is the JSON view of a controller snapshot.
type PlanResponse struct {
	State       string     `json:"state"`
	Description string     `json:"description,omitempty"`
	Markdown    string     `json:"markdown,omitempty"`
	HTML        string     `json:"html,omitempty"`
	ErrorKind   string     `json:"error_kind,omitempty"`
	Message     string     `json:"message,omitempty"`
	RequestID   string     `json:"request_id,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	SettledAt   *time.Time `json:"settled_at,omitempty"`
	ElapsedMS   int64      `json:"elapsed_ms,omitempty"`
}

// NewPlanResponse converts a snapshot into its JSON view.
func NewPlanResponse(snap controller.Snapshot) PlanResponse {
	resp := PlanResponse{
		State:       snap.State.String(),
		Description: snap.Description,
		Markdown:    snap.Markdown,
		HTML:        string(snap.HTML),
		ErrorKind:   string(snap.ErrorKind),
		Message:     snap.Message,
		RequestID:   snap.RequestID,
		ElapsedMS:   snap.Elapsed().Milliseconds(),
	}

	if snap.Loading() && resp.Message == "" {
		resp.Message = controller.MessageLoading
	}
	if !snap.StartedAt.IsZero() {
		started := snap.StartedAt
		resp.StartedAt = &started
	}
	if !snap.SettledAt.IsZero() {
		settled := snap.SettledAt
		resp.SettledAt = &settled
	}

	return resp
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	State  string `json:"state"`
}
