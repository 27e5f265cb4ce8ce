package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"lifeclock/pkg/platform/httputil"
	"lifeclock/pkg/requestcontext"
)

// Service computes remaining lifespan.
type Service interface {
	RemainTime(ctx context.Context, sex string, birth time.Time) (int64, error)
}

// Handler serves the lifespan endpoint.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the lifespan routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/lifespan", h.HandleLifespan)
}

// RemainTimeResponse is the body of a successful lifespan lookup.
type RemainTimeResponse struct {
	RemainTime int64 `json:"remainTime"`
}

// HandleLifespan handles GET /lifespan?sex=..&year=..
func (h *Handler) HandleLifespan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	q, err := ParseLifespanQuery(r.URL.Query())
	if err != nil {
		h.logger.WarnContext(ctx, "invalid lifespan query",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	remain, err := h.service.RemainTime(ctx, q.Sex, q.BirthDate())
	if err != nil {
		h.logger.ErrorContext(ctx, "remaining time calculation failed",
			"request_id", requestID,
			"sex", q.Sex,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, RemainTimeResponse{RemainTime: remain})
}
