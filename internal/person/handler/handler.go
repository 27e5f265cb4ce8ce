package handler

import (
	"context"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"lifeclock/internal/person/calendar"
	"lifeclock/internal/person/models"
	"lifeclock/internal/person/service"
	"lifeclock/internal/person/vcardimport"
	"lifeclock/internal/platform/middleware"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/platform/httputil"
	"lifeclock/pkg/requestcontext"
)

// Service defines the person operations used by the handler.
type Service interface {
	Find(ctx context.Context, userID id.UserID, personID id.PersonID) (*models.Person, error)
	FindAll(ctx context.Context, userID id.UserID) ([]service.PersonWithRemain, error)
	CheckCount(ctx context.Context, userID id.UserID) (int, error)
	Create(ctx context.Context, userID id.UserID, details models.Details) (*models.Person, error)
	Update(ctx context.Context, userID id.UserID, personID id.PersonID, details models.Details) error
	Delete(ctx context.Context, userID id.UserID, personID id.PersonID) error
	Import(ctx context.Context, userID id.UserID, details []models.Details) (service.ImportResult, error)
	ExpectedEnd(ctx context.Context, userID id.UserID, personID id.PersonID) (service.ExpectedEnd, error)
}

// Handler serves /persons. Every route expects RequireAuth upstream.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the person routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/find/{id}", h.HandleFind)
		r.Get("/findAll", h.HandleFindAll)
		r.Get("/checkCount", h.HandleCheckCount)
		r.Post("/create", h.HandleCreate)
		r.Post("/edit/{id}", h.HandleEdit)
		r.Delete("/delete/{id}", h.HandleDelete)
	})
	r.Post("/import", h.HandleImport)
	r.Get("/{id}/calendar.ics", h.HandleCalendar)
}

// requireUser returns the authenticated user or writes an internal error.
func (h *Handler) requireUser(w http.ResponseWriter, ctx context.Context) (id.UserID, bool) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		h.logger.ErrorContext(ctx, "userID missing from context despite auth middleware",
			"request_id", requestcontext.RequestID(ctx),
		)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return id.UserID{}, false
	}
	return userID, true
}

func (h *Handler) personID(w http.ResponseWriter, r *http.Request) (id.PersonID, bool) {
	personID, err := id.ParsePersonID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.PersonID{}, false
	}
	return personID, true
}

func (h *Handler) fail(w http.ResponseWriter, ctx context.Context, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"user_id", requestcontext.UserID(ctx).String(),
		"error", err,
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

func (h *Handler) HandleFind(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	personID, ok := h.personID(w, r)
	if !ok {
		return
	}
	p, err := h.service.Find(ctx, userID, personID)
	if err != nil {
		h.fail(w, ctx, "failed to find person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FindResponse{Person: toPersonResponse(p)})
}

func (h *Handler) HandleFindAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	list, err := h.service.FindAll(ctx, userID)
	if err != nil {
		h.fail(w, ctx, "failed to list persons", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toFindAllResponse(list))
}

func (h *Handler) HandleCheckCount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	n, err := h.service.CheckCount(ctx, userID)
	if err != nil {
		h.fail(w, ctx, "person limit check failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CountResponse{PersonsCount: n})
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PersonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	details, err := req.Details(requestcontext.Now(ctx))
	if err != nil {
		h.fail(w, ctx, "invalid person", err)
		return
	}
	if _, err := h.service.Create(ctx, userID, details); err != nil {
		h.fail(w, ctx, "failed to create person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "person created"})
}

func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	personID, ok := h.personID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[PersonRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	details, err := req.Details(requestcontext.Now(ctx))
	if err != nil {
		h.fail(w, ctx, "invalid person", err)
		return
	}
	if err := h.service.Update(ctx, userID, personID, details); err != nil {
		h.fail(w, ctx, "failed to update person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "person updated"})
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	personID, ok := h.personID(w, r)
	if !ok {
		return
	}
	if err := h.service.Delete(ctx, userID, personID); err != nil {
		h.fail(w, ctx, "failed to delete person", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "person deleted"})
}

// HandleImport accepts a text/vcard body.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || (mediaType != "text/vcard" && mediaType != "text/x-vcard") {
		httputil.WriteJSON(w, http.StatusUnsupportedMediaType, httputil.ErrorResponse{
			Error:   "unsupported_media_type",
			Message: "Content-Type must be text/vcard",
		})
		return
	}

	parsed, err := vcardimport.Parse(io.LimitReader(r.Body, httputil.MaxBodyBytes), requestcontext.Now(ctx))
	if err != nil {
		h.fail(w, ctx, "invalid vCard import", err)
		return
	}
	result, err := h.service.Import(ctx, userID, parsed.Details)
	if err != nil {
		h.fail(w, ctx, "failed to import persons", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ImportResponse{
		Imported: result.Imported,
		Skipped:  result.Skipped + parsed.Skipped,
	})
}

func (h *Handler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	personID, ok := h.personID(w, r)
	if !ok {
		return
	}
	end, err := h.service.ExpectedEnd(ctx, userID, personID)
	if err != nil {
		h.fail(w, ctx, "failed to compute expected end date", err)
		return
	}

	cal := calendar.Build(calendar.Entry{
		UID:     personID.String() + "@lifeclock",
		Summary: end.Person.Name,
		At:      end.At,
		Found:   end.Found,
	}, requestcontext.Now(ctx))
	body, err := calendar.Encode(cal)
	if err != nil {
		h.fail(w, ctx, "failed to encode calendar", dErrors.Wrap(err, dErrors.CodeInternal, "failed to encode calendar"))
		return
	}
	w.Header().Set("Content-Type", calendar.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+personID.String()+`.ics"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
