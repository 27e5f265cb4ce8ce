package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/mssola/useragent"

	"lifeclock/internal/auth/models"
	"lifeclock/internal/auth/service"
	"lifeclock/internal/platform/middleware"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	"lifeclock/pkg/platform/httputil"
	authmw "lifeclock/pkg/platform/middleware/auth"
	"lifeclock/pkg/requestcontext"
)

// Service defines the account operations used by the handler.
type Service interface {
	Signup(ctx context.Context, in service.SignupInput) (*models.User, error)
	CreateAuthToken(ctx context.Context, email, password string) (*models.IssuedToken, error)
	Signout(ctx context.Context, userID id.UserID, jti string, expiresAt time.Time) error
	FindUser(ctx context.Context, userID id.UserID) (*service.Profile, error)
	UpdateUser(ctx context.Context, userID id.UserID, in service.UpdateInput) error
	DeleteUser(ctx context.Context, userID id.UserID, jti string, expiresAt time.Time) error
}

// Handler serves /auth and /users. The /users routes and signout expect
// RequireAuth upstream.
type Handler struct {
	service      Service
	logger       *slog.Logger
	secureCookie bool
}

type Option func(*Handler)

// WithSecureCookie marks the auth cookie Secure. Enable behind TLS.
func WithSecureCookie(secure bool) Option {
	return func(h *Handler) {
		h.secureCookie = secure
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{service: service, logger: logger}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the public auth routes.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Post("/signup", h.HandleSignup)
		r.Post("/createAuthToken", h.HandleCreateAuthToken)
	})
}

// RegisterUsers mounts the account routes of the authenticated user.
func (h *Handler) RegisterUsers(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeJSON)
		r.Get("/find", h.HandleFindUser)
		r.Post("/update", h.HandleUpdateUser)
		r.Delete("/delete", h.HandleDeleteUser)
	})
}

func (h *Handler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SignupRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	in, err := req.Input(requestcontext.Now(ctx))
	if err != nil {
		h.fail(w, ctx, "invalid signup request", err)
		return
	}
	user, err := h.service.Signup(ctx, in)
	if err != nil {
		h.fail(w, ctx, "signup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, SignupResponse{
		Message: "user created",
		User:    UserResponse{ID: user.ID.String(), Username: user.Username, Email: user.Email},
	})
}

func (h *Handler) HandleCreateAuthToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	req, ok := httputil.DecodeAndPrepare[SigninRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	issued, err := h.service.CreateAuthToken(ctx, req.Email, req.Password)
	if err != nil {
		h.fail(w, ctx, "sign-in failed", err)
		return
	}

	h.logger.InfoContext(ctx, "signed in",
		"request_id", requestID,
		"jti", issued.JTI,
		"device", deviceLabel(requestcontext.UserAgent(ctx)),
		"client_ip", requestcontext.ClientIP(ctx),
	)
	http.SetCookie(w, h.authCookie(issued.Token, issued.ExpiresAt))
	httputil.WriteJSON(w, http.StatusOK, TokenResponse{
		Token:     issued.Token,
		ExpiresAt: issued.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) HandleSignout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	if err := h.service.Signout(ctx, userID, requestcontext.TokenID(ctx), requestcontext.TokenExpiry(ctx)); err != nil {
		h.fail(w, ctx, "sign-out failed", err)
		return
	}
	http.SetCookie(w, h.clearedCookie())
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "signed out"})
}

func (h *Handler) HandleFindUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	profile, err := h.service.FindUser(ctx, userID)
	if err != nil {
		h.fail(w, ctx, "failed to find user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FindUserResponse{User: ProfileResponse{
		ID:        profile.User.ID.String(),
		Email:     profile.User.Email,
		Username:  profile.User.Username,
		Sex:       string(profile.Sex),
		BirthDate: profile.BirthDate.Format(time.DateOnly),
	}})
}

func (h *Handler) HandleUpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateUserRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if err := h.service.UpdateUser(ctx, userID, service.UpdateInput{Email: req.Email, Password: req.Password}); err != nil {
		h.fail(w, ctx, "failed to update user", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "user updated"})
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID, ok := h.requireUser(w, ctx)
	if !ok {
		return
	}
	if err := h.service.DeleteUser(ctx, userID, requestcontext.TokenID(ctx), requestcontext.TokenExpiry(ctx)); err != nil {
		h.fail(w, ctx, "failed to delete user", err)
		return
	}
	http.SetCookie(w, h.clearedCookie())
	httputil.WriteJSON(w, http.StatusOK, MessageResponse{Message: "user deleted"})
}

func (h *Handler) authCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     authmw.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *Handler) clearedCookie() *http.Cookie {
	return &http.Cookie{
		Name:     authmw.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

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

func (h *Handler) fail(w http.ResponseWriter, ctx context.Context, msg string, err error) {
	attrs := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	if userID := requestcontext.UserID(ctx); !userID.IsNil() {
		attrs = append(attrs, "user_id", userID.String())
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg, attrs...)
	} else {
		h.logger.WarnContext(ctx, msg, attrs...)
	}
	httputil.WriteError(w, err)
}

// deviceLabel turns a User-Agent into "Browser on OS" for sign-in logs.
func deviceLabel(userAgent string) string {
	if userAgent == "" {
		return "unknown"
	}
	ua := useragent.New(userAgent)
	if ua.Bot() {
		return "bot"
	}
	browser, _ := ua.Browser()
	os := ua.OS()
	switch {
	case browser == "" && os == "":
		return "unknown"
	case os == "":
		return browser
	case browser == "":
		return os
	}
	label := browser + " on " + os
	if ua.Mobile() {
		label += " (mobile)"
	}
	return strings.TrimSpace(label)
}
