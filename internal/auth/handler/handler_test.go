package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"lifeclock/internal/auth/handler/mocks"
	"lifeclock/internal/auth/models"
	"lifeclock/internal/auth/service"
	lifespan "lifeclock/internal/lifespan/models"
	id "lifeclock/pkg/domain"
	dErrors "lifeclock/pkg/domain-errors"
	authmw "lifeclock/pkg/platform/middleware/auth"
	"lifeclock/pkg/requestcontext"
	"lifeclock/pkg/testutil"
)

type AuthHandlerSuite struct {
	suite.Suite
	ctrl    *gomock.Controller
	service *mocks.MockService
	router  chi.Router
	now     time.Time
}

func TestAuthHandlerSuite(t *testing.T) {
	suite.Run(t, new(AuthHandlerSuite))
}

func (s *AuthHandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.service = mocks.NewMockService(s.ctrl)
	h := New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil)), WithSecureCookie(true))
	s.router = chi.NewRouter()
	s.router.Route("/auth", func(r chi.Router) {
		h.Register(r)
		r.Post("/signout", h.HandleSignout)
	})
	s.router.Route("/users", h.RegisterUsers)
	s.now = time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
}

func (s *AuthHandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *AuthHandlerSuite) TestSignup() {
	s.Run("creates the account", func() {
		userID := id.NewUserID()
		s.service.EXPECT().Signup(gomock.Any(), service.SignupInput{
			Username:  "Taro",
			Email:     "taro@example.com",
			Password:  "correct horse",
			Sex:       lifespan.SexMale,
			BirthDate: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		}).Return(&models.User{ID: userID, Username: "Taro", Email: "taro@example.com"}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signup", map[string]string{
			"username": "Taro", "email": " Taro@Example.com", "password": "correct horse",
			"birthDate": "1990-01-02", "sex": "male",
		})
		rr := testutil.DoRequest(s.router, testutil.AtTime(req, s.now))
		s.Require().Equal(http.StatusOK, rr.Code, rr.Body.String())

		body := testutil.UnmarshalResponse[SignupResponse](s.T(), rr)
		s.Equal(userID.String(), body.User.ID)
		s.Equal("taro@example.com", body.User.Email)
	})

	s.Run("username defaults from email", func() {
		s.service.EXPECT().Signup(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ any, in service.SignupInput) (*models.User, error) {
				s.Equal("Hanako Yamada", in.Username)
				return &models.User{ID: id.NewUserID(), Username: in.Username, Email: in.Email}, nil
			})

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signup", map[string]string{
			"email": "hanako.yamada@example.com", "password": "correct horse",
			"birthDate": "1992-03-04", "sex": "female",
		})
		rr := testutil.DoRequest(s.router, testutil.AtTime(req, s.now))
		s.Equal(http.StatusOK, rr.Code, rr.Body.String())
	})

	s.Run("duplicate email", func() {
		s.service.EXPECT().Signup(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeConflict, "email is already registered"))
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signup", map[string]string{
			"username": "Taro", "email": "taro@example.com", "password": "correct horse",
			"birthDate": "1990-01-02", "sex": "male",
		})
		rr := testutil.DoRequest(s.router, testutil.AtTime(req, s.now))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})

	invalid := map[string]map[string]string{
		"bad email":     {"email": "not-an-email", "password": "correct horse", "birthDate": "1990-01-02", "sex": "male"},
		"short pass":    {"email": "a@example.com", "password": "short", "birthDate": "1990-01-02", "sex": "male"},
		"missing sex":   {"email": "a@example.com", "password": "correct horse", "birthDate": "1990-01-02"},
		"unknown sex":   {"email": "a@example.com", "password": "correct horse", "birthDate": "1990-01-02", "sex": "x"},
		"future birth":  {"email": "a@example.com", "password": "correct horse", "birthDate": "2030-01-01", "sex": "male"},
		"bare year":     {"email": "a@example.com", "password": "correct horse", "birthDate": "1990", "sex": "male"},
		"unknown field": {"email": "a@example.com", "password": "correct horse", "birthDate": "1990-01-02", "sex": "male", "role": "admin"},
	}
	for name, body := range invalid {
		s.Run(name, func() {
			req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/signup", body)
			rr := testutil.DoRequest(s.router, testutil.AtTime(req, s.now))
			s.Equal(http.StatusBadRequest, rr.Code, rr.Body.String())
		})
	}
}

func (s *AuthHandlerSuite) TestCreateAuthToken() {
	s.Run("sets cookie and returns token", func() {
		expires := s.now.Add(24 * time.Hour)
		s.service.EXPECT().CreateAuthToken(gomock.Any(), "taro@example.com", "correct horse").
			Return(&models.IssuedToken{Token: "signed.jwt.value", JTI: "jti-1", ExpiresAt: expires}, nil)

		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/createAuthToken", map[string]string{
			"email": "TARO@example.com", "password": "correct horse",
		})
		req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
		rr := testutil.DoRequest(s.router, req)
		s.Require().Equal(http.StatusOK, rr.Code)
		testutil.AssertJSONContains(s.T(), rr, "token", "signed.jwt.value")

		cookies := rr.Result().Cookies()
		s.Require().Len(cookies, 1)
		s.Equal(authmw.CookieName, cookies[0].Name)
		s.Equal("signed.jwt.value", cookies[0].Value)
		s.True(cookies[0].HttpOnly)
		s.True(cookies[0].Secure)
	})

	s.Run("invalid credentials", func() {
		s.service.EXPECT().CreateAuthToken(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeUnauthorized, "invalid credentials"))
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/createAuthToken", map[string]string{
			"email": "taro@example.com", "password": "wrong",
		})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
		s.Empty(rr.Result().Cookies())
	})

	s.Run("missing password", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/auth/createAuthToken", map[string]string{"email": "taro@example.com"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
	})
}

func (s *AuthHandlerSuite) TestSignout() {
	userID := id.NewUserID()
	expires := s.now.Add(time.Hour)
	s.service.EXPECT().Signout(gomock.Any(), userID, "jti-1", expires).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/signout", nil)
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithToken(ctx, "jti-1", expires)
	rr := testutil.DoRequest(s.router, req.WithContext(ctx))

	s.Require().Equal(http.StatusOK, rr.Code)
	cookies := rr.Result().Cookies()
	s.Require().Len(cookies, 1)
	s.Equal(-1, cookies[0].MaxAge)
}

func (s *AuthHandlerSuite) TestFindUser() {
	userID := id.NewUserID()

	s.Run("profile from account person", func() {
		s.service.EXPECT().FindUser(gomock.Any(), userID).Return(&service.Profile{
			User:      &models.User{ID: userID, Username: "Taro", Email: "taro@example.com"},
			Sex:       lifespan.SexMale,
			BirthDate: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC),
		}, nil)
		rr := testutil.DoRequest(s.router, testutil.AsUser(httptest.NewRequest(http.MethodGet, "/users/find", nil), userID, "jti"))
		s.Require().Equal(http.StatusOK, rr.Code)

		body := testutil.UnmarshalResponse[FindUserResponse](s.T(), rr)
		s.Equal(ProfileResponse{
			ID: userID.String(), Email: "taro@example.com", Username: "Taro", Sex: "male", BirthDate: "1990-01-02",
		}, body.User)
	})

	s.Run("not found", func() {
		s.service.EXPECT().FindUser(gomock.Any(), userID).Return(nil, dErrors.New(dErrors.CodeNotFound, "user not found"))
		rr := testutil.DoRequest(s.router, testutil.AsUser(httptest.NewRequest(http.MethodGet, "/users/find", nil), userID, "jti"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusNotFound, "not_found")
	})

	s.Run("no user in context", func() {
		rr := testutil.Get(s.T(), s.router, "/users/find")
		testutil.AssertStatusAndError(s.T(), rr, http.StatusInternalServerError, "internal_error")
	})
}

func (s *AuthHandlerSuite) TestUpdateUser() {
	userID := id.NewUserID()

	s.Run("success", func() {
		s.service.EXPECT().UpdateUser(gomock.Any(), userID, service.UpdateInput{Email: "new@example.com", Password: "new secret"}).Return(nil)
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/users/update", map[string]string{
			"email": "New@example.com", "password": "new secret",
		})
		rr := testutil.DoRequest(s.router, testutil.AsUser(req, userID, "jti"))
		s.Equal(http.StatusOK, rr.Code)
	})

	s.Run("email taken", func() {
		s.service.EXPECT().UpdateUser(gomock.Any(), userID, gomock.Any()).
			Return(dErrors.New(dErrors.CodeConflict, "email is already registered"))
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/users/update", map[string]string{
			"email": "taken@example.com", "password": "new secret",
		})
		rr := testutil.DoRequest(s.router, testutil.AsUser(req, userID, "jti"))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "conflict")
	})
}

func (s *AuthHandlerSuite) TestDeleteUser() {
	userID := id.NewUserID()
	s.service.EXPECT().DeleteUser(gomock.Any(), userID, "jti-9", gomock.Any()).Return(nil)

	rr := testutil.DoRequest(s.router, testutil.AsUser(httptest.NewRequest(http.MethodDelete, "/users/delete", nil), userID, "jti-9"))
	s.Equal(http.StatusOK, rr.Code)
	testutil.AssertJSONContains(s.T(), rr, "message", "user deleted")
}

func TestDeviceLabel(t *testing.T) {
	tests := map[string]string{
		"": "unknown",
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36": "Chrome on Windows 10",
		"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)":                                        "bot",
	}
	for ua, want := range tests {
		assert.Equal(t, want, deviceLabel(ua), "user agent %q", ua)
	}
}
