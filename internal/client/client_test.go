package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestRemainTime(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/life/lifespan", r.URL.Path)
		assert.Equal(t, "male", r.URL.Query().Get("sex"))
		assert.Equal(t, "1990-01-02", r.URL.Query().Get("year"))
		_, _ = w.Write([]byte(`{"remainTime":1234}`))
	})

	got, err := New(srv.URL).RemainTime(context.Background(), "male", "1990-01-02")
	require.NoError(t, err)
	assert.Equal(t, int64(1234), got)
}

func TestLoginAndBearerToken(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/createAuthToken":
			var body map[string]string
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
			assert.Equal(t, "taro@example.com", body["email"])
			_, _ = w.Write([]byte(`{"token":"tok","expiresAt":"2024-04-02T09:00:00Z"}`))
		case "/api/persons/findAll":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"formattedPersons":[{"id":"p1","name":"Taro","sex":"male","birthDate":"1990-01-02","isAccountUser":true,"remainTime":-5}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	token, err := New(srv.URL).Login(context.Background(), "taro@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "tok", token.Token)
	assert.Equal(t, 2024, token.ExpiresAt.Year())

	persons, err := New(srv.URL+"/", WithToken(token.Token)).Persons(context.Background())
	require.NoError(t, err)
	require.Len(t, persons, 1)
	assert.Equal(t, int64(-5), persons[0].RemainTime)
	assert.True(t, persons[0].IsAccountUser)
}

func TestErrorEnvelope(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"unauthorized","message":"invalid token"}`))
	})

	_, err := New(srv.URL, WithToken("stale")).Me(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "unauthorized", apiErr.Code)
	assert.Equal(t, "invalid token", apiErr.Message)
}

func TestErrorWithoutEnvelope(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})

	err := New(srv.URL).Signout(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, "Bad Gateway", apiErr.Code)
	assert.False(t, IsUnauthorized(err))
}
