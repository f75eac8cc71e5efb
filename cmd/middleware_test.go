package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"communityBack/internal/handlers"
	"communityBack/internal/models"
	"communityBack/utils"
)

func testApp(t *testing.T) *application {
	t.Helper()
	tokens, err := utils.NewManager("test-key")
	if err != nil {
		t.Fatal(err)
	}
	return &application{logger: zap.NewNop(), tokens: tokens}
}

func bearer(t *testing.T, app *application, userID int64, role string) string {
	t.Helper()
	token, err := app.tokens.NewJWT(userID, role, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func TestJWTMiddleware(t *testing.T) {
	app := testApp(t)

	var got models.Actor
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = handlers.ActorFrom(r.Context())
		w.WriteHeader(http.StatusTeapot)
	})

	tests := []struct {
		name   string
		role   string
		header string
		status int
	}{
		{"no header", models.RoleUser, "", http.StatusUnauthorized},
		{"not bearer", models.RoleUser, "Basic abc", http.StatusUnauthorized},
		{"garbage token", models.RoleUser, "Bearer abc", http.StatusUnauthorized},
		{"user on user route", models.RoleUser, bearer(t, app, 5, models.RoleUser), http.StatusTeapot},
		{"user on admin route", models.RoleAdmin, bearer(t, app, 5, models.RoleUser), http.StatusForbidden},
		{"admin on admin route", models.RoleAdmin, bearer(t, app, 1, models.RoleAdmin), http.StatusTeapot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			app.JWTMiddleware(next, tt.role).ServeHTTP(rec, req)
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", bearer(t, app, 42, models.RoleAdmin))
	app.JWTMiddleware(next, models.RoleUser).ServeHTTP(httptest.NewRecorder(), req)
	if got.UserID != 42 || !got.IsAdmin() {
		t.Fatalf("actor not propagated: %+v", got)
	}
}

func TestRecoverPanic(t *testing.T) {
	app := testApp(t)
	h := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if rec.Header().Get("Connection") != "close" {
		t.Fatal("expected Connection: close")
	}
}

func TestSecureHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	secureHeaders(makeResponseJSON(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Header().Get("X-Frame-Options") != "deny" || rec.Header().Get("Content-Type") != "application/json" {
		t.Fatalf("unexpected headers %v", rec.Header())
	}
}
