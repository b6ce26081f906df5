package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"homewatch/internal/service"
)

func TestSignUpAndSignIn(t *testing.T) {
	auth := &mockAuth{signUpID: 3, genTokenToken: "jwt-token"}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up",
		bytes.NewBufferString(`{"username":"anna","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-up status=%d, body=%s", w.Code, w.Body.String())
	}
	if auth.lastSignUpUsername != "anna" {
		t.Fatalf("username not passed through: %q", auth.lastSignUpUsername)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost, "/auth/sign-in",
		bytes.NewBufferString(`{"username":"anna","password":"secret"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status=%d, body=%s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["token"] != "jwt-token" {
		t.Fatalf("token=%q", resp["token"])
	}
}

func TestSignIn_BadCredentials(t *testing.T) {
	auth := &mockAuth{genTokenErr: service.ErrInvalidPassword}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-in",
		bytes.NewBufferString(`{"username":"anna","password":"wrong"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
}

func TestSignUp_MissingFields(t *testing.T) {
	s := &service.Service{Authorization: &mockAuth{}}
	r := newTestRouter(s)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/sign-up",
		bytes.NewBufferString(`{"username":"anna"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
}

func TestAuthMiddleware(t *testing.T) {
	cases := []struct {
		name   string
		header string
		parse  *mockAuth
		want   int
	}{
		{"no header", "", &mockAuth{}, http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", &mockAuth{}, http.StatusUnauthorized},
		{"empty token", "Bearer ", &mockAuth{}, http.StatusUnauthorized},
		{"rejected token", "Bearer bad", &mockAuth{parseErr: errors.New("expired")}, http.StatusUnauthorized},
		{"valid token", "Bearer good", &mockAuth{parseID: 9}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := &service.Service{Authorization: tc.parse, Gas: &mockGas{}}
			r := newTestRouter(s)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/api/v1/gas", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			r.ServeHTTP(w, req)
			if w.Code != tc.want {
				t.Fatalf("status=%d, want %d", w.Code, tc.want)
			}
			if tc.want == http.StatusOK && tc.parse.lastParseToken != "good" {
				t.Fatalf("token not passed to ParseToken: %q", tc.parse.lastParseToken)
			}
		})
	}
}
