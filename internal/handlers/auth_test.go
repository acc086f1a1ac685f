package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"vedic_counter/internal/service"
)

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSignUp(t *testing.T) {
	cases := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantKey  string
	}{
		{name: "created", body: `{"username":"arjuna","password":"gandiva"}`, wantCode: http.StatusOK, wantKey: "id"},
		{name: "name taken", body: `{"username":"arjuna","password":"gandiva"}`, err: fmt.Errorf("%w: %q", service.ErrUsernameTaken, "arjuna"), wantCode: http.StatusConflict, wantKey: "error"},
		{name: "invalid name", body: `{"username":" ","password":"gandiva"}`, err: service.ErrInvalidUsername, wantCode: http.StatusBadRequest, wantKey: "error"},
		{name: "missing password", body: `{"username":"arjuna"}`, wantCode: http.StatusBadRequest, wantKey: "error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			auth := &mockAuth{signUpID: 42, signUpErr: tc.err}
			w := postJSON(newTestRouter(&service.Service{Authorization: auth}), "/auth/sign-up", tc.body)

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			var out map[string]any
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if _, ok := out[tc.wantKey]; !ok {
				t.Fatalf("response %v lacks %q", out, tc.wantKey)
			}
			if tc.wantCode == http.StatusOK && out["id"] != float64(42) {
				t.Fatalf("id = %v, want 42", out["id"])
			}
		})
	}
}

func TestSignIn(t *testing.T) {
	t.Run("issues token", func(t *testing.T) {
		auth := &mockAuth{genTokenToken: "tok123"}
		w := postJSON(newTestRouter(&service.Service{Authorization: auth}), "/auth/sign-in", `{"username":"arjuna","password":"gandiva"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
		}
		var out map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &out)
		if out["token"] != "tok123" {
			t.Fatalf("token = %q", out["token"])
		}
		if auth.lastGenUsername != "arjuna" || auth.lastGenPassword != "gandiva" {
			t.Fatalf("credentials passed = %q/%q", auth.lastGenUsername, auth.lastGenPassword)
		}
	})

	t.Run("bad credentials are 401 without detail", func(t *testing.T) {
		auth := &mockAuth{genTokenErr: service.ErrInvalidPassword}
		w := postJSON(newTestRouter(&service.Service{Authorization: auth}), "/auth/sign-in", `{"username":"arjuna","password":"x"}`)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status=%d, want 401", w.Code)
		}
		if strings.Contains(w.Body.String(), "password") {
			t.Fatalf("response must not say which part was wrong: %s", w.Body.String())
		}
	})

	t.Run("bad body", func(t *testing.T) {
		auth := &mockAuth{genTokenErr: errors.New("unreachable")}
		w := postJSON(newTestRouter(&service.Service{Authorization: auth}), "/auth/sign-in", `{"username":1}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("status=%d, want 400", w.Code)
		}
	})
}
