// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRecoverer(t *testing.T) {
	tests := []struct {
		name        string
		path        string
		value       any
		contentType string
		body        string
	}{
		{"page panic", "/about", "boom", "text/plain; charset=utf-8", "internal server error"},
		{"api panic", "/api/render", 42, "application/json", `{"error":"internal server error"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				panic(tt.value)
			}))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if rr.Code != http.StatusInternalServerError {
				t.Errorf("status: got %d, want 500", rr.Code)
			}
			if ct := rr.Header().Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type: got %q, want %q", ct, tt.contentType)
			}
			if !strings.Contains(rr.Body.String(), tt.body) {
				t.Errorf("body: got %q, want it to contain %q", rr.Body.String(), tt.body)
			}
		})
	}
}

func TestRecovererNoPanic(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusOK || rr.Body.String() != "ok" {
		t.Errorf("got %d %q", rr.Code, rr.Body.String())
	}
}

func TestRecovererAbortHandler(t *testing.T) {
	handler := Recoverer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	defer func() {
		if rec := recover(); rec != http.ErrAbortHandler {
			t.Errorf("expected ErrAbortHandler to propagate, got %v", rec)
		}
	}()
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}
