// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

// Package handlers contains the HTTP surface: webhook ingress, the JSON
// API over tracked meetings and user settings, and the OAuth login flow.
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/justadios/adios/internal/domain"
	"github.com/justadios/adios/internal/logging"
)

// UserUIDHeader carries the caller's identity. Session management is the
// consumer's concern; the service trusts the header the way it would
// trust a terminated session cookie.
const UserUIDHeader = "X-User-UID"

type contextKey string

const userUIDContextKey contextKey = "user_uid"

// RequireUser rejects requests without a caller identity and threads the
// user UID through the request context.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userUID := r.Header.Get(UserUIDHeader)
		if userUID == "" {
			writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing user identity"})
			return
		}

		ctx := context.WithValue(r.Context(), userUIDContextKey, userUID)
		ctx = logging.AppendCtx(ctx, slog.String("user_uid", userUID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserUID returns the caller identity set by RequireUser.
func UserUID(ctx context.Context) string {
	userUID, _ := ctx.Value(userUIDContextKey).(string)
	return userUID
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps a service error to its HTTP status and a JSON body.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := domain.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		slog.ErrorContext(ctx, "request failed", logging.ErrKey, err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
