// Copyright (c) CurioSwitch (choko@curioswitch.org)
// SPDX-License-Identifier: BUSL-1.1

// Package httpjson has shared helpers for the JSON request handlers.
package httpjson

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/curioswitch/robochef/internal/recipegen"
	"github.com/curioswitch/robochef/internal/store"
)

// Decode parses the request body into v, answering 400 itself on
// malformed input.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

// Respond writes v as the JSON response body with the given status.
func Respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("httpjson: encoding response", "error", err)
	}
}

// Error maps err onto a status code and writes the JSON error body.
// Missing documents and sessions are 404, failed generative
// collaborators are 502, anything else is 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var upstream *recipegen.UpstreamError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, recipegen.ErrSessionNotFound):
		Respond(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &upstream):
		slog.ErrorContext(r.Context(), "httpjson: upstream failure", "error", err)
		Respond(w, http.StatusBadGateway, map[string]string{"error": "upstream service failed"})
	default:
		slog.ErrorContext(r.Context(), "httpjson: request failed", "error", err)
		Respond(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}
