// Package controllers holds the HTTP layer: decode input, run validation,
// call a service, map the result onto the wire. No business rules live here.
package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/shashiranjanraj/dukaan/app/services"
	"github.com/shashiranjanraj/dukaan/pkg/middleware"
	"github.com/shashiranjanraj/dukaan/pkg/response"
)

// actorFrom builds the authorization actor from the validated JWT claims.
// The auth middleware guarantees claims are present on protected routes.
func actorFrom(r *http.Request) (services.Actor, bool) {
	claims, ok := middleware.ClaimsFromCtx(r.Context())
	if !ok {
		return services.Actor{}, false
	}
	return services.Actor{ID: claims.UserID, Role: claims.Role}, true
}

// requireActor writes a 401 and returns false when no claims are present.
func requireActor(w http.ResponseWriter, r *http.Request) (services.Actor, bool) {
	actor, ok := actorFrom(r)
	if !ok {
		response.Unauthorized(w)
	}
	return actor, ok
}

// decode unmarshals the JSON request body into dst. Writes a 400 and
// returns false on malformed input.
func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.Error(w, http.StatusBadRequest, "Malformed JSON body")
		return false
	}
	return true
}

// urlID parses the named chi URL parameter as an unsigned integer id.
func urlID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		response.Error(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// urlParam returns the raw chi URL parameter.
func urlParam(r *http.Request, name string) string {
	return chi.URLParam(r, name)
}

// queryInt reads an integer query parameter, falling back on absence.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
