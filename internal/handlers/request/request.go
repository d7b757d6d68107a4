// Package request holds the small parsing steps every handler repeats.
// Each helper writes the error response itself and reports whether the
// handler may continue.
package request

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/GlebRadaev/freelancehub/internal/domain"
	"github.com/GlebRadaev/freelancehub/pkg/auth"
	"github.com/GlebRadaev/freelancehub/pkg/utils"
)

func Principal(w http.ResponseWriter, r *http.Request) (domain.Principal, bool) {
	p, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
	}
	return p, ok
}

func PathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func Kind(w http.ResponseWriter, r *http.Request) (domain.LedgerKind, bool) {
	kind, ok := domain.ParseLedgerKind(chi.URLParam(r, "kind"))
	if !ok {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid ledger kind")
	}
	return kind, ok
}

func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}
