package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mwolniarski/project-management-backend/internal/application/user"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/middleware"
)

type ProfileHandler struct {
	service  *user.ProfileService
	validate *validator.Validate
	log      zerolog.Logger
}

func NewProfileHandler(service *user.ProfileService, log zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{service: service, validate: validator.New(), log: log}
}

// Get handles GET /api/profile.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	profile, err := h.service.Get(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	perms := make([]string, 0, len(profile.Permissions))
	for _, perm := range profile.Permissions {
		perms = append(perms, perm.String())
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":               profile.UserID,
		"firstName":        profile.FirstName,
		"lastName":         profile.LastName,
		"nick":             profile.Nick,
		"email":            profile.Email,
		"organizationId":   profile.OrganizationID,
		"organizationName": profile.OrganizationName,
		"roleName":         profile.RoleName,
		"permissions":      perms,
	})
}

// Update handles PUT /api/profile.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		FirstName string `json:"firstName" validate:"max=60"`
		LastName  string `json:"lastName" validate:"max=60"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.service.Update(r.Context(), p, body.FirstName, body.LastName); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
