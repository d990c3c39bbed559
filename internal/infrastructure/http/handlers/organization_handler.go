package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mwolniarski/project-management-backend/internal/application/org"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/middleware"
)

type OrganizationHandler struct {
	service  *org.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewOrganizationHandler(service *org.Service, log zerolog.Logger) *OrganizationHandler {
	return &OrganizationHandler{service: service, validate: validator.New(), log: log}
}

type userResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Nick      string `json:"nick"`
	Email     string `json:"email"`
	Enabled   bool   `json:"enabled"`
}

// ListUsers handles GET /api/organizations/users.
func (h *OrganizationHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	users, err := h.service.ListUsers(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{
			ID:        u.ID,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Nick:      u.Nick,
			Email:     u.Email,
			Enabled:   u.Enabled,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// Update handles PUT /api/organizations/{orgId}.
func (h *OrganizationHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	orgID := idParam(r, "orgId")
	var body struct {
		Name string `json:"name" validate:"required,max=120"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.service.Update(r.Context(), p, orgID, body.Name); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/organizations/{orgId}.
func (h *OrganizationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), p, idParam(r, "orgId")); err != nil {
		writeDomainErr(w, err)
		return
	}
	h.log.Info().Int64("organization_id", p.OrganizationID).Str("by", p.Email).Msg("organization soft-deleted")
	w.WriteHeader(http.StatusNoContent)
}

// InviteUser handles POST /api/organizations/users.
func (h *OrganizationHandler) InviteUser(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		FirstName string `json:"firstName" validate:"max=60"`
		LastName  string `json:"lastName" validate:"max=60"`
		Email     string `json:"email" validate:"required,email,max=254"`
		RoleID    int64  `json:"roleId" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	email := SanitizeEmail(body.Email)
	if email == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email")
		return
	}
	err := h.service.InviteUser(r.Context(), p, org.InviteUserInput{
		FirstName: body.FirstName,
		LastName:  body.LastName,
		Email:     email,
		RoleID:    body.RoleID,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "invited"})
}

// RemoveUser handles DELETE /api/organizations/users/{email}.
func (h *OrganizationHandler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	email := SanitizeEmail(pathParam(r, "email"))
	if email == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email")
		return
	}
	if err := h.service.RemoveUser(r.Context(), p, email); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type roleResponse struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

func toRoleResponse(role *domain.Role) roleResponse {
	perms := role.Permissions.List()
	tags := make([]string, 0, len(perms))
	for _, p := range perms {
		tags = append(tags, p.String())
	}
	return roleResponse{ID: role.ID, Name: role.Name, Permissions: tags}
}

// ListRoles handles GET /api/roles.
func (h *OrganizationHandler) ListRoles(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	roles, err := h.service.ListRoles(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]roleResponse, 0, len(roles))
	for _, role := range roles {
		out = append(out, toRoleResponse(role))
	}
	writeJSON(w, http.StatusOK, out)
}

// ListPermissions handles GET /api/permissions: the full catalog.
func (h *OrganizationHandler) ListPermissions(w http.ResponseWriter, r *http.Request) {
	perms := h.service.ListPermissions()
	out := make([]string, 0, len(perms))
	for _, p := range perms {
		out = append(out, p.String())
	}
	writeJSON(w, http.StatusOK, out)
}

// AddRole handles POST /api/roles.
func (h *OrganizationHandler) AddRole(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		Name        string   `json:"name" validate:"required,max=60"`
		Permissions []string `json:"permissions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	role, err := h.service.AddRole(r.Context(), p, body.Name, body.Permissions)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toRoleResponse(role))
}

// DeleteRole handles DELETE /api/roles/{roleId}.
func (h *OrganizationHandler) DeleteRole(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.service.DeleteRole(r.Context(), p, idParam(r, "roleId")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
