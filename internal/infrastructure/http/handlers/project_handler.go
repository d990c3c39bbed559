package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mwolniarski/project-management-backend/internal/application/project"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/middleware"
)

type ProjectHandler struct {
	service  *project.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewProjectHandler(service *project.Service, log zerolog.Logger) *ProjectHandler {
	return &ProjectHandler{service: service, validate: validator.New(), log: log}
}

type projectResponse struct {
	ID          int64                   `json:"id"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Status      domain.ProjectStatus    `json:"status"`
	OwnerID     int64                   `json:"ownerId"`
	Members     []projectMemberResponse `json:"members,omitempty"`
}

type projectMemberResponse struct {
	UserID int64              `json:"userId"`
	Email  string             `json:"email"`
	Role   domain.ProjectRole `json:"role"`
}

func toProjectResponse(p *domain.Project, members []*domain.ProjectMember) projectResponse {
	out := projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		OwnerID:     p.OwnerID,
	}
	for _, m := range members {
		out.Members = append(out.Members, projectMemberResponse{UserID: m.UserID, Email: m.Email, Role: m.Role})
	}
	return out
}

// List handles GET /api/projects: the caller's own projects.
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	projects, err := h.service.List(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]projectResponse, 0, len(projects))
	for _, pr := range projects {
		out = append(out, toProjectResponse(pr, nil))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get handles GET /api/projects/{projectId}.
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	proj, members, err := h.service.Get(r.Context(), p, idParam(r, "projectId"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProjectResponse(proj, members))
}

// Create handles POST /api/projects.
func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		Name        string `json:"name" validate:"required,max=120"`
		Description string `json:"description" validate:"max=2000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	proj, err := h.service.Create(r.Context(), p, project.CreateInput{Name: body.Name, Description: body.Description})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProjectResponse(proj, nil))
}

// Update handles PUT /api/projects/{projectId}.
func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		Name        string               `json:"name" validate:"required,max=120"`
		Description string               `json:"description" validate:"max=2000"`
		Status      domain.ProjectStatus `json:"status" validate:"required,oneof=ACTIVE INACTIVE"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	err := h.service.Update(r.Context(), p, idParam(r, "projectId"), project.UpdateInput{
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Delete handles DELETE /api/projects/{projectId}.
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.service.Delete(r.Context(), p, idParam(r, "projectId")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddUser handles POST /api/projects/{projectId}/users.
func (h *ProjectHandler) AddUser(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		Email string `json:"email" validate:"required,email,max=254"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.service.AddUser(r.Context(), p, idParam(r, "projectId"), SanitizeEmail(body.Email)); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"status": "added"})
}

// RemoveUser handles DELETE /api/projects/{projectId}/users/{email}.
func (h *ProjectHandler) RemoveUser(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	email := SanitizeEmail(pathParam(r, "email"))
	if email == "" {
		writeErr(w, http.StatusBadRequest, "", "invalid email")
		return
	}
	if err := h.service.RemoveUser(r.Context(), p, idParam(r, "projectId"), email); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
