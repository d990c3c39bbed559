package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/mwolniarski/project-management-backend/internal/application/task"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	"github.com/mwolniarski/project-management-backend/internal/infrastructure/http/middleware"
)

type TaskHandler struct {
	service  *task.Service
	validate *validator.Validate
	log      zerolog.Logger
}

func NewTaskHandler(service *task.Service, log zerolog.Logger) *TaskHandler {
	return &TaskHandler{service: service, validate: validator.New(), log: log}
}

// CreateGroup handles POST /api/projects/{projectId}/taskGroups.
func (h *TaskHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
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
	group, err := h.service.CreateGroup(r.Context(), p, idParam(r, "projectId"), body.Name)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"id":        group.ID,
		"name":      group.Name,
		"projectId": group.ProjectID,
	})
}

// UpdateGroup handles PUT /api/taskGroups/{groupId}.
func (h *TaskHandler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
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
	if err := h.service.UpdateGroup(r.Context(), p, idParam(r, "groupId"), body.Name); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteGroup handles DELETE /api/taskGroups/{groupId}.
func (h *TaskHandler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.service.DeleteGroup(r.Context(), p, idParam(r, "groupId")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type taskResponse struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Status      domain.TaskStatus   `json:"status"`
	Priority    domain.TaskPriority `json:"priority"`
	TaskGroupID int64               `json:"taskGroupId"`
	OwnerID     int64               `json:"ownerId,omitempty"`
	DueDate     *time.Time          `json:"dueDate,omitempty"`
}

func toTaskResponse(t *domain.Task) taskResponse {
	return taskResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		TaskGroupID: t.TaskGroupID,
		OwnerID:     t.OwnerID,
		DueDate:     t.DueDate,
	}
}

// CreateTask handles POST /api/taskGroups/{groupId}/tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		Name        string              `json:"name" validate:"required,max=200"`
		Description string              `json:"description" validate:"max=5000"`
		Priority    domain.TaskPriority `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
		DueDate     *time.Time          `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	created, err := h.service.CreateTask(r.Context(), p, task.CreateTaskInput{
		TaskGroupID: idParam(r, "groupId"),
		Name:        body.Name,
		Description: body.Description,
		Priority:    body.Priority,
		DueDate:     body.DueDate,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toTaskResponse(created))
}

// UpdateTask handles PUT /api/tasks/{taskId}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		Name        string              `json:"name" validate:"required,max=200"`
		Description string              `json:"description" validate:"max=5000"`
		Status      domain.TaskStatus   `json:"status" validate:"required,oneof=TODO IN_PROGRESS DONE"`
		Priority    domain.TaskPriority `json:"priority" validate:"required,oneof=LOW MEDIUM HIGH"`
		OwnerID     int64               `json:"ownerId"`
		DueDate     *time.Time          `json:"dueDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	err := h.service.UpdateTask(r.Context(), p, idParam(r, "taskId"), task.UpdateTaskInput{
		Name:        body.Name,
		Description: body.Description,
		Status:      body.Status,
		Priority:    body.Priority,
		OwnerID:     body.OwnerID,
		DueDate:     body.DueDate,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteTask handles DELETE /api/tasks/{taskId}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.service.DeleteTask(r.Context(), p, idParam(r, "taskId")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// History handles GET /api/tasks/{taskId}/history.
func (h *TaskHandler) History(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	entries, err := h.service.History(r.Context(), p, idParam(r, "taskId"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	type historyResponse struct {
		ID        int64     `json:"id"`
		Message   string    `json:"message"`
		CreatedAt time.Time `json:"createdAt"`
	}
	out := make([]historyResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyResponse{ID: e.ID, Message: e.Message, CreatedAt: e.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

type commentResponse struct {
	ID        int64     `json:"id"`
	TaskID    int64     `json:"taskId"`
	AuthorID  int64     `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// AddComment handles POST /api/tasks/{taskId}/comments.
func (h *TaskHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		Content string `json:"content" validate:"required,max=5000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	comment, err := h.service.AddComment(r.Context(), p, idParam(r, "taskId"), body.Content)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, commentResponse{
		ID: comment.ID, TaskID: comment.TaskID, AuthorID: comment.AuthorID,
		Content: comment.Content, CreatedAt: comment.CreatedAt,
	})
}

// ListComments handles GET /api/tasks/{taskId}/comments.
func (h *TaskHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	comments, err := h.service.ListComments(r.Context(), p, idParam(r, "taskId"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]commentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, commentResponse{
			ID: c.ID, TaskID: c.TaskID, AuthorID: c.AuthorID,
			Content: c.Content, CreatedAt: c.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// EditComment handles PUT /api/comments/{commentId}.
func (h *TaskHandler) EditComment(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		Content string `json:"content" validate:"required,max=5000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	if err := h.service.EditComment(r.Context(), p, idParam(r, "commentId"), body.Content); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// DeleteComment handles DELETE /api/comments/{commentId}.
func (h *TaskHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.service.DeleteComment(r.Context(), p, idParam(r, "commentId")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type timeEntryResponse struct {
	ID          int64     `json:"id"`
	TaskID      int64     `json:"taskId"`
	UserID      int64     `json:"userId"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Description string    `json:"description"`
}

// AddTimeEntry handles POST /api/tasks/{taskId}/timeEntries.
func (h *TaskHandler) AddTimeEntry(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	var body struct {
		StartTime   time.Time `json:"startTime" validate:"required"`
		EndTime     time.Time `json:"endTime" validate:"required"`
		Description string    `json:"description" validate:"max=2000"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", "invalid body")
		return
	}
	if err := h.validate.Struct(&body); err != nil {
		writeErr(w, http.StatusBadRequest, "", err.Error())
		return
	}
	entry, err := h.service.AddTimeEntry(r.Context(), p, task.AddTimeEntryInput{
		TaskID:      idParam(r, "taskId"),
		StartTime:   body.StartTime,
		EndTime:     body.EndTime,
		Description: body.Description,
	})
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, timeEntryResponse{
		ID: entry.ID, TaskID: entry.TaskID, UserID: entry.UserID,
		StartTime: entry.StartTime, EndTime: entry.EndTime, Description: entry.Description,
	})
}

// ListTimeEntries handles GET /api/tasks/{taskId}/timeEntries.
func (h *TaskHandler) ListTimeEntries(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	entries, err := h.service.ListTimeEntries(r.Context(), p, idParam(r, "taskId"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]timeEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, timeEntryResponse{
			ID: e.ID, TaskID: e.TaskID, UserID: e.UserID,
			StartTime: e.StartTime, EndTime: e.EndTime, Description: e.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// ListProjectTimeEntries handles GET /api/projects/{projectId}/timeEntries.
func (h *TaskHandler) ListProjectTimeEntries(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	entries, err := h.service.ListProjectTimeEntries(r.Context(), p, idParam(r, "projectId"))
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	out := make([]timeEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, timeEntryResponse{
			ID: e.ID, TaskID: e.TaskID, UserID: e.UserID,
			StartTime: e.StartTime, EndTime: e.EndTime, Description: e.Description,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// RemoveTimeEntry handles DELETE /api/timeEntries/{entryId}.
func (h *TaskHandler) RemoveTimeEntry(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.service.RemoveTimeEntry(r.Context(), p, idParam(r, "entryId")); err != nil {
		writeDomainErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Notifications handles GET /api/notifications.
func (h *TaskHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	notifications, err := h.service.Notifications(r.Context(), p)
	if err != nil {
		writeDomainErr(w, err)
		return
	}
	type notificationResponse struct {
		ID        int64                     `json:"id"`
		Message   string                    `json:"message"`
		Status    domain.NotificationStatus `json:"status"`
		CreatedAt time.Time                 `json:"createdAt"`
	}
	out := make([]notificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, notificationResponse{ID: n.ID, Message: n.Message, Status: n.Status, CreatedAt: n.CreatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

// MarkNotificationRead handles PUT /api/notifications/{notificationId}/read.
func (h *TaskHandler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	p := middleware.PrincipalFromContext(r.Context())
	if err := h.service.MarkNotificationRead(r.Context(), p, idParam(r, "notificationId")); err != nil {
		writeDomainErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
