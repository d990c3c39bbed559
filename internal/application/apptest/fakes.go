// Package apptest provides in-memory implementations of the persistence
// ports for use in tests.
package apptest

import (
	"context"
	"sync"

	"github.com/mwolniarski/project-management-backend/internal/application/ports"
	"github.com/mwolniarski/project-management-backend/internal/domain"
)

// Store is an in-memory database backing all repository fakes. Zero value
// is not usable; create with NewStore.
type Store struct {
	mu            sync.Mutex
	nextID        int64
	users         map[int64]*domain.User
	orgs          map[int64]*domain.Organization
	roles         map[int64]*domain.Role
	projects      map[int64]*domain.Project
	members       map[int64][]*domain.ProjectMember
	groups        map[int64]*domain.TaskGroup
	tasks         map[int64]*domain.Task
	comments      map[int64]*domain.Comment
	entries       map[int64]*domain.TimeEntry
	history       map[int64][]*domain.HistoryEntry
	notifications map[int64]*domain.Notification
	confirmTokens map[string]*authToken
	resetTokens   map[string]*authToken
}

type authToken struct {
	userID    int64
	expiresAt int64
	done      bool
}

func NewStore() *Store {
	return &Store{
		users:         make(map[int64]*domain.User),
		orgs:          make(map[int64]*domain.Organization),
		roles:         make(map[int64]*domain.Role),
		projects:      make(map[int64]*domain.Project),
		members:       make(map[int64][]*domain.ProjectMember),
		groups:        make(map[int64]*domain.TaskGroup),
		tasks:         make(map[int64]*domain.Task),
		comments:      make(map[int64]*domain.Comment),
		entries:       make(map[int64]*domain.TimeEntry),
		history:       make(map[int64][]*domain.HistoryEntry),
		notifications: make(map[int64]*domain.Notification),
		confirmTokens: make(map[string]*authToken),
		resetTokens:   make(map[string]*authToken),
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// Users returns the UserRepository fake.
func (s *Store) Users() ports.UserRepository { return &userRepo{s} }

// Orgs returns the OrganizationRepository fake.
func (s *Store) Orgs() ports.OrganizationRepository { return &orgRepo{s} }

// Roles returns the RoleRepository fake.
func (s *Store) Roles() ports.RoleRepository { return &roleRepo{s} }

// Projects returns the ProjectRepository fake.
func (s *Store) Projects() ports.ProjectRepository { return &projectRepo{s} }

// Groups returns the TaskGroupRepository fake.
func (s *Store) Groups() ports.TaskGroupRepository { return &groupRepo{s} }

// Tasks returns the TaskRepository fake.
func (s *Store) Tasks() ports.TaskRepository { return &taskRepo{s} }

// Comments returns the CommentRepository fake.
func (s *Store) Comments() ports.CommentRepository { return &commentRepo{s} }

// TimeEntries returns the TimeEntryRepository fake.
func (s *Store) TimeEntries() ports.TimeEntryRepository { return &entryRepo{s} }

// History returns the TaskHistoryRepository fake.
func (s *Store) History() ports.TaskHistoryRepository { return &historyRepo{s} }

// Notifications returns the NotificationRepository fake.
func (s *Store) Notifications() ports.NotificationRepository { return &notificationRepo{s} }

// AuthTokens returns the AuthTokenStore fake.
func (s *Store) AuthTokens() ports.AuthTokenStore { return &tokenStore{s} }

type userRepo struct{ s *Store }

func (r *userRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	user.ID = r.s.id()
	cp := *user
	r.s.users[user.ID] = &cp
	return user.ID, nil
}

func (r *userRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *userRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *userRepo) ListByOrganization(_ context.Context, orgID int64) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.User
	for _, u := range r.s.users {
		if u.OrganizationID == orgID {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *userRepo) UpdateProfile(_ context.Context, userID int64, firstName, lastName string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok {
		u.FirstName, u.LastName = firstName, lastName
	}
	return nil
}

func (r *userRepo) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (r *userRepo) SetStatus(_ context.Context, userID int64, status domain.UserStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[userID]; ok {
		u.Status = status
		u.Enabled = status == domain.UserStatusActive
	}
	return nil
}

type orgRepo struct{ s *Store }

func (r *orgRepo) Create(_ context.Context, org *domain.Organization) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	org.ID = r.s.id()
	cp := *org
	r.s.orgs[org.ID] = &cp
	return org.ID, nil
}

func (r *orgRepo) GetByID(_ context.Context, id int64) (*domain.Organization, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	o, ok := r.s.orgs[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *orgRepo) Update(_ context.Context, org *domain.Organization) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orgs[org.ID]; ok {
		o.Name, o.Status = org.Name, org.Status
	}
	return nil
}

func (r *orgRepo) SoftDelete(_ context.Context, orgID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if o, ok := r.s.orgs[orgID]; ok {
		o.Status = domain.OrgStatusDeleted
	}
	for _, u := range r.s.users {
		if u.OrganizationID == orgID {
			u.Enabled = false
			u.Status = domain.UserStatusDisabled
		}
	}
	return nil
}

type roleRepo struct{ s *Store }

func (r *roleRepo) Create(_ context.Context, role *domain.Role) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role.ID = r.s.id()
	cp := *role
	r.s.roles[role.ID] = &cp
	return role.ID, nil
}

func (r *roleRepo) GetByID(_ context.Context, id int64) (*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	role, ok := r.s.roles[id]
	if !ok {
		return nil, nil
	}
	cp := *role
	return &cp, nil
}

func (r *roleRepo) ListByOrganization(_ context.Context, orgID int64) ([]*domain.Role, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Role
	for _, role := range r.s.roles {
		if role.OrganizationID == orgID {
			cp := *role
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *roleRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.roles, id)
	return nil
}

type projectRepo struct{ s *Store }

func (r *projectRepo) Create(_ context.Context, project *domain.Project) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	project.ID = r.s.id()
	cp := *project
	r.s.projects[project.ID] = &cp
	return project.ID, nil
}

func (r *projectRepo) GetByID(_ context.Context, id int64) (*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.projects[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *projectRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Project, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Project
	for pid, members := range r.s.members {
		for _, m := range members {
			if m.UserID == userID {
				if p, ok := r.s.projects[pid]; ok {
					cp := *p
					out = append(out, &cp)
				}
			}
		}
	}
	return out, nil
}

func (r *projectRepo) Update(_ context.Context, project *domain.Project) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.projects[project.ID]; ok {
		p.Name, p.Description, p.Status = project.Name, project.Description, project.Status
	}
	return nil
}

func (r *projectRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.projects, id)
	delete(r.s.members, id)
	return nil
}

func (r *projectRepo) AddMember(_ context.Context, member *domain.ProjectMember) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *member
	r.s.members[member.ProjectID] = append(r.s.members[member.ProjectID], &cp)
	return nil
}

func (r *projectRepo) RemoveMember(_ context.Context, projectID, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	members := r.s.members[projectID]
	out := members[:0]
	for _, m := range members {
		if m.UserID != userID {
			out = append(out, m)
		}
	}
	r.s.members[projectID] = out
	return nil
}

func (r *projectRepo) ListMembers(_ context.Context, projectID int64) ([]*domain.ProjectMember, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.ProjectMember
	for _, m := range r.s.members[projectID] {
		cp := *m
		out = append(out, &cp)
	}
	return out, nil
}

type groupRepo struct{ s *Store }

func (r *groupRepo) Create(_ context.Context, group *domain.TaskGroup) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	group.ID = r.s.id()
	cp := *group
	r.s.groups[group.ID] = &cp
	return group.ID, nil
}

func (r *groupRepo) GetByID(_ context.Context, id int64) (*domain.TaskGroup, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.groups[id]
	if !ok {
		return nil, nil
	}
	cp := *g
	if p, ok := r.s.projects[g.ProjectID]; ok {
		cp.OrganizationID = p.OrganizationID
	}
	return &cp, nil
}

func (r *groupRepo) Update(_ context.Context, group *domain.TaskGroup) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if g, ok := r.s.groups[group.ID]; ok {
		g.Name = group.Name
	}
	return nil
}

func (r *groupRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.groups, id)
	return nil
}

type taskRepo struct{ s *Store }

func (r *taskRepo) Create(_ context.Context, task *domain.Task) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	task.ID = r.s.id()
	cp := *task
	r.s.tasks[task.ID] = &cp
	return task.ID, nil
}

func (r *taskRepo) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	if g, ok := r.s.groups[t.TaskGroupID]; ok {
		if p, ok := r.s.projects[g.ProjectID]; ok {
			cp.OrganizationID = p.OrganizationID
		}
	}
	return &cp, nil
}

func (r *taskRepo) Update(_ context.Context, task *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if t, ok := r.s.tasks[task.ID]; ok {
		t.Name, t.Description = task.Name, task.Description
		t.Status, t.Priority = task.Status, task.Priority
		t.OwnerID, t.DueDate = task.OwnerID, task.DueDate
	}
	return nil
}

func (r *taskRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tasks, id)
	return nil
}

type commentRepo struct{ s *Store }

func (r *commentRepo) Create(_ context.Context, comment *domain.Comment) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	comment.ID = r.s.id()
	cp := *comment
	r.s.comments[comment.ID] = &cp
	return comment.ID, nil
}

func (r *commentRepo) GetByID(_ context.Context, id int64) (*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.comments[id]
	if !ok {
		return nil, nil
	}
	cp := *c
	if t, ok := r.s.tasks[c.TaskID]; ok {
		if g, ok := r.s.groups[t.TaskGroupID]; ok {
			if p, ok := r.s.projects[g.ProjectID]; ok {
				cp.OrganizationID = p.OrganizationID
			}
		}
	}
	return &cp, nil
}

func (r *commentRepo) ListByTask(_ context.Context, taskID int64) ([]*domain.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Comment
	for _, c := range r.s.comments {
		if c.TaskID == taskID {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *commentRepo) Update(_ context.Context, comment *domain.Comment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.comments[comment.ID]; ok {
		c.Content = comment.Content
	}
	return nil
}

func (r *commentRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.comments, id)
	return nil
}

type entryRepo struct{ s *Store }

func (r *entryRepo) Create(_ context.Context, entry *domain.TimeEntry) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.id()
	cp := *entry
	r.s.entries[entry.ID] = &cp
	return entry.ID, nil
}

func (r *entryRepo) GetByID(_ context.Context, id int64) (*domain.TimeEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.entries[id]
	if !ok {
		return nil, nil
	}
	cp := *e
	if t, ok := r.s.tasks[e.TaskID]; ok {
		if g, ok := r.s.groups[t.TaskGroupID]; ok {
			if p, ok := r.s.projects[g.ProjectID]; ok {
				cp.OrganizationID = p.OrganizationID
			}
		}
	}
	return &cp, nil
}

func (r *entryRepo) ListByTask(_ context.Context, taskID int64) ([]*domain.TimeEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.TimeEntry
	for _, e := range r.s.entries {
		if e.TaskID == taskID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *entryRepo) ListByProject(_ context.Context, projectID int64) ([]*domain.TimeEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.TimeEntry
	for _, e := range r.s.entries {
		t, ok := r.s.tasks[e.TaskID]
		if !ok {
			continue
		}
		if g, ok := r.s.groups[t.TaskGroupID]; ok && g.ProjectID == projectID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *entryRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.entries, id)
	return nil
}

type historyRepo struct{ s *Store }

func (r *historyRepo) Append(_ context.Context, entry *domain.HistoryEntry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	entry.ID = r.s.id()
	cp := *entry
	r.s.history[entry.TaskID] = append(r.s.history[entry.TaskID], &cp)
	return nil
}

func (r *historyRepo) ListByTask(_ context.Context, taskID int64) ([]*domain.HistoryEntry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.HistoryEntry
	for _, h := range r.s.history[taskID] {
		cp := *h
		out = append(out, &cp)
	}
	return out, nil
}

type notificationRepo struct{ s *Store }

func (r *notificationRepo) Create(_ context.Context, n *domain.Notification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n.ID = r.s.id()
	cp := *n
	r.s.notifications[n.ID] = &cp
	return n.ID, nil
}

func (r *notificationRepo) ListByUser(_ context.Context, userID int64) ([]*domain.Notification, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.s.notifications {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *notificationRepo) MarkRead(_ context.Context, id, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if n, ok := r.s.notifications[id]; ok && n.UserID == userID {
		n.Status = domain.NotificationRead
	}
	return nil
}

type tokenStore struct{ s *Store }

func (t *tokenStore) CreateConfirmationToken(_ context.Context, userID int64, token string, expiresAt int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.confirmTokens[token] = &authToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (t *tokenStore) GetConfirmationToken(_ context.Context, token string) (int64, int64, bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tok, ok := t.s.confirmTokens[token]
	if !ok {
		return 0, 0, false, errNotFound
	}
	return tok.userID, tok.expiresAt, tok.done, nil
}

func (t *tokenStore) MarkConfirmed(_ context.Context, token string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if tok, ok := t.s.confirmTokens[token]; ok {
		tok.done = true
	}
	return nil
}

func (t *tokenStore) CreateResetToken(_ context.Context, userID int64, token string, expiresAt int64) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.s.resetTokens[token] = &authToken{userID: userID, expiresAt: expiresAt}
	return nil
}

func (t *tokenStore) GetResetToken(_ context.Context, token string) (int64, int64, bool, error) {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	tok, ok := t.s.resetTokens[token]
	if !ok {
		return 0, 0, false, errNotFound
	}
	return tok.userID, tok.expiresAt, tok.done, nil
}

func (t *tokenStore) MarkResetUsed(_ context.Context, token string) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	if tok, ok := t.s.resetTokens[token]; ok {
		tok.done = true
	}
	return nil
}

// NoopEnqueuer discards email tasks.
type NoopEnqueuer struct{}

func (NoopEnqueuer) EnqueueSendConfirmation(context.Context, string, string) error  { return nil }
func (NoopEnqueuer) EnqueueSendPasswordReset(context.Context, string, string) error { return nil }

var _ ports.TaskEnqueuer = NoopEnqueuer{}

type notFoundError struct{}

func (notFoundError) Error() string { return "not found" }

var errNotFound = notFoundError{}
