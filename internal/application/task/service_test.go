package task_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mwolniarski/project-management-backend/internal/application/apptest"
	"github.com/mwolniarski/project-management-backend/internal/application/task"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

type fixture struct {
	store   *apptest.Store
	service *task.Service
	orgID   int64
	admin   *domain.Principal
	project *domain.Project
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := apptest.NewStore()
	ctx := context.Background()
	orgID, err := store.Orgs().Create(ctx, &domain.Organization{Name: "acme", Status: domain.OrgStatusActive})
	if err != nil {
		t.Fatalf("create org: %v", err)
	}
	adminUser := &domain.User{Email: "admin@acme.io", OrganizationID: orgID, Enabled: true}
	if _, err := store.Users().Create(ctx, adminUser); err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	proj := &domain.Project{Name: "rocket", Status: domain.ProjectStatusActive, OwnerID: adminUser.ID, OrganizationID: orgID}
	if _, err := store.Projects().Create(ctx, proj); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return &fixture{
		store: store,
		service: task.NewService(
			store.Projects(), store.Groups(), store.Tasks(),
			store.Comments(), store.TimeEntries(), store.History(), store.Notifications(),
			store.Users(),
		),
		orgID: orgID,
		admin: &domain.Principal{
			UserID:         adminUser.ID,
			Email:          adminUser.Email,
			OrganizationID: orgID,
			Permissions:    domain.NewPermissionSet(domain.PermAllowAll),
		},
		project: proj,
	}
}

func (f *fixture) member(userID int64, perms ...domain.Permission) *domain.Principal {
	return &domain.Principal{
		UserID:         userID,
		Email:          "member@acme.io",
		OrganizationID: f.orgID,
		Permissions:    domain.NewPermissionSet(perms...),
	}
}

// seedMember creates a real user row and returns a principal for it.
func (f *fixture) seedMember(t *testing.T, email string, perms ...domain.Permission) *domain.Principal {
	t.Helper()
	user := &domain.User{Email: email, OrganizationID: f.orgID, Enabled: true, Status: domain.UserStatusActive}
	if _, err := f.store.Users().Create(context.Background(), user); err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return &domain.Principal{
		UserID:         user.ID,
		Email:          email,
		OrganizationID: f.orgID,
		Permissions:    domain.NewPermissionSet(perms...),
	}
}

func (f *fixture) seedTask(t *testing.T) *domain.Task {
	t.Helper()
	group, err := f.service.CreateGroup(context.Background(), f.admin, f.project.ID, "sprint 1")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	created, err := f.service.CreateTask(context.Background(), f.admin, task.CreateTaskInput{
		TaskGroupID: group.ID,
		Name:        "build engine",
		Priority:    domain.TaskPriorityHigh,
	})
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	return created
}

func TestGroupLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, err := f.service.CreateGroup(ctx, f.admin, f.project.ID, "backlog")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if group.OrganizationID != f.orgID {
		t.Fatalf("group org = %d, want %d", group.OrganizationID, f.orgID)
	}
	if err := f.service.UpdateGroup(ctx, f.admin, group.ID, "icebox"); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := f.service.DeleteGroup(ctx, f.admin, group.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.service.DeleteGroup(ctx, f.admin, group.ID); !errors.Is(err, domerrors.ErrNoSuchEntity) {
		t.Fatalf("delete missing err = %v, want ErrNoSuchEntity", err)
	}
}

func TestCreateGroupWithoutGrant(t *testing.T) {
	f := newFixture(t)
	viewer := f.member(51, domain.PermProjectRead)
	if _, err := f.service.CreateGroup(context.Background(), viewer, f.project.ID, "x"); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)

	if created.Status != domain.TaskStatusTodo {
		t.Fatalf("status = %s, want TODO", created.Status)
	}
	if created.OwnerID != f.admin.UserID {
		t.Fatalf("owner = %d, want the creator", created.OwnerID)
	}
	history, err := f.service.History(context.Background(), f.admin, created.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("got %d history entries after create, want 1", len(history))
	}
}

func TestUpdateTaskStatusNotifiesOwner(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()

	err := f.service.UpdateTask(ctx, f.admin, created.ID, task.UpdateTaskInput{
		Name:     created.Name,
		Status:   domain.TaskStatusInProgress,
		Priority: created.Priority,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	notifications, err := f.service.Notifications(ctx, f.admin)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications, want 1 for the status change", len(notifications))
	}
	if notifications[0].Status != domain.NotificationUnread {
		t.Fatalf("notification status = %s, want UNREAD", notifications[0].Status)
	}

	if err := f.service.MarkNotificationRead(ctx, f.admin, notifications[0].ID); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	notifications, _ = f.service.Notifications(ctx, f.admin)
	if notifications[0].Status != domain.NotificationRead {
		t.Fatalf("notification status = %s, want READ", notifications[0].Status)
	}

	history, _ := f.service.History(ctx, f.admin, created.ID)
	if len(history) != 3 {
		t.Fatalf("got %d history entries, want create + update + transition", len(history))
	}
}

func TestUpdateTaskWithoutStatusChange(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()

	err := f.service.UpdateTask(ctx, f.admin, created.ID, task.UpdateTaskInput{
		Name:     "renamed",
		Status:   created.Status,
		Priority: created.Priority,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	notifications, _ := f.service.Notifications(ctx, f.admin)
	if len(notifications) != 0 {
		t.Fatalf("got %d notifications, want none without a transition", len(notifications))
	}
}

func TestTaskCrossOrganization(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)

	outsider := &domain.Principal{
		UserID:         1,
		Email:          "root@rival.io",
		OrganizationID: f.orgID + 1,
		Permissions:    domain.NewPermissionSet(domain.PermAllowAll),
	}
	err := f.service.UpdateTask(context.Background(), outsider, created.ID, task.UpdateTaskInput{
		Name: "hijack", Status: domain.TaskStatusDone, Priority: domain.TaskPriorityLow,
	})
	if !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("cross-org err = %v, want ErrPermissionDenied", err)
	}
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()

	comment, err := f.service.AddComment(ctx, f.admin, created.ID, "looks good")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if err := f.service.EditComment(ctx, f.admin, comment.ID, "looks great"); err != nil {
		t.Fatalf("edit: %v", err)
	}
	listed, err := f.service.ListComments(ctx, f.admin, created.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(listed) != 1 || listed[0].Content != "looks great" {
		t.Fatalf("comments = %+v", listed)
	}
	if err := f.service.DeleteComment(ctx, f.admin, comment.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := f.service.EditComment(ctx, f.admin, comment.ID, "gone"); !errors.Is(err, domerrors.ErrNoSuchEntity) {
		t.Fatalf("edit deleted err = %v, want ErrNoSuchEntity", err)
	}

	commenter := f.member(77, domain.PermProjectRead)
	if _, err := f.service.AddComment(ctx, commenter, created.ID, "drive-by"); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("without grant err = %v, want ErrPermissionDenied", err)
	}
}

func TestTimeEntries(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()
	start := time.Now().Add(-time.Hour)

	worker := f.member(42, domain.PermTimeEntryAdd, domain.PermTimeEntryRemove)
	entry, err := f.service.AddTimeEntry(ctx, worker, task.AddTimeEntryInput{
		TaskID:    created.ID,
		StartTime: start,
		EndTime:   start.Add(30 * time.Minute),
	})
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}
	if entry.UserID != worker.UserID {
		t.Fatalf("entry user = %d, want the caller", entry.UserID)
	}

	_, err = f.service.AddTimeEntry(ctx, worker, task.AddTimeEntryInput{
		TaskID:    created.ID,
		StartTime: start,
		EndTime:   start,
	})
	if err == nil {
		t.Fatal("empty interval should be rejected")
	}

	if err := f.service.RemoveTimeEntry(ctx, worker, entry.ID); err != nil {
		t.Fatalf("remove own entry: %v", err)
	}
}

func TestTimeEntryVisibility(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()
	start := time.Now().Add(-time.Hour)

	alice := f.member(1, domain.PermTimeEntryAdd)
	bob := f.member(2, domain.PermTimeEntryAdd)
	for _, p := range []*domain.Principal{alice, bob} {
		if _, err := f.service.AddTimeEntry(ctx, p, task.AddTimeEntryInput{
			TaskID:    created.ID,
			StartTime: start,
			EndTime:   start.Add(time.Minute),
		}); err != nil {
			t.Fatalf("add entry: %v", err)
		}
	}

	own, err := f.service.ListTimeEntries(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(own) != 1 || own[0].UserID != alice.UserID {
		t.Fatalf("without read-all alice sees %d entries", len(own))
	}

	manager := f.member(3, domain.PermTimeEntryAdd, domain.PermTimeEntryReadAll)
	all, err := f.service.ListTimeEntries(ctx, manager, created.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("with read-all manager sees %d entries, want 2", len(all))
	}
}

func TestRemoveForeignTimeEntryNeedsReadAll(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()
	start := time.Now().Add(-time.Hour)

	alice := f.member(1, domain.PermTimeEntryAdd, domain.PermTimeEntryRemove)
	entry, err := f.service.AddTimeEntry(ctx, alice, task.AddTimeEntryInput{
		TaskID:    created.ID,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
	})
	if err != nil {
		t.Fatalf("add entry: %v", err)
	}

	bob := f.member(2, domain.PermTimeEntryAdd, domain.PermTimeEntryRemove)
	if err := f.service.RemoveTimeEntry(ctx, bob, entry.ID); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("foreign removal err = %v, want ErrPermissionDenied", err)
	}

	supervisor := f.member(3, domain.PermTimeEntryRemove, domain.PermTimeEntryReadAll)
	if err := f.service.RemoveTimeEntry(ctx, supervisor, entry.ID); err != nil {
		t.Fatalf("supervisor removal: %v", err)
	}
}

func TestHistoryReadNeedsGrant(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)

	viewer := f.member(9, domain.PermProjectRead)
	if _, err := f.service.History(context.Background(), viewer, created.ID); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("err = %v, want ErrPermissionDenied", err)
	}
}

func TestCommentOwnership(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()

	comment, err := f.service.AddComment(ctx, f.admin, created.ID, "looks good")
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}

	intruder := f.member(99, domain.PermTaskEditComment, domain.PermTaskDeleteComment)
	if err := f.service.EditComment(ctx, intruder, comment.ID, "rewritten"); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("non-author edit err = %v, want ErrPermissionDenied", err)
	}
	if err := f.service.DeleteComment(ctx, intruder, comment.ID); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("non-author delete err = %v, want ErrPermissionDenied", err)
	}

	listed, _ := f.service.ListComments(ctx, f.admin, created.ID)
	if len(listed) != 1 || listed[0].Content != "looks good" {
		t.Fatalf("comment should be untouched, got %+v", listed)
	}

	if err := f.service.EditComment(ctx, f.admin, comment.ID, "still mine"); err != nil {
		t.Fatalf("author edit: %v", err)
	}
	if err := f.service.DeleteComment(ctx, f.admin, comment.ID); err != nil {
		t.Fatalf("author delete: %v", err)
	}
}

func TestCommentMentionNotifies(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()

	bob := f.seedMember(t, "bob@acme.io")
	if _, err := f.service.AddComment(ctx, f.admin, created.ID, "@@@@bob@acme.io@@@@ please take a look"); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	notifications, err := f.service.Notifications(ctx, bob)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("got %d notifications for bob, want 1", len(notifications))
	}
	if notifications[0].Status != domain.NotificationUnread {
		t.Fatalf("notification status = %s, want UNREAD", notifications[0].Status)
	}
}

func TestCommentMentionSkipsUnknownAndForeign(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()

	outsider := &domain.User{Email: "spy@rival.io", OrganizationID: f.orgID + 1, Enabled: true, Status: domain.UserStatusActive}
	if _, err := f.store.Users().Create(ctx, outsider); err != nil {
		t.Fatalf("seed outsider: %v", err)
	}

	content := "cc @@@@ghost@acme.io@@@@ and @@@@spy@rival.io@@@@"
	if _, err := f.service.AddComment(ctx, f.admin, created.ID, content); err != nil {
		t.Fatalf("add comment: %v", err)
	}

	got, err := f.store.Notifications().ListByUser(ctx, outsider.ID)
	if err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("cross-organization mention produced %d notifications, want 0", len(got))
	}
}

func TestListTimeEntriesWithoutAddGrant(t *testing.T) {
	f := newFixture(t)
	created := f.seedTask(t)
	ctx := context.Background()
	start := time.Now().Add(-time.Hour)

	worker := f.member(4, domain.PermTimeEntryAdd)
	if _, err := f.service.AddTimeEntry(ctx, worker, task.AddTimeEntryInput{
		TaskID:    created.ID,
		StartTime: start,
		EndTime:   start.Add(time.Minute),
	}); err != nil {
		t.Fatalf("add entry: %v", err)
	}

	viewer := f.member(worker.UserID, domain.PermProjectRead)
	own, err := f.service.ListTimeEntries(ctx, viewer, created.ID)
	if err != nil {
		t.Fatalf("read-only member should list own entries: %v", err)
	}
	if len(own) != 1 {
		t.Fatalf("got %d entries, want 1", len(own))
	}
}

func TestProjectTimeEntries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Now().Add(-time.Hour)

	group, err := f.service.CreateGroup(ctx, f.admin, f.project.ID, "sprint 1")
	if err != nil {
		t.Fatalf("create group: %v", err)
	}
	alice := f.member(1, domain.PermTimeEntryAdd)
	bob := f.member(2, domain.PermTimeEntryAdd)
	for i, p := range []*domain.Principal{alice, bob} {
		created, err := f.service.CreateTask(ctx, f.admin, task.CreateTaskInput{
			TaskGroupID: group.ID,
			Name:        "task",
			Priority:    domain.TaskPriorityLow,
		})
		if err != nil {
			t.Fatalf("create task %d: %v", i, err)
		}
		if _, err := f.service.AddTimeEntry(ctx, p, task.AddTimeEntryInput{
			TaskID:    created.ID,
			StartTime: start,
			EndTime:   start.Add(time.Minute),
		}); err != nil {
			t.Fatalf("add entry %d: %v", i, err)
		}
	}

	own, err := f.service.ListProjectTimeEntries(ctx, alice, f.project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(own) != 1 || own[0].UserID != alice.UserID {
		t.Fatalf("without read-all alice sees %d entries", len(own))
	}

	manager := f.member(3, domain.PermTimeEntryReadAll)
	all, err := f.service.ListProjectTimeEntries(ctx, manager, f.project.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("with read-all manager sees %d entries, want 2", len(all))
	}

	outsider := &domain.Principal{
		UserID:         9,
		Email:          "root@rival.io",
		OrganizationID: f.orgID + 1,
		Permissions:    domain.NewPermissionSet(domain.PermAllowAll),
	}
	if _, err := f.service.ListProjectTimeEntries(ctx, outsider, f.project.ID); !errors.Is(err, domerrors.ErrPermissionDenied) {
		t.Fatalf("cross-org err = %v, want ErrPermissionDenied", err)
	}
}
