package task

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mwolniarski/project-management-backend/internal/application/access"
	"github.com/mwolniarski/project-management-backend/internal/domain"
	domerrors "github.com/mwolniarski/project-management-backend/internal/domain/errors"
)

// Emails wrapped in this marker inside a comment mention a user.
const mentionMarker = "@@@@"

// AddComment attaches a comment authored by the caller, records it in the
// task history and notifies mentioned users.
func (s *Service) AddComment(ctx context.Context, p *domain.Principal, taskID int64, content string) (*domain.Comment, error) {
	if _, err := s.loadTask(ctx, p, taskID, domain.PermTaskAddComment); err != nil {
		return nil, err
	}
	comment := &domain.Comment{
		TaskID:    taskID,
		AuthorID:  p.UserID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	id, err := s.comments.Create(ctx, comment)
	if err != nil {
		return nil, err
	}
	comment.ID = id
	s.appendHistory(ctx, taskID, "Comment added by "+p.Email)
	s.notifyMentions(ctx, p, taskID, content)
	return comment, nil
}

// ListComments returns a task's comments.
func (s *Service) ListComments(ctx context.Context, p *domain.Principal, taskID int64) ([]*domain.Comment, error) {
	if _, err := s.loadTask(ctx, p, taskID, domain.PermProjectRead); err != nil {
		return nil, err
	}
	return s.comments.ListByTask(ctx, taskID)
}

// EditComment rewrites a comment's content. Only the author may edit,
// regardless of permission grants.
func (s *Service) EditComment(ctx context.Context, p *domain.Principal, commentID int64, content string) error {
	comment, err := s.loadComment(ctx, p, commentID, domain.PermTaskEditComment)
	if err != nil {
		return err
	}
	if comment.AuthorID != p.UserID {
		return domerrors.ErrPermissionDenied
	}
	comment.Content = content
	return s.comments.Update(ctx, comment)
}

// DeleteComment removes a comment. Only the author may delete it.
func (s *Service) DeleteComment(ctx context.Context, p *domain.Principal, commentID int64) error {
	comment, err := s.loadComment(ctx, p, commentID, domain.PermTaskDeleteComment)
	if err != nil {
		return err
	}
	if comment.AuthorID != p.UserID {
		return domerrors.ErrPermissionDenied
	}
	return s.comments.Delete(ctx, commentID)
}

func (s *Service) loadComment(ctx context.Context, p *domain.Principal, commentID int64, required domain.Permission) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil {
		return nil, domerrors.ErrNoSuchEntity
	}
	if err := access.RequireSameOrganization(p, comment.OrganizationID); err != nil {
		return nil, err
	}
	if err := access.Require(p, required); err != nil {
		return nil, err
	}
	return comment, nil
}

// notifyMentions creates an UNREAD notification for every mentioned user.
// Unknown addresses and users from other organizations are skipped;
// notification delivery is best-effort like history.
func (s *Service) notifyMentions(ctx context.Context, p *domain.Principal, taskID int64, content string) {
	for _, email := range mentionedEmails(content) {
		user, err := s.users.GetByEmail(ctx, email)
		if err != nil || user == nil || user.OrganizationID != p.OrganizationID {
			continue
		}
		_, _ = s.notifications.Create(ctx, &domain.Notification{
			UserID:    user.ID,
			Message:   fmt.Sprintf("You were mentioned in a comment on task %d", taskID),
			Status:    domain.NotificationUnread,
			CreatedAt: time.Now(),
		})
	}
}

func mentionedEmails(content string) []string {
	var emails []string
	rest := content
	for {
		start := strings.Index(rest, mentionMarker)
		if start < 0 {
			return emails
		}
		rest = rest[start+len(mentionMarker):]
		end := strings.Index(rest, mentionMarker)
		if end < 0 {
			return emails
		}
		if email := rest[:end]; email != "" {
			emails = append(emails, email)
		}
		rest = rest[end+len(mentionMarker):]
	}
}
