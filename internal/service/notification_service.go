package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/evolvehq/perf-review-api/internal/models"
	appErrors "github.com/evolvehq/perf-review-api/pkg/errors"
)

type notificationRepository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

type notificationUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// NotificationService delivers in-app notifications for review events.
// Delivery failures are logged and never fail the triggering request.
type NotificationService struct {
	repo   notificationRepository
	users  notificationUserRepository
	logger *zap.Logger
}

// NewNotificationService constructs a NotificationService instance.
func NewNotificationService(repo notificationRepository, users notificationUserRepository, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{repo: repo, users: users, logger: logger}
}

// List returns the user's notifications.
func (s *NotificationService) List(ctx context.Context, filter models.NotificationFilter) ([]models.Notification, int, error) {
	notifications, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notifications")
	}
	return notifications, total, nil
}

// UnreadCount returns the number of unread notifications for the user.
func (s *NotificationService) UnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count notifications")
	}
	return count, nil
}

// MarkRead marks one notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) error {
	if err := s.repo.MarkRead(ctx, userID, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notification read")
	}
	return nil
}

// MarkAllRead marks every notification of the user as read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	if err := s.repo.MarkAllRead(ctx, userID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark notifications read")
	}
	return nil
}

// ReviewSubmitted notifies the goal owner, or their manager for a
// self-review, that a review arrived.
func (s *NotificationService) ReviewSubmitted(ctx context.Context, goal *models.Goal, review *models.Review) {
	switch review.Type {
	case models.ReviewTypeSelf:
		manager := s.managerOf(ctx, goal.EmployeeID)
		if manager == "" {
			return
		}
		s.deliver(ctx, &models.Notification{
			UserID: manager,
			Kind:   models.NotificationReviewSubmitted,
			Title:  "Получена самооценка",
			Body:   fmt.Sprintf("Сотрудник отправил самооценку по цели «%s».", goal.Title),
			GoalID: &goal.ID,
		})
	case models.ReviewTypeManager, models.ReviewTypePotential:
		s.deliver(ctx, &models.Notification{
			UserID: goal.EmployeeID,
			Kind:   models.NotificationReviewSubmitted,
			Title:  "Получена оценка руководителя",
			Body:   fmt.Sprintf("Руководитель оценил цель «%s».", goal.Title),
			GoalID: &goal.ID,
		})
	}
}

// RespondentSubmitted notifies the goal owner about new peer feedback.
func (s *NotificationService) RespondentSubmitted(ctx context.Context, goal *models.Goal, review *models.RespondentReview) {
	s.deliver(ctx, &models.Notification{
		UserID: goal.EmployeeID,
		Kind:   models.NotificationRespondentSubmitted,
		Title:  "Получена оценка респондента",
		Body:   fmt.Sprintf("По цели «%s» поступила оценка от респондента.", goal.Title),
		GoalID: &goal.ID,
	})
}

// ReviewFinalized tells the employee their review received a final
// rating.
func (s *NotificationService) ReviewFinalized(ctx context.Context, goal *models.Goal, review *models.Review) {
	rating := models.RatingD
	if review.FinalRating != nil {
		rating = *review.FinalRating
	}
	s.deliver(ctx, &models.Notification{
		UserID: goal.EmployeeID,
		Kind:   models.NotificationReviewFinalized,
		Title:  "Оценка завершена",
		Body:   fmt.Sprintf("По цели «%s» выставлена итоговая оценка %s.", goal.Title, rating),
		GoalID: &goal.ID,
	})
}

// ScoringRequired asks the employee's manager to score pending answers.
func (s *NotificationService) ScoringRequired(ctx context.Context, goal *models.Goal, review *models.Review, pending []string) {
	manager := s.managerOf(ctx, goal.EmployeeID)
	if manager == "" {
		return
	}
	s.deliver(ctx, &models.Notification{
		UserID: manager,
		Kind:   models.NotificationScoringRequired,
		Title:  "Требуется оценка ответов",
		Body:   fmt.Sprintf("По цели «%s» %d ответов ожидают оценки руководителя.", goal.Title, len(pending)),
		GoalID: &goal.ID,
	})
}

// GoalStatusChanged notifies the counterparty about a status change.
func (s *NotificationService) GoalStatusChanged(ctx context.Context, goal *models.Goal, actorID string) {
	target := goal.EmployeeID
	if actorID == goal.EmployeeID {
		target = s.managerOf(ctx, goal.EmployeeID)
	}
	if target == "" {
		return
	}
	s.deliver(ctx, &models.Notification{
		UserID: target,
		Kind:   models.NotificationGoalStatusChanged,
		Title:  "Статус цели изменён",
		Body:   fmt.Sprintf("Цель «%s» переведена в статус %s.", goal.Title, goal.Status),
		GoalID: &goal.ID,
	})
}

func (s *NotificationService) managerOf(ctx context.Context, employeeID string) string {
	employee, err := s.users.FindByID(ctx, employeeID)
	if err != nil {
		s.logger.Warn("load employee for notification", zap.Error(err))
		return ""
	}
	if employee.ManagerID == nil {
		return ""
	}
	return *employee.ManagerID
}

func (s *NotificationService) deliver(ctx context.Context, n *models.Notification) {
	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Warn("deliver notification",
			zap.String("user_id", n.UserID),
			zap.String("kind", string(n.Kind)),
			zap.Error(err))
	}
}
