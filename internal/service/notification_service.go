package service

import (
	"context"
	"sync"
	"time"

	"studio8/internal/models"
	"studio8/internal/repository"

	"github.com/sirupsen/logrus"
)

// Notice is a back-office notification addressed to every active staff user with RecipientRole.
type Notice struct {
	RecipientRole string `json:"recipient_role"`
	Type          string `json:"type"`
	Severity      string `json:"severity"`
	Message       string `json:"message"`
	Link          string `json:"link"`
}

// Notifier delivers notices without blocking the caller. Delivery failures are logged and
// never reach the operation that produced the notice.
type Notifier interface {
	Dispatch(n Notice)
}

// Broadcaster pushes a live event to connected back-office sessions.
type Broadcaster interface {
	BroadcastToRole(role string, payload interface{})
}

type NotificationService struct {
	repo    *repository.NotificationRepository
	staff   *repository.StaffRepository
	fcm     *FCMService
	hub     Broadcaster
	timeout time.Duration
	log     *logrus.Entry
	wg      sync.WaitGroup
}

func NewNotificationService(repo *repository.NotificationRepository, staff *repository.StaffRepository, fcm *FCMService, hub Broadcaster, timeout time.Duration, logger *logrus.Logger) *NotificationService {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &NotificationService{
		repo:    repo,
		staff:   staff,
		fcm:     fcm,
		hub:     hub,
		timeout: timeout,
		log:     logger.WithField("component", "notifier"),
	}
}

// Dispatch delivers n on a detached goroutine bounded by the configured timeout.
func (s *NotificationService) Dispatch(n Notice) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				s.log.WithFields(logrus.Fields{"type": n.Type, "panic": r}).Error("notification delivery panicked")
			}
		}()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		if err := s.Deliver(ctx, n); err != nil {
			s.log.WithError(err).WithField("type", n.Type).Warn("notification delivery failed")
		}
	}()
}

// Wait blocks until every dispatched notice has finished delivering.
func (s *NotificationService) Wait() { s.wg.Wait() }

// Deliver stores one notification row per recipient, then pushes it over FCM and the live feed.
func (s *NotificationService) Deliver(ctx context.Context, n Notice) error {
	recipients, err := s.staff.ListActiveByRole(ctx, n.RecipientRole)
	if err != nil {
		return err
	}
	if len(recipients) == 0 {
		s.log.WithField("role", n.RecipientRole).Debug("no recipients for notice")
		return nil
	}
	rows := make([]models.Notification, 0, len(recipients))
	for _, u := range recipients {
		rows = append(rows, models.Notification{
			StaffUserID: u.ID,
			Type:        n.Type,
			Severity:    n.Severity,
			Message:     n.Message,
			Link:        n.Link,
		})
	}
	if err := s.repo.CreateBatch(ctx, rows); err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.BroadcastToRole(n.RecipientRole, map[string]interface{}{"type": "notification", "notification": n})
	}
	for _, u := range recipients {
		if u.FCMToken == "" {
			continue
		}
		if err := s.fcm.SendToUser(ctx, u.FCMToken, n.Type, "Studio 8", n.Message, map[string]interface{}{"link": n.Link, "severity": n.Severity}); err != nil {
			s.log.WithError(err).WithField("staff_user_id", u.ID).Debug("push failed")
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, staffID uint, limit, offset int) ([]models.Notification, int64, error) {
	list, err := s.repo.ListByStaffID(ctx, staffID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	unread, err := s.repo.CountUnread(ctx, staffID)
	return list, unread, err
}

func (s *NotificationService) MarkRead(ctx context.Context, id, staffID uint) error {
	return s.repo.MarkRead(ctx, id, staffID, time.Now())
}

func (s *NotificationService) MarkAllRead(ctx context.Context, staffID uint) error {
	return s.repo.MarkAllRead(ctx, staffID, time.Now())
}
