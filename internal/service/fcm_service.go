package service

import (
	"context"
	"encoding/json"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// FCMService sends push notifications to staff devices via Firebase Cloud Messaging.
type FCMService struct {
	client *messaging.Client
	log    *logrus.Entry
}

// NewFCMService returns nil if Firebase is not configured or cannot be initialised;
// a nil *FCMService is a valid no-op sender.
func NewFCMService(ctx context.Context, serviceAccountPath string, logger *logrus.Logger) *FCMService {
	if serviceAccountPath == "" {
		return nil
	}
	entry := logger.WithField("component", "fcm")
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(serviceAccountPath))
	if err != nil {
		entry.WithError(err).Error("init firebase app")
		return nil
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		entry.WithError(err).Error("init messaging client")
		return nil
	}
	return &FCMService{client: client, log: entry}
}

func (s *FCMService) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if s == nil || token == "" {
		return nil
	}
	msg := &messaging.Message{
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data:  data,
		Token: token,
		Webpush: &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{
				Title: title,
				Body:  body,
				Icon:  "/icons/icon-192.png",
			},
			FCMOptions: &messaging.WebpushFCMOptions{Link: data["link"]},
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	if _, err := s.client.Send(ctx, msg); err != nil {
		s.log.WithError(err).Warn("send failed")
		return err
	}
	return nil
}

// SendToUser flattens data into FCM's string-only payload and sends it with the notice type.
func (s *FCMService) SendToUser(ctx context.Context, fcmToken string, notifType, title, body string, data map[string]interface{}) error {
	if s == nil || fcmToken == "" {
		return nil
	}
	return s.Send(ctx, fcmToken, title, body, pushData(notifType, data))
}

func pushData(notifType string, data map[string]interface{}) map[string]string {
	out := map[string]string{"type": notifType}
	for k, v := range data {
		switch val := v.(type) {
		case string:
			out[k] = val
		case uint, int, int64:
			out[k] = fmt.Sprintf("%d", val)
		case float64:
			out[k] = fmt.Sprintf("%.0f", val)
		default:
			b, _ := json.Marshal(v)
			out[k] = string(b)
		}
	}
	return out
}
