package services

import (
	"fmt"

	"daily-vibes-backend/internal/models"

	"github.com/sideshow/apns2"
	"github.com/sideshow/apns2/certificate"
	"github.com/sideshow/apns2/payload"
)

// Pusher delivers notifications to device endpoints. Delivery is best-effort:
// callers log failures and move on, the stored notification stays queryable.
type Pusher struct {
	client *apns2.Client
	topic  string
}

// NewPusher creates a push client from a p12 certificate
func NewPusher(certPath, certPassword, topic string, production bool) (*Pusher, error) {
	cert, err := certificate.FromP12File(certPath, certPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to load push certificate: %w", err)
	}

	client := apns2.NewClient(cert)
	if production {
		client = client.Production()
	} else {
		client = client.Development()
	}

	return &Pusher{client: client, topic: topic}, nil
}

// Push sends one alert to a device endpoint
func (p *Pusher) Push(device *models.Device, title, body string) error {
	notification := &apns2.Notification{
		DeviceToken: device.Token,
		Topic:       p.topic,
		Payload:     payload.NewPayload().AlertTitle(title).AlertBody(body).Sound("default"),
	}

	res, err := p.client.Push(notification)
	if err != nil {
		return fmt.Errorf("failed to push notification: %w", err)
	}
	if !res.Sent() {
		return fmt.Errorf("push rejected: %s", res.Reason)
	}
	return nil
}
