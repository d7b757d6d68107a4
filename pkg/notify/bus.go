// Package notify publishes user notifications to NATS.
package notify

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"github.com/GlebRadaev/freelancehub/internal/domain"
)

const subjectPrefix = "notifications."

type Publisher interface {
	Publish(subject string, data []byte) error
}

type Bus struct {
	pub Publisher
}

func NewBus(pub Publisher) *Bus {
	return &Bus{pub: pub}
}

// Connect returns nil without error when url is empty; the bus is optional.
func Connect(url string) (*nats.Conn, error) {
	if url == "" {
		return nil, nil
	}
	nc, err := nats.Connect(url, nats.Name("freelancehub"), nats.MaxReconnects(-1))
	if err != nil {
		return nil, err
	}
	return nc, nil
}

func Subject(n domain.Notification) string {
	return subjectPrefix + n.UserID.String()
}

func (b *Bus) Publish(n domain.Notification) error {
	data, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("can't encode notification: %w", err)
	}
	if err := b.pub.Publish(Subject(n), data); err != nil {
		return fmt.Errorf("can't publish notification: %w", err)
	}
	return nil
}
