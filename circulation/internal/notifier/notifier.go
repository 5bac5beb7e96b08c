package notifier

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

type Kind string

const (
	KindOverdue     Kind = "overdue"
	KindHoldReady   Kind = "hold-ready"
	KindHoldExpired Kind = "hold-expired"
)

// Message is the wire format of every notification.
type Message struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	UserEmail string          `json:"userEmail"`
	CreatedAt time.Time       `json:"createdAt"`
	Payload   json.RawMessage `json:"payload"`
}

func NewMessage(id, userEmail string, kind Kind, payload any, at time.Time) (Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, errors.Wrapf(err, "marshal %s payload", kind)
	}
	return Message{
		ID:        id,
		Kind:      kind,
		UserEmail: userEmail,
		CreatedAt: at.UTC(),
		Payload:   data,
	}, nil
}

// Sender delivers one message. It may block; the Dispatcher calls it off the request path.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
