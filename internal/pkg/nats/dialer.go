package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/piresc/ridetracker/internal/pkg/constants"
	"github.com/piresc/ridetracker/internal/pkg/jwt"
	"github.com/piresc/ridetracker/internal/pkg/logger"
	"github.com/piresc/ridetracker/internal/pkg/models"
	"github.com/piresc/ridetracker/internal/pkg/realtime"
)

var errConnClosed = errors.New("nats connection closed")

// Dialer opens the push channel over NATS. Events for the user arrive on
// {prefix}.{user_id}.inbox and client messages go to {prefix}.{user_id}.outbox.
type Dialer struct {
	URL           string
	SubjectPrefix string
	// UserID defaults to the user_id or sub claim of the token
	UserID  string
	Timeout time.Duration
}

// Dial connects with token auth. Reconnection is left to realtime.Manager.
func (d *Dialer) Dial(ctx context.Context, token string) (realtime.Conn, error) {
	userID := d.UserID
	if userID == "" {
		if claims, err := jwt.Inspect(token); err == nil {
			userID = claims.UserID
			if userID == "" {
				userID = claims.Subject
			}
		}
	}
	if userID == "" {
		return nil, fmt.Errorf("%w: no user id for inbox subject", models.ErrAuthRejected)
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	client, err := NewClient(d.URL,
		nats.Name("ridetracker"),
		nats.Token(token),
		nats.NoReconnect(),
		nats.Timeout(timeout),
	)
	if err != nil {
		if errors.Is(err, nats.ErrAuthorization) {
			return nil, fmt.Errorf("%w: %v", models.ErrAuthRejected, err)
		}
		return nil, err
	}

	msgs := make(chan *nats.Msg, 64)
	inbox := fmt.Sprintf(constants.SubjectClientInbox, d.SubjectPrefix, userID)
	sub, err := client.ChanSubscribe(inbox, msgs)
	if err != nil {
		client.Close()
		return nil, err
	}

	return &Conn{
		client: client,
		sub:    sub,
		msgs:   msgs,
		outbox: fmt.Sprintf(constants.SubjectClientOutbox, d.SubjectPrefix, userID),
	}, nil
}

// Conn adapts a NATS subscription pair to realtime.Conn
type Conn struct {
	client *Client
	sub    *nats.Subscription
	msgs   chan *nats.Msg
	outbox string
}

func (c *Conn) ReadMessage() (models.WSMessage, error) {
	for {
		select {
		case msg := <-c.msgs:
			out, err := models.DecodeWSMessage(msg.Data)
			if err != nil {
				logger.Warn("Dropping malformed NATS push message",
					logger.String("subject", msg.Subject),
					logger.Err(err))
				continue
			}
			return out, nil
		case <-c.client.Closed():
			return models.WSMessage{}, errConnClosed
		}
	}
}

func (c *Conn) WriteMessage(msg models.WSMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.client.Publish(c.outbox, data)
}

func (c *Conn) Close() error {
	_ = c.sub.Unsubscribe()
	c.client.Close()
	return nil
}
