// Package slackmsg delivers bot messages over the Slack Web API.
package slackmsg

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/slack-go/slack"

	"github.com/avasilev/taskpulse/internal/config"
)

// api is the slice of the Slack client the adapter uses.
type api interface {
	OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	GetUserInfoContext(ctx context.Context, user string) (*slack.User, error)
	GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
}

// DeliveryError reports a failed message delivery to one user. Callers that
// fan a notification out to several users unwrap it to keep going past the
// failing recipient.
type DeliveryError struct {
	UserID string
	Err    error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.UserID, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Messenger sends direct messages and updates previously posted messages.
type Messenger struct {
	api api
	log *slog.Logger
}

// NewMessenger creates a Messenger from bot-token config.
func NewMessenger(cfg config.SlackConfig, log *slog.Logger) *Messenger {
	return &Messenger{
		api: slack.New(cfg.BotToken),
		log: log.With(slog.String("component", "slackmsg")),
	}
}

// SendDM posts text into the user's IM conversation, discarding the message
// reference. Use PostDM when the message needs to be updated later.
func (m *Messenger) SendDM(ctx context.Context, userID, text string) error {
	_, _, err := m.PostDM(ctx, userID, text)
	return err
}

// PostDM opens (or reuses) the IM conversation with the user and posts text
// into it. Returns the channel ID and message timestamp of the posted message.
func (m *Messenger) PostDM(ctx context.Context, userID, text string) (channelID, timestamp string, err error) {
	ch, _, _, err := m.api.OpenConversationContext(ctx, &slack.OpenConversationParameters{
		Users: []string{userID},
	})
	if err != nil {
		return "", "", &DeliveryError{UserID: userID, Err: fmt.Errorf("open conversation: %w", err)}
	}

	_, ts, err := m.api.PostMessageContext(ctx, ch.ID, slack.MsgOptionText(text, false))
	if err != nil {
		return "", "", &DeliveryError{UserID: userID, Err: fmt.Errorf("post message: %w", err)}
	}

	m.log.DebugContext(ctx, "dm sent", slog.String("user_id", userID), slog.String("ts", ts))
	return ch.ID, ts, nil
}

// UpdateMessage rewrites the text of an already posted message in place.
func (m *Messenger) UpdateMessage(ctx context.Context, channelID, timestamp, text string) error {
	if _, _, _, err := m.api.UpdateMessageContext(ctx, channelID, timestamp, slack.MsgOptionText(text, false)); err != nil {
		return fmt.Errorf("update message %s/%s: %w", channelID, timestamp, err)
	}
	return nil
}
