package slackmsg

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/slack-go/slack"
)

// apiStub implements api with overridable functions.
type apiStub struct {
	OpenConversationContextFunc func(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error)
	PostMessageContextFunc      func(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
	UpdateMessageContextFunc    func(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error)
	GetUserInfoContextFunc      func(ctx context.Context, user string) (*slack.User, error)
	GetUsersContextFunc         func(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error)
}

func (s *apiStub) OpenConversationContext(ctx context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error) {
	return s.OpenConversationContextFunc(ctx, params)
}

func (s *apiStub) PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	return s.PostMessageContextFunc(ctx, channelID, options...)
}

func (s *apiStub) UpdateMessageContext(ctx context.Context, channelID, timestamp string, options ...slack.MsgOption) (string, string, string, error) {
	return s.UpdateMessageContextFunc(ctx, channelID, timestamp, options...)
}

func (s *apiStub) GetUserInfoContext(ctx context.Context, user string) (*slack.User, error) {
	return s.GetUserInfoContextFunc(ctx, user)
}

func (s *apiStub) GetUsersContext(ctx context.Context, options ...slack.GetUsersOption) ([]slack.User, error) {
	return s.GetUsersContextFunc(ctx, options...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func imChannel(id string) *slack.Channel {
	ch := &slack.Channel{}
	ch.ID = id
	return ch
}

func TestMessenger_PostDM(t *testing.T) {
	t.Parallel()

	var openedWith []string
	stub := &apiStub{
		OpenConversationContextFunc: func(_ context.Context, params *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error) {
			openedWith = params.Users
			return imChannel("D123"), false, false, nil
		},
		PostMessageContextFunc: func(_ context.Context, channelID string, _ ...slack.MsgOption) (string, string, error) {
			if channelID != "D123" {
				t.Errorf("posted to channel %q, want D123", channelID)
			}
			return channelID, "1700000000.000100", nil
		},
	}
	m := &Messenger{api: stub, log: discardLogger()}

	ch, ts, err := m.PostDM(context.Background(), "U456", "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch != "D123" || ts != "1700000000.000100" {
		t.Errorf("PostDM() = (%q, %q), want (D123, 1700000000.000100)", ch, ts)
	}
	if len(openedWith) != 1 || openedWith[0] != "U456" {
		t.Errorf("conversation opened with %v, want [U456]", openedWith)
	}
}

func TestMessenger_SendDM_OpenFails(t *testing.T) {
	t.Parallel()

	stub := &apiStub{
		OpenConversationContextFunc: func(context.Context, *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error) {
			return nil, false, false, errors.New("channel_not_found")
		},
	}
	m := &Messenger{api: stub, log: discardLogger()}

	err := m.SendDM(context.Background(), "U456", "hello")
	if err == nil {
		t.Fatal("expected error")
	}

	var derr *DeliveryError
	if !errors.As(err, &derr) {
		t.Fatalf("error %v is not a DeliveryError", err)
	}
	if derr.UserID != "U456" {
		t.Errorf("DeliveryError.UserID = %q, want U456", derr.UserID)
	}
}

func TestMessenger_SendDM_PostFails(t *testing.T) {
	t.Parallel()

	stub := &apiStub{
		OpenConversationContextFunc: func(context.Context, *slack.OpenConversationParameters) (*slack.Channel, bool, bool, error) {
			return imChannel("D123"), false, false, nil
		},
		PostMessageContextFunc: func(context.Context, string, ...slack.MsgOption) (string, string, error) {
			return "", "", errors.New("msg_too_long")
		},
	}
	m := &Messenger{api: stub, log: discardLogger()}

	var derr *DeliveryError
	if err := m.SendDM(context.Background(), "U456", "hello"); !errors.As(err, &derr) {
		t.Fatalf("error %v is not a DeliveryError", err)
	}
}

func TestMessenger_UpdateMessage(t *testing.T) {
	t.Parallel()

	var gotChannel, gotTS string
	stub := &apiStub{
		UpdateMessageContextFunc: func(_ context.Context, channelID, timestamp string, _ ...slack.MsgOption) (string, string, string, error) {
			gotChannel, gotTS = channelID, timestamp
			return channelID, timestamp, "", nil
		},
	}
	m := &Messenger{api: stub, log: discardLogger()}

	if err := m.UpdateMessage(context.Background(), "D123", "1700000000.000100", "edited"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotChannel != "D123" || gotTS != "1700000000.000100" {
		t.Errorf("updated (%q, %q), want (D123, 1700000000.000100)", gotChannel, gotTS)
	}
}

func newTestDirectory(t *testing.T, stub *apiStub) *Directory {
	t.Helper()
	cache, err := lru.New[string, string](16)
	if err != nil {
		t.Fatalf("create cache: %v", err)
	}
	return &Directory{api: stub, cache: cache, log: discardLogger()}
}

func TestDirectory_DisplayName_CachesLookups(t *testing.T) {
	t.Parallel()

	calls := 0
	stub := &apiStub{
		GetUserInfoContextFunc: func(_ context.Context, user string) (*slack.User, error) {
			calls++
			u := &slack.User{ID: user, Name: "antonv"}
			u.Profile.DisplayName = "Anton"
			return u, nil
		},
	}
	d := newTestDirectory(t, stub)

	ctx := context.Background()
	if got := d.DisplayName(ctx, "U456"); got != "Anton" {
		t.Errorf("DisplayName() = %q, want Anton", got)
	}
	if got := d.DisplayName(ctx, "U456"); got != "Anton" {
		t.Errorf("DisplayName() second call = %q, want Anton", got)
	}
	if calls != 1 {
		t.Errorf("API called %d times, want 1", calls)
	}
}

func TestDirectory_DisplayName_FallsBackToUsername(t *testing.T) {
	t.Parallel()

	stub := &apiStub{
		GetUserInfoContextFunc: func(_ context.Context, user string) (*slack.User, error) {
			return &slack.User{ID: user, Name: "antonv"}, nil
		},
	}
	d := newTestDirectory(t, stub)

	if got := d.DisplayName(context.Background(), "U456"); got != "antonv" {
		t.Errorf("DisplayName() = %q, want antonv", got)
	}
}

func TestDirectory_DisplayName_FallsBackToID(t *testing.T) {
	t.Parallel()

	calls := 0
	stub := &apiStub{
		GetUserInfoContextFunc: func(context.Context, string) (*slack.User, error) {
			calls++
			return nil, errors.New("user_not_found")
		},
	}
	d := newTestDirectory(t, stub)

	ctx := context.Background()
	if got := d.DisplayName(ctx, "U456"); got != "U456" {
		t.Errorf("DisplayName() = %q, want U456", got)
	}
	// The fallback is cached as well.
	_ = d.DisplayName(ctx, "U456")
	if calls != 1 {
		t.Errorf("API called %d times, want 1", calls)
	}
}

func TestDirectory_ListWorkspaceUsers(t *testing.T) {
	t.Parallel()

	stub := &apiStub{
		GetUsersContextFunc: func(context.Context, ...slack.GetUsersOption) ([]slack.User, error) {
			return []slack.User{
				{ID: "U1"},
				{ID: "U2", Deleted: true},
				{ID: "U3", IsBot: true},
				{ID: "USLACKBOT"},
				{ID: "U4"},
			}, nil
		},
	}
	d := newTestDirectory(t, stub)

	ids, err := d.ListWorkspaceUsers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ids) != 2 || ids[0] != "U1" || ids[1] != "U4" {
		t.Errorf("ListWorkspaceUsers() = %v, want [U1 U4]", ids)
	}
}
