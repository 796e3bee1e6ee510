package slackmsg

import (
	"context"
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/slack-go/slack"

	"github.com/avasilev/taskpulse/internal/config"
)

// Directory resolves Slack user IDs to display names, caching lookups so
// repeated formatting of the same users does not hit the API.
type Directory struct {
	api   api
	cache *lru.Cache[string, string]
	log   *slog.Logger
}

// NewDirectory creates a Directory with an LRU name cache of the configured
// size.
func NewDirectory(cfg config.SlackConfig, log *slog.Logger) (*Directory, error) {
	cache, err := lru.New[string, string](cfg.UserCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create user cache: %w", err)
	}
	return &Directory{
		api:   slack.New(cfg.BotToken),
		cache: cache,
		log:   log.With(slog.String("component", "slackdir")),
	}, nil
}

// DisplayName returns the user's display name, falling back to the profile
// real name and finally to the raw ID when the lookup fails. Results,
// including fallbacks from failed lookups, are cached.
func (d *Directory) DisplayName(ctx context.Context, userID string) string {
	if name, ok := d.cache.Get(userID); ok {
		return name
	}

	name := userID
	user, err := d.api.GetUserInfoContext(ctx, userID)
	switch {
	case err != nil:
		d.log.WarnContext(ctx, "user lookup failed", slog.String("user_id", userID), slog.Any("error", err))
	case user.Profile.DisplayName != "":
		name = user.Profile.DisplayName
	case user.Name != "":
		name = user.Name
	}

	d.cache.Add(userID, name)
	return name
}

// ListWorkspaceUsers returns the IDs of active human workspace members,
// excluding deleted accounts, bots, and Slackbot.
func (d *Directory) ListWorkspaceUsers(ctx context.Context) ([]string, error) {
	users, err := d.api.GetUsersContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list workspace users: %w", err)
	}

	ids := make([]string, 0, len(users))
	for _, u := range users {
		if u.Deleted || u.IsBot || u.ID == "USLACKBOT" {
			continue
		}
		ids = append(ids, u.ID)
	}
	return ids, nil
}
