package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/novamind-digital/immo/internal/domains/reminders/ports"
)

// DismissedKey is the Redis set holding dismissed reminder ids.
const DismissedKey = "immo:reminders:dismissed"

var _ ports.DismissedSet = (*DismissedSet)(nil)

// DismissedSet is a Redis-backed dismissed set shared by every API instance.
type DismissedSet struct {
	client redis.UniversalClient
	key    string
}

// NewDismissedSet wires the set. Client lifecycle is managed externally.
func NewDismissedSet(client redis.UniversalClient) *DismissedSet {
	return &DismissedSet{client: client, key: DismissedKey}
}

func (s *DismissedSet) Add(ctx context.Context, reminderID string) error {
	return s.client.SAdd(ctx, s.key, reminderID).Err()
}

func (s *DismissedSet) Members(ctx context.Context) ([]string, error) {
	return s.client.SMembers(ctx, s.key).Result()
}
