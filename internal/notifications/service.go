// AngelaMos | 2026
// service.go

package notifications

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jonboulle/clockwork"
	"github.com/oklog/ulid/v2"

	"github.com/carterperez-dev/esimphony/internal/fixtures"
	"github.com/carterperez-dev/esimphony/internal/session"
	"github.com/carterperez-dev/esimphony/internal/storage"
)

var ErrNotFound = errors.New("notification not found")

type ListView struct {
	Notifications []fixtures.Notification `json:"notifications"`
	Unread        int                     `json:"unread"`
}

type Service struct {
	clock  clockwork.Clock
	logger *slog.Logger
}

func NewService(clock clockwork.Clock, logger *slog.Logger) *Service {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{clock: clock, logger: logger}
}

// load falls back to the seed list while the key is absent. The seeds
// are only written once something changes.
func (s *Service) load(ctx context.Context, store *session.Store) []fixtures.Notification {
	var list []fixtures.Notification
	if store.KV().Get(ctx, storage.KeyNotifications, &list) {
		return list
	}
	return fixtures.SeedNotifications()
}

func view(list []fixtures.Notification) *ListView {
	v := &ListView{Notifications: list}
	for _, n := range list {
		if !n.Read {
			v.Unread++
		}
	}
	return v
}

func (s *Service) List(ctx context.Context, store *session.Store) *ListView {
	return view(s.load(ctx, store))
}

func (s *Service) MarkRead(ctx context.Context, store *session.Store, id string) (*ListView, error) {
	list := s.load(ctx, store)

	found := false
	for i := range list {
		if list[i].ID == id {
			list[i].Read = true
			found = true
			break
		}
	}
	if !found {
		return nil, ErrNotFound
	}

	store.KV().Set(ctx, storage.KeyNotifications, list)
	return view(list), nil
}

func (s *Service) MarkAllRead(ctx context.Context, store *session.Store) *ListView {
	list := s.load(ctx, store)
	for i := range list {
		list[i].Read = true
	}

	store.KV().Set(ctx, storage.KeyNotifications, list)
	return view(list)
}

// Clear removes the stored list. The next load shows the seeds again.
func (s *Service) Clear(ctx context.Context, store *session.Store) {
	store.KV().Remove(ctx, storage.KeyNotifications)
}

// Push prepends n with a fresh id and the current time.
func (s *Service) Push(ctx context.Context, store *session.Store, n fixtures.Notification) {
	now := s.clock.Now()
	n.ID = ulid.MustNew(ulid.Timestamp(now), ulid.DefaultEntropy()).String()
	n.Date = now.UTC()
	n.Read = false

	list := append([]fixtures.Notification{n}, s.load(ctx, store)...)
	store.KV().Set(ctx, storage.KeyNotifications, list)

	s.logger.DebugContext(ctx, "notification pushed",
		"scope", store.KV().Scope(),
		"id", n.ID,
		"title", n.Title,
	)
}
