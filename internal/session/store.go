// AngelaMos | 2026
// store.go

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/esimphony/internal/storage"
)

var ErrUnauthenticated = errors.New("login required")

// Manager hands out a Store per device scope over a shared backend.
type Manager struct {
	backend storage.Backend
	logger  *slog.Logger
}

func NewManager(backend storage.Backend, logger *slog.Logger) *Manager {
	return &Manager{backend: backend, logger: logger}
}

func (m *Manager) For(scope string) *Store {
	return NewStore(storage.NewAdapter(m.backend, scope, m.logger))
}

// Store is the read/write API over one device's session record and
// the auxiliary keys that travel with it.
type Store struct {
	kv *storage.Adapter
}

func NewStore(kv *storage.Adapter) *Store {
	return &Store{kv: kv}
}

func (s *Store) KV() *storage.Adapter {
	return s.kv
}

func (s *Store) Load(ctx context.Context) (*User, bool) {
	var u User
	if !s.kv.Get(ctx, storage.KeyUserProfile, &u) {
		return nil, false
	}
	return &u, true
}

// Save replaces the stored record wholesale. Concurrent writers are not
// arbitrated: the last Save wins.
func (s *Store) Save(ctx context.Context, u *User) error {
	if err := u.Validate(); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	s.kv.Set(ctx, storage.KeyUserProfile, u)
	return nil
}

func (s *Store) Authenticate(ctx context.Context, u *User) error {
	if err := s.Save(ctx, u); err != nil {
		return err
	}
	s.kv.Set(ctx, storage.KeyIsAuthenticated, true)
	return nil
}

func (s *Store) IsAuthenticated(ctx context.Context) bool {
	var flag bool
	return s.kv.Get(ctx, storage.KeyIsAuthenticated, &flag) && flag
}

// Gate admits a view only when both the flag and the record exist. The
// record is not read when the flag is missing.
func (s *Store) Gate(ctx context.Context) (*User, error) {
	if !s.IsAuthenticated(ctx) {
		return nil, ErrUnauthenticated
	}

	u, ok := s.Load(ctx)
	if !ok {
		return nil, ErrUnauthenticated
	}

	return u, nil
}

func (s *Store) Logout(ctx context.Context) {
	s.kv.Clear(ctx)
}

func (s *Store) Reset(ctx context.Context) {
	s.kv.Clear(ctx)
}

func (s *Store) SetTopUpSource(ctx context.Context, source string) {
	s.kv.Set(ctx, storage.KeyTopUpSource, source)
}

func (s *Store) TopUpSource(ctx context.Context) (string, bool) {
	var source string
	ok := s.kv.Get(ctx, storage.KeyTopUpSource, &source)
	return source, ok
}

// TakeTopUpSource reads the pending top-up origin and removes it.
func (s *Store) TakeTopUpSource(ctx context.Context) (string, bool) {
	source, ok := s.TopUpSource(ctx)
	if ok {
		s.kv.Remove(ctx, storage.KeyTopUpSource)
	}
	return source, ok
}

func (s *Store) StagePlanChange(ctx context.Context, p *Plan) {
	s.kv.Set(ctx, storage.KeyPlanChangeData, p)
}

func (s *Store) PlanChange(ctx context.Context) (*Plan, bool) {
	var p Plan
	if !s.kv.Get(ctx, storage.KeyPlanChangeData, &p) {
		return nil, false
	}
	return &p, true
}

func (s *Store) ClearPlanChange(ctx context.Context) {
	s.kv.Remove(ctx, storage.KeyPlanChangeData)
}

func (s *Store) SetLastCard(ctx context.Context, card CardSummary) {
	s.kv.Set(ctx, storage.KeyLastCardPayment, card)
}

func (s *Store) LastCard(ctx context.Context) (*CardSummary, bool) {
	var card CardSummary
	if !s.kv.Get(ctx, storage.KeyLastCardPayment, &card) {
		return nil, false
	}
	return &card, true
}

// TakeUpdatePlanHint is one-shot: the hint is removed once read. No
// view writes it; a client that wants the update layout stores it.
func (s *Store) TakeUpdatePlanHint(ctx context.Context) bool {
	var show bool
	if !s.kv.Get(ctx, storage.KeyShowUpdatePlan, &show) {
		return false
	}
	s.kv.Remove(ctx, storage.KeyShowUpdatePlan)
	return show
}

func (s *Store) SetRecommendedAmount(ctx context.Context, amount decimal.Decimal) {
	s.kv.Set(ctx, storage.KeyRecommendedAmount, amount)
}

func (s *Store) RecommendedAmount(ctx context.Context) (decimal.Decimal, bool) {
	var amount decimal.Decimal
	if !s.kv.Get(ctx, storage.KeyRecommendedAmount, &amount) {
		return decimal.Zero, false
	}
	return amount, true
}

func (s *Store) ClearRecommendedAmount(ctx context.Context) {
	s.kv.Remove(ctx, storage.KeyRecommendedAmount)
}
