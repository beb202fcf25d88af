package workflow

import (
	"context"
	"sync"

	"github.com/garyjia/tpa-claims/internal/application/dispatcher"
	"github.com/garyjia/tpa-claims/internal/application/port"
	"github.com/garyjia/tpa-claims/internal/domain/claim"
	"github.com/garyjia/tpa-claims/internal/domain/entity"
	"github.com/garyjia/tpa-claims/internal/domain/event"
)

// memStore is an in-memory claim + audit store with journal-based rollback.
// It implements ClaimRepository, AuditRepository, AttachmentCategorySource and TransactionManager.
type memStore struct {
	mu          sync.Mutex
	claims      map[string]*entity.Claim
	audits      []*entity.AuditEntry
	nextAuditID int64

	// afterGet runs after GetByID has read the claim, outside the lock
	afterGet  func()
	appendErr error
}

func newMemStore() *memStore {
	return &memStore{claims: make(map[string]*entity.Claim)}
}

type journalKey struct{}

type journal struct {
	undo []func()
}

func (s *memStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	j := &journal{}
	if err := fn(context.WithValue(ctx, journalKey{}, j)); err != nil {
		s.mu.Lock()
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		s.mu.Unlock()
		return err
	}
	return nil
}

func remember(ctx context.Context, undo func()) {
	if j, ok := ctx.Value(journalKey{}).(*journal); ok {
		j.undo = append(j.undo, undo)
	}
}

func (s *memStore) GetByID(ctx context.Context, id string) (*entity.Claim, error) {
	s.mu.Lock()
	c, ok := s.claims[id]
	if !ok || !c.Active {
		s.mu.Unlock()
		return nil, &claim.NotFoundError{Entity: "claim", ID: id}
	}
	out := c.Clone()
	s.mu.Unlock()

	if s.afterGet != nil {
		s.afterGet()
	}
	return out, nil
}

func (s *memStore) List(ctx context.Context, filter port.ClaimFilter) ([]*entity.Claim, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.Claim
	for _, c := range s.claims {
		if c.Active && (filter.Status == "" || c.Status == filter.Status) {
			out = append(out, c.Clone())
		}
	}
	return out, nil
}

func (s *memStore) Create(ctx context.Context, c *entity.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.Version = 1
	s.claims[c.ID] = c.Clone()
	remember(ctx, func() { delete(s.claims, c.ID) })
	return nil
}

func (s *memStore) Update(ctx context.Context, c *entity.Claim, expectedVersion int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.claims[c.ID]
	if !ok {
		return &claim.NotFoundError{Entity: "claim", ID: c.ID}
	}
	if stored.Version != expectedVersion {
		return &claim.ConcurrencyConflictError{ClaimID: c.ID, ExpectedVersion: expectedVersion}
	}

	c.Version = expectedVersion + 1
	s.claims[c.ID] = c.Clone()
	remember(ctx, func() { s.claims[c.ID] = stored })
	return nil
}

func (s *memStore) Append(ctx context.Context, entry *entity.AuditEntry) error {
	if s.appendErr != nil {
		return s.appendErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextAuditID++
	entry.ID = s.nextAuditID
	s.audits = append(s.audits, entry)
	id := entry.ID
	remember(ctx, func() {
		kept := s.audits[:0]
		for _, a := range s.audits {
			if a.ID != id {
				kept = append(kept, a)
			}
		}
		s.audits = kept
	})
	return nil
}

func (s *memStore) ListByClaimID(ctx context.Context, claimID string) ([]*entity.AuditEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*entity.AuditEntry
	for _, a := range s.audits {
		if a.ClaimID == claimID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *memStore) CountByClaimID(ctx context.Context, claimID string) (int, error) {
	entries, _ := s.ListByClaimID(ctx, claimID)
	return len(entries), nil
}

func (s *memStore) PresentCategories(ctx context.Context, claimID string) ([]entity.AttachmentCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.claims[claimID]
	if !ok {
		return nil, nil
	}
	categories := make([]entity.AttachmentCategory, 0, len(c.Attachments))
	for _, a := range c.Attachments {
		categories = append(categories, a.Category)
	}
	return categories, nil
}

func (s *memStore) stored(id string) *entity.Claim {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.claims[id].Clone()
}

// mockCategories reports attachment categories through a function field
type mockCategories struct {
	present func(ctx context.Context, claimID string) ([]entity.AttachmentCategory, error)
}

func (m *mockCategories) PresentCategories(ctx context.Context, claimID string) ([]entity.AttachmentCategory, error) {
	return m.present(ctx, claimID)
}

func presentCategories(categories ...entity.AttachmentCategory) *mockCategories {
	return &mockCategories{present: func(ctx context.Context, claimID string) ([]entity.AttachmentCategory, error) {
		return categories, nil
	}}
}

type mockDispatcher struct {
	mu     sync.Mutex
	events []*event.Event
}

func (m *mockDispatcher) Subscribe(eventType event.Type, handler dispatcher.Handler) {}

func (m *mockDispatcher) SubscribeNamed(eventType event.Type, name string, handler dispatcher.Handler) {}

func (m *mockDispatcher) SubscribeAll(name string, handler dispatcher.Handler) {}

func (m *mockDispatcher) Dispatch(ctx context.Context, evt *event.Event) error {
	m.DispatchAsync(ctx, evt)
	return nil
}

func (m *mockDispatcher) DispatchAsync(ctx context.Context, evt *event.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, evt)
}

func (m *mockDispatcher) ListHandlers(eventType event.Type) []dispatcher.HandlerInfo {
	return nil
}

func (m *mockDispatcher) Close() error {
	return nil
}

func (m *mockDispatcher) types() []event.Type {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]event.Type, len(m.events))
	for i, e := range m.events {
		out[i] = e.Type
	}
	return out
}
