package purchase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Domenick1991/letservice/internal/domain"
	"github.com/Domenick1991/letservice/internal/repository"
	"github.com/Domenick1991/letservice/internal/worker"
	"github.com/stretchr/testify/mock"
)

// memoryStore backs both repositories so settlement sees flight changes
// made while a purchase is pending.
type memoryStore struct {
	mu        sync.Mutex
	flights   map[int64]domain.Flight
	purchases map[int64]domain.Purchase
	nextID    int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{flights: map[int64]domain.Flight{}, purchases: map[int64]domain.Purchase{}}
}

func (s *memoryStore) putFlight(f domain.Flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flights[f.ID] = f
}

func (s *memoryStore) editFlight(id int64, edit func(f *domain.Flight)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f := s.flights[id]
	edit(&f)
	s.flights[id] = f
}

func (s *memoryStore) deleteFlight(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flights, id)
}

func (s *memoryStore) purchase(id int64) domain.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.purchases[id]
}

type fakeFlights struct{ *memoryStore }

func (r fakeFlights) List(context.Context, repository.FlightFilter) ([]domain.Flight, error) {
	return nil, nil
}

func (r fakeFlights) GetByID(_ context.Context, id int64) (*domain.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flights[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &f, nil
}

func (r fakeFlights) GetByIDs(_ context.Context, ids []int64) (map[int64]*domain.Flight, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := map[int64]*domain.Flight{}
	for _, id := range ids {
		if f, ok := r.flights[id]; ok {
			out[id] = &f
		}
	}
	return out, nil
}

func (r fakeFlights) Create(context.Context, *domain.Flight) error { return nil }
func (r fakeFlights) Delete(context.Context, int64) error          { return nil }

func (r fakeFlights) UpdateDetails(context.Context, *domain.Flight, time.Time) (bool, error) {
	return true, nil
}
func (r fakeFlights) SetApproval(context.Context, *domain.Flight) (bool, error)  { return true, nil }
func (r fakeFlights) MarkCanceled(context.Context, *domain.Flight) (bool, error) { return true, nil }

type fakePurchases struct{ *memoryStore }

func (r fakePurchases) Create(_ context.Context, p *domain.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Unix(r.nextID, 0)
	r.purchases[p.ID] = *p
	return nil
}

func (r fakePurchases) GetByID(_ context.Context, id int64) (*domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r fakePurchases) ListByUser(_ context.Context, userID string) ([]domain.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []domain.Purchase{}
	for _, p := range r.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r fakePurchases) Settle(_ context.Context, id int64, status domain.PurchaseStatus, reason *string, at *time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.purchases[id]
	if !ok || p.Status != domain.PurchasePending {
		return false, nil
	}
	p.Status = status
	p.FailureReason = reason
	p.PurchasedAt = at
	r.purchases[id] = p
	return true, nil
}

func (r fakePurchases) HasCompleted(context.Context, string, int64) (bool, error) {
	return false, nil
}

func (r fakePurchases) CompletedBuyers(context.Context, int64) ([]string, error) {
	return nil, nil
}

type MockScheduler struct {
	mock.Mock
}

func (m *MockScheduler) SubmitAfter(delay time.Duration, task worker.Task) error {
	args := m.Called(delay, task)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, topic, key string, payload any) error {
	args := m.Called(ctx, topic, key, payload)
	return args.Error(0)
}

var (
	_ repository.FlightRepository   = fakeFlights{}
	_ repository.PurchaseRepository = fakePurchases{}
)
