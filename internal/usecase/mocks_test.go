package usecase

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/snapdiet/backend/internal/domain"
)

// MockCacheRepository is a mock implementation of domain.CacheRepository
type MockCacheRepository struct {
	mu        sync.Mutex
	data      map[string][]byte
	getError  error
	setError  error
	setCalled bool
}

func NewMockCacheRepository() *MockCacheRepository {
	return &MockCacheRepository{data: make(map[string][]byte)}
}

func (m *MockCacheRepository) Get(ctx context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return m.getError
	}
	payload, ok := m.data[key]
	if !ok {
		return domain.ErrCacheMiss
	}
	return json.Unmarshal(payload, dest)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalled = true
	if m.setError != nil {
		return m.setError
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = payload
	return nil
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

// fakeAdapter is a name-search adapter keyed by exact query text
type fakeAdapter struct {
	name    string
	results map[string][]domain.NutritionRecord
	err     error
	block   bool // wait for context cancellation

	mu      sync.Mutex
	calls   int
	queries []string
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) SearchByName(ctx context.Context, text string) ([]domain.NutritionRecord, error) {
	f.mu.Lock()
	f.calls++
	f.queries = append(f.queries, text)
	f.mu.Unlock()

	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	records, ok := f.results[text]
	if !ok {
		return nil, domain.ErrNoMatch
	}
	return records, nil
}

func (f *fakeAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeBarcodeAdapter returns a fixed record or error
type fakeBarcodeAdapter struct {
	record *domain.NutritionRecord
	err    error
	calls  int
}

func (f *fakeBarcodeAdapter) LookupByBarcode(ctx context.Context, code string) (*domain.NutritionRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.record, nil
}

// fakeRecognizer returns fixed labels or an error
type fakeRecognizer struct {
	labels []domain.DetectedLabel
	err    error
}

func (f *fakeRecognizer) Recognize(ctx context.Context, image []byte) ([]domain.DetectedLabel, error) {
	return f.labels, f.err
}
