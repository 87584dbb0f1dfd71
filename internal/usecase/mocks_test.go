package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/lojatech/catalog-import/internal/domain"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is an in-memory implementation of domain.ProductRepository
type MockProductRepository struct {
	mu       sync.Mutex
	products []domain.Product
	inputs   []domain.ProductInput

	// failNames makes every insert of the named products fail
	failNames map[string]bool
	// rejectOptional makes inserts carrying optional attributes fail with ErrSchemaMismatch
	rejectOptional bool
	// block, when set, holds every insert until it is closed
	block chan struct{}
	// panicName makes the insert of the named product panic
	panicName string

	listErr   error
	listCalls int
}

func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{failNames: make(map[string]bool)}
}

func (m *MockProductRepository) Insert(ctx context.Context, in domain.ProductInput) (*domain.Product, error) {
	if m.block != nil {
		<-m.block
	}
	if m.panicName != "" && in.Name == m.panicName {
		panic("driver crashed on " + in.Name)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.inputs = append(m.inputs, in)
	if m.failNames[in.Name] {
		return nil, errors.New("constraint violation")
	}
	if m.rejectOptional && in.HasOptional() {
		return nil, fmt.Errorf("insert: %w", domain.ErrSchemaMismatch)
	}

	p := domain.Product{
		ID:          fmt.Sprintf("p%d", len(m.products)+1),
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		CostPrice:   in.CostPrice,
		Image:       in.Image,
		CategoryID:  in.CategoryID,
		Stock:       in.Stock,
		SourceURL:   in.SourceURL,
		Tags:        in.Tags,
		Attributes:  in.Attributes,
		CreatedAt:   time.Now(),
	}
	m.products = append(m.products, p)
	return &p, nil
}

func (m *MockProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if m.listErr != nil {
		return nil, m.listErr
	}
	out := make([]domain.Product, len(m.products))
	copy(out, m.products)
	return out, nil
}

func (m *MockProductRepository) DeleteMany(ctx context.Context, ids []string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	drop := make(map[string]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.products[:0]
	for _, p := range m.products {
		if !drop[p.ID] {
			kept = append(kept, p)
		}
	}
	n := len(m.products) - len(kept)
	m.products = kept
	return n, nil
}

func (m *MockProductRepository) Inputs() []domain.ProductInput {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.ProductInput, len(m.inputs))
	copy(out, m.inputs)
	return out
}

// MockCategoryRepository is a testify mock of domain.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindBySlugOrName(ctx context.Context, s string) (*domain.Category, error) {
	args := m.Called(ctx, s)
	if c, ok := args.Get(0).(*domain.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, name, slug, parentID string) (*domain.Category, error) {
	args := m.Called(ctx, name, slug, parentID)
	if c, ok := args.Get(0).(*domain.Category); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

// memoryCategoryRepository is a map-backed domain.CategoryRepository
type memoryCategoryRepository struct {
	mu         sync.Mutex
	categories map[string]domain.Category
	creates    int
}

func newMemoryCategoryRepository() *memoryCategoryRepository {
	return &memoryCategoryRepository{categories: make(map[string]domain.Category)}
}

func (r *memoryCategoryRepository) FindBySlugOrName(ctx context.Context, s string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.Slug == s || c.Name == s {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (r *memoryCategoryRepository) Create(ctx context.Context, name, slug, parentID string) (*domain.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.categories[slug]; ok {
		return nil, domain.ErrCategoryExists
	}
	r.creates++
	c := domain.Category{ID: "c-" + slug, Name: name, Slug: slug, ParentID: parentID}
	r.categories[slug] = c
	return &c, nil
}

// MockEnricher returns canned descriptions keyed by URL
type MockEnricher struct {
	mu           sync.Mutex
	descriptions map[string]string
	err          error
	delay        time.Duration
	calls        int
	inFlight     int
	maxInFlight  int
}

func NewMockEnricher() *MockEnricher {
	return &MockEnricher{descriptions: make(map[string]string)}
}

func (m *MockEnricher) Enrich(ctx context.Context, req domain.EnrichmentRequest) (*domain.EnrichmentResult, error) {
	m.mu.Lock()
	m.calls++
	m.inFlight++
	if m.inFlight > m.maxInFlight {
		m.maxInFlight = m.inFlight
	}
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.err != nil {
		return nil, m.err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.EnrichmentResult{Description: m.descriptions[req.URL], Source: "mock"}, nil
}
