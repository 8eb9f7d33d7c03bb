package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/hunabku/comanda/internal/domain/errors"
	"github.com/hunabku/comanda/internal/domain/model"
)

// OrderRepositoryStub allows tests to customize order persistence behaviour.
type OrderRepositoryStub struct {
	CreateFn       func(context.Context, model.OrderDraft) (*model.Order, error)
	GetByIDFn      func(context.Context, string) (*model.Order, error)
	ListActiveFn   func(context.Context) ([]model.Order, error)
	UpdateStatusFn func(context.Context, string, model.OrderStatus) error

	mu          sync.Mutex
	Orders      []model.Order
	Created     []model.OrderDraft
	UpdateCalls []StatusUpdateCall
}

// StatusUpdateCall records one UpdateStatus invocation.
type StatusUpdateCall struct {
	OrderID string
	Status  model.OrderStatus
}

// Lock exposes the internal mutex for external synchronization.
func (s *OrderRepositoryStub) Lock() { s.mu.Lock() }

// Unlock releases a previously acquired lock.
func (s *OrderRepositoryStub) Unlock() { s.mu.Unlock() }

// Create tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	s.mu.Lock()
	s.Created = append(s.Created, draft)
	s.mu.Unlock()
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	now := time.Now()
	order := &model.Order{
		ID:        "order-1",
		Table:     draft.Table,
		LineItems: draft.LineItems,
		Subtotal:  draft.Subtotal,
		Tax:       draft.Tax,
		Service:   draft.Service,
		Total:     draft.Total,
		Status:    model.OrderStatusPending,
		Code:      draft.Code,
		Notes:     draft.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return order, nil
}

// GetByID returns a matched order either via override or the stored slice.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, orderID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range s.Orders {
		if o.ID == orderID {
			order := o
			return &order, nil
		}
	}
	return nil, domainErrors.ErrNotFound
}

// ListActive returns orders from the configured slice.
func (s *OrderRepositoryStub) ListActive(ctx context.Context) ([]model.Order, error) {
	if s.ListActiveFn != nil {
		return s.ListActiveFn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Order(nil), s.Orders...), nil
}

// UpdateStatus records update invocations.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, orderID string, status model.OrderStatus) error {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, orderID, status)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.UpdateCalls = append(s.UpdateCalls, StatusUpdateCall{OrderID: orderID, Status: status})
	for i := range s.Orders {
		if s.Orders[i].ID == orderID {
			s.Orders[i].Status = status
			s.Orders[i].UpdatedAt = time.Now()
			return nil
		}
	}
	return domainErrors.ErrNotFound
}

// DeliveredSince returns stored delivered orders updated after since.
func (s *OrderRepositoryStub) DeliveredSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Order
	for _, o := range s.Orders {
		if o.Status == model.OrderStatusDelivered && !o.UpdatedAt.Before(since) {
			result = append(result, o)
		}
	}
	return result, nil
}

// ProductRepositoryStub stores products in-memory for tests.
type ProductRepositoryStub struct {
	mu       sync.Mutex
	Products map[string]model.Product
	Err      error
}

// NewProductRepositoryStub constructs a stub seeded with the given products.
func NewProductRepositoryStub(products ...model.Product) *ProductRepositoryStub {
	stub := &ProductRepositoryStub{Products: make(map[string]model.Product)}
	for _, p := range products {
		stub.Products[p.ID] = p
	}
	return stub
}

// Create stores a product unless the stub has an explicit error.
func (s *ProductRepositoryStub) Create(ctx context.Context, product model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Products[product.ID]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	product.CreatedAt = time.Now()
	product.UpdatedAt = product.CreatedAt
	s.Products[product.ID] = product
	return &product, nil
}

// GetByID fetches a product or returns not found.
func (s *ProductRepositoryStub) GetByID(ctx context.Context, productID string) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.Products[productID]; ok {
		return &p, nil
	}
	return nil, domainErrors.ErrNotFound
}

// List returns stored products, optionally only available ones.
func (s *ProductRepositoryStub) List(ctx context.Context, availableOnly bool) ([]model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []model.Product
	for _, p := range s.Products {
		if availableOnly && !p.Available {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// Update replaces a stored product.
func (s *ProductRepositoryStub) Update(ctx context.Context, product model.Product) (*model.Product, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Products[product.ID]; !ok {
		return nil, domainErrors.ErrNotFound
	}
	product.UpdatedAt = time.Now()
	s.Products[product.ID] = product
	return &product, nil
}

// Delete removes a stored product.
func (s *ProductRepositoryStub) Delete(ctx context.Context, productID string) error {
	if s.Err != nil {
		return s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.Products[productID]; !ok {
		return domainErrors.ErrNotFound
	}
	delete(s.Products, productID)
	return nil
}

// StaffRepositoryStub stores panel accounts in-memory for tests.
type StaffRepositoryStub struct {
	mu    sync.Mutex
	Staff map[string]*model.Staff
	ByID  map[int64]*model.Staff
	Next  int64
	Err   error
}

// NewStaffRepositoryStub constructs a stub repository with initialized maps.
func NewStaffRepositoryStub() *StaffRepositoryStub {
	return &StaffRepositoryStub{
		Staff: make(map[string]*model.Staff),
		ByID:  make(map[int64]*model.Staff),
		Next:  1,
	}
}

// Create registers an account unless it already exists.
func (s *StaffRepositoryStub) Create(ctx context.Context, login, passwordHash string) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.Staff[login]; exists {
		return nil, domainErrors.ErrAlreadyExists
	}
	staff := &model.Staff{ID: s.Next, Login: login, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.Next++
	s.Staff[login] = staff
	s.ByID[staff.ID] = staff
	return staff, nil
}

// GetByLogin fetches an account by login or returns not found.
func (s *StaffRepositoryStub) GetByLogin(ctx context.Context, login string) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if staff, ok := s.Staff[login]; ok {
		return staff, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetByID fetches an account by identifier or returns not found.
func (s *StaffRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Staff, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if staff, ok := s.ByID[id]; ok {
		return staff, nil
	}
	return nil, domainErrors.ErrNotFound
}
