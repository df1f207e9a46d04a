package order

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	ErrNotFound         = errors.New("order not found")
	ErrDuplicatePayment = errors.New("an order already exists for this payment")
)

// WriteError reports which step of an order write failed. Nothing from the
// write is persisted when it is returned.
type WriteError struct {
	Stage string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

type Repository interface {
	FindByPaymentReference(ctx context.Context, ref string) (Order, error)
	// CreateWithItems stores the order and all of its items atomically. It
	// returns ErrDuplicatePayment when the payment reference is taken.
	CreateWithItems(ctx context.Context, ord Order) (Order, error)
	ListByUserID(ctx context.Context, userID int) ([]Order, error)
	GetByNumber(ctx context.Context, number string) (Order, error)
}

// InMemoryRepository enforces the same uniqueness rules as the orders table.
type InMemoryRepository struct {
	mu         sync.RWMutex
	orders     []Order
	byRef      map[string]int
	byNumber   map[string]int
	nextItemID int64
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byRef:      make(map[string]int),
		byNumber:   make(map[string]int),
		nextItemID: 1,
	}
}

func (r *InMemoryRepository) FindByPaymentReference(_ context.Context, ref string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byRef[ref]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(r.orders[i]), nil
}

func (r *InMemoryRepository) CreateWithItems(_ context.Context, ord Order) (Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byRef[ord.PaymentReference]; ok {
		return Order{}, ErrDuplicatePayment
	}
	if _, ok := r.byNumber[ord.OrderNumber]; ok {
		return Order{}, &WriteError{Stage: "insert_order", Err: fmt.Errorf("order number %s already used", ord.OrderNumber)}
	}

	ord = cloneOrder(ord)
	for i := range ord.Items {
		ord.Items[i].ID = r.nextItemID
		ord.Items[i].OrderID = ord.ID
		r.nextItemID++
	}
	r.orders = append(r.orders, ord)
	r.byRef[ord.PaymentReference] = len(r.orders) - 1
	r.byNumber[ord.OrderNumber] = len(r.orders) - 1
	return cloneOrder(ord), nil
}

func (r *InMemoryRepository) ListByUserID(_ context.Context, userID int) ([]Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Order, 0)
	if userID <= 0 {
		return out, nil
	}
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, cloneOrder(o))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *InMemoryRepository) GetByNumber(_ context.Context, number string) (Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byNumber[number]
	if !ok {
		return Order{}, ErrNotFound
	}
	return cloneOrder(r.orders[i]), nil
}

// Count returns the number of stored orders.
func (r *InMemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders)
}

func cloneOrder(o Order) Order {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	if o.Shipping != nil {
		s := *o.Shipping
		o.Shipping = &s
	}
	return o
}
