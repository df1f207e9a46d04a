package order

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/wichananm65/storefront-backend/internal/events"
	"github.com/wichananm65/storefront-backend/internal/payment"
	"github.com/wichananm65/storefront-backend/internal/pricing"
	"github.com/wichananm65/storefront-backend/internal/product"
)

const testWebhookSecret = "whsec_order_tests"

var fixedNow = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderPaid
	err    error
}

func (p *recordingPublisher) PublishOrderPaid(_ context.Context, evt events.OrderPaid) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// faultyRepository injects storage failures in front of an in-memory store.
type faultyRepository struct {
	*InMemoryRepository
	findErr   error
	createErr error
}

func (r *faultyRepository) FindByPaymentReference(ctx context.Context, ref string) (Order, error) {
	if r.findErr != nil {
		return Order{}, r.findErr
	}
	return r.InMemoryRepository.FindByPaymentReference(ctx, ref)
}

func (r *faultyRepository) CreateWithItems(ctx context.Context, ord Order) (Order, error) {
	if r.createErr != nil {
		return Order{}, r.createErr
	}
	return r.InMemoryRepository.CreateWithItems(ctx, ord)
}

type failingCatalog struct{ err error }

func (f failingCatalog) LookupMany(context.Context, []string) (map[string]product.Product, error) {
	return nil, f.err
}

// countingCatalog records every batch it is asked for.
type countingCatalog struct {
	Catalog
	mu      sync.Mutex
	batches [][]string
}

func (c *countingCatalog) LookupMany(ctx context.Context, ids []string) (map[string]product.Product, error) {
	c.mu.Lock()
	c.batches = append(c.batches, append([]string(nil), ids...))
	c.mu.Unlock()
	return c.Catalog.LookupMany(ctx, ids)
}

func seedCatalog() *product.InMemoryRepository {
	return product.NewInMemoryRepository(product.SeedProducts())
}

func newTestReconciler(repo Repository, catalog Catalog, pub events.Publisher) *Reconciler {
	return NewReconciler(repo, catalog, payment.NewStripeProcessor("sk_test", testWebhookSecret), pub, "cad")
}

func confirmation(t *testing.T, ref string, charged int64, lines []pricing.CartLine) payment.Confirmation {
	t.Helper()
	meta, err := payment.EncodeMetadata(payment.CheckoutMetadata{
		Lines:          lines,
		DeliveryMethod: "delivery",
		CustomerEmail:  "ana@example.com",
		CustomerName:   "Ana Lima",
		QuotedTotal:    charged,
	})
	if err != nil {
		t.Fatalf("encode metadata: %v", err)
	}
	return payment.Confirmation{
		ExternalReference: ref,
		ChargedAmount:     charged,
		Currency:          "cad",
		Metadata:          meta,
	}
}
