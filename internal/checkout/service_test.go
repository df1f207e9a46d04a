package checkout

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/storefront-backend/internal/cart"
	"github.com/wichananm65/storefront-backend/internal/payment"
	"github.com/wichananm65/storefront-backend/internal/pricing"
	"github.com/wichananm65/storefront-backend/internal/product"
)

type fakeProcessor struct {
	mu       sync.Mutex
	requests []payment.AuthorizationRequest
	err      error
}

func (f *fakeProcessor) CreateAuthorization(_ context.Context, req payment.AuthorizationRequest) (payment.Authorization, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return payment.Authorization{}, f.err
	}
	f.requests = append(f.requests, req)
	return payment.Authorization{
		ExternalReference: "pi_test",
		ClientSecret:      "pi_test_secret",
		Amount:            req.Amount,
		Currency:          req.Currency,
		Metadata:          req.Metadata,
	}, nil
}

func (f *fakeProcessor) VerifyEvent([]byte, string) (payment.Event, error) {
	return payment.Event{}, errors.New("not used")
}

func newTestService(proc payment.Processor) *Service {
	catalog := product.NewService(product.NewInMemoryRepository(product.SeedProducts()))
	return NewService(pricing.NewEngine(catalog, pricing.DefaultOptions()), proc, "CAD")
}

func TestAuthorize_ChargesServerSideTotal(t *testing.T) {
	proc := &fakeProcessor{}
	svc := newTestService(proc)

	res, err := svc.Authorize(context.Background(), Request{
		Lines:         []cart.LineInput{{ID: "p1", Quantity: 2}},
		CustomerEmail: "ana@example.com",
		CustomerName:  "Ana",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(18850), res.Quote.Total)
	assert.Equal(t, "pi_test_secret", res.Authorization.ClientSecret)
	require.Len(t, proc.requests, 1)
	sent := proc.requests[0]
	assert.Equal(t, int64(18850), sent.Amount)
	assert.Equal(t, "cad", sent.Currency)
	assert.Equal(t, "ana@example.com", sent.ReceiptEmail)

	meta, err := payment.DecodeMetadata(sent.Metadata)
	require.NoError(t, err)
	assert.Equal(t, []pricing.CartLine{{ItemID: "p1", Quantity: 2}}, meta.Lines)
	assert.Equal(t, "delivery", meta.DeliveryMethod)
	assert.Equal(t, "Ana", meta.CustomerName)
	assert.Equal(t, int64(18850), meta.QuotedTotal)
}

func TestAuthorize_EmptyCartNeverReachesProcessor(t *testing.T) {
	proc := &fakeProcessor{}
	svc := newTestService(proc)

	_, err := svc.Authorize(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, proc.requests)
}

func TestAuthorize_UnknownItem(t *testing.T) {
	proc := &fakeProcessor{}
	svc := newTestService(proc)

	_, err := svc.Authorize(context.Background(), Request{Lines: []cart.LineInput{{ID: "ghost", Quantity: 1}}})
	var unknown *pricing.UnknownItemError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ghost", unknown.ItemID)
	assert.Empty(t, proc.requests)
}

func TestAuthorize_IdentityHintsFillBlanks(t *testing.T) {
	proc := &fakeProcessor{}
	svc := newTestService(proc)

	_, err := svc.Authorize(context.Background(), Request{
		Lines:          []cart.LineInput{{ID: "t1", Quantity: 1}},
		DeliveryMethod: "pickup",
		CustomerName:   "Typed Name",
		IdentityEmail:  "session@example.com",
		IdentityName:   "Session Name",
	})
	require.NoError(t, err)

	meta, _ := payment.DecodeMetadata(proc.requests[0].Metadata)
	assert.Equal(t, "session@example.com", meta.CustomerEmail)
	assert.Equal(t, "Typed Name", meta.CustomerName)
	assert.Equal(t, "pickup", meta.DeliveryMethod)
}

func TestAuthorize_ProcessorFailure(t *testing.T) {
	boom := errors.New("stripe down")
	svc := newTestService(&fakeProcessor{err: boom})

	_, err := svc.Authorize(context.Background(), Request{Lines: []cart.LineInput{{ID: "t1", Quantity: 1}}})
	var perr *ProcessorError
	require.ErrorAs(t, err, &perr)
	assert.ErrorIs(t, err, boom)
}
