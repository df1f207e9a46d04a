package order

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/wichananm65/storefront-backend/internal/events"
	"github.com/wichananm65/storefront-backend/internal/payment"
	"github.com/wichananm65/storefront-backend/internal/product"
)

const (
	guestEmail            = "guest@example.com"
	guestName             = "Guest Customer"
	defaultDeliveryMethod = "delivery"
)

var (
	ErrMissingReference = errors.New("confirmation has no payment reference")
)

// TransientStorageError means the order could not be recorded and the
// processor must deliver the event again.
type TransientStorageError struct {
	Stage     string
	Reference string
	Err       error
}

func (e *TransientStorageError) Error() string {
	return fmt.Sprintf("record order for %s failed at %s: %v", e.Reference, e.Stage, e.Err)
}

func (e *TransientStorageError) Unwrap() error { return e.Err }

// ReconcileResult is returned for every successful delivery. AlreadyProcessed
// is set when the payment had been recorded before; Order may then be empty
// if it could not be re-read.
type ReconcileResult struct {
	Order            Order
	AlreadyProcessed bool
}

// WebhookOutcome describes what happened to one verified processor event.
type WebhookOutcome struct {
	EventID    string
	EventType  string
	Reconciled bool
	Result     ReconcileResult
}

// Catalog snapshots the products of a paid cart in one read. Ids that no
// longer exist are absent from the result.
type Catalog interface {
	LookupMany(ctx context.Context, ids []string) (map[string]product.Product, error)
}

type Reconciler struct {
	repo      Repository
	catalog   Catalog
	processor payment.Processor
	publisher events.Publisher
	currency  string
	now       func() time.Time
	newNumber func(time.Time) string
}

func NewReconciler(repo Repository, catalog Catalog, processor payment.Processor, publisher events.Publisher, currency string) *Reconciler {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Reconciler{
		repo:      repo,
		catalog:   catalog,
		processor: processor,
		publisher: publisher,
		currency:  strings.ToLower(currency),
		now:       time.Now,
		newNumber: NewOrderNumber,
	}
}

// HandleEvent verifies a raw webhook delivery and reconciles it when it
// confirms a payment. Other event types are acknowledged and ignored.
func (r *Reconciler) HandleEvent(ctx context.Context, payload []byte, signature string) (WebhookOutcome, error) {
	evt, err := r.processor.VerifyEvent(payload, signature)
	if err != nil {
		log.Printf("webhook rejected stage=verify err=%v", err)
		return WebhookOutcome{}, err
	}

	out := WebhookOutcome{EventID: evt.ID, EventType: evt.Type}
	if evt.Type != payment.EventPaymentSucceeded || evt.Confirmation == nil {
		return out, nil
	}

	res, err := r.Reconcile(ctx, *evt.Confirmation)
	if err != nil {
		return out, err
	}
	out.Reconciled = true
	out.Result = res
	return out, nil
}

// Reconcile records the order for a confirmed payment exactly once. The
// unique payment reference in storage decides between concurrent deliveries.
func (r *Reconciler) Reconcile(ctx context.Context, c payment.Confirmation) (ReconcileResult, error) {
	ref := c.ExternalReference
	if ref == "" {
		return ReconcileResult{}, ErrMissingReference
	}

	existing, err := r.repo.FindByPaymentReference(ctx, ref)
	if err == nil {
		log.Printf("payment already recorded ref=%s order=%s", ref, existing.OrderNumber)
		return ReconcileResult{Order: existing, AlreadyProcessed: true}, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return ReconcileResult{}, r.transient("lookup", ref, err)
	}

	ord, err := r.buildOrder(ctx, c)
	if err != nil {
		return ReconcileResult{}, err
	}

	created, err := r.repo.CreateWithItems(ctx, ord)
	if errors.Is(err, ErrDuplicatePayment) {
		log.Printf("concurrent delivery lost the insert ref=%s", ref)
		winner, ferr := r.repo.FindByPaymentReference(ctx, ref)
		if ferr != nil {
			log.Printf("could not re-read recorded order ref=%s err=%v", ref, ferr)
		}
		return ReconcileResult{Order: winner, AlreadyProcessed: true}, nil
	}
	if err != nil {
		stage := "persist"
		var we *WriteError
		if errors.As(err, &we) {
			stage = we.Stage
		}
		return ReconcileResult{}, r.transient(stage, ref, err)
	}

	log.Printf("order recorded ref=%s order=%s amount=%d items=%d", ref, created.OrderNumber, created.AmountTotal, len(created.Items))
	r.publish(ctx, created)
	return ReconcileResult{Order: created}, nil
}

func (r *Reconciler) buildOrder(ctx context.Context, c payment.Confirmation) (Order, error) {
	ref := c.ExternalReference
	meta, merr := payment.DecodeMetadata(c.Metadata)
	if merr != nil {
		log.Printf("order metadata unreadable, recording without items ref=%s err=%v", ref, merr)
	}
	if meta.QuotedTotal > 0 && meta.QuotedTotal != c.ChargedAmount {
		log.Printf("WARN charged amount differs from quote ref=%s quoted=%d charged=%d", ref, meta.QuotedTotal, c.ChargedAmount)
	}

	now := r.now().UTC()
	ord := Order{
		ID:               uuid.NewString(),
		OrderNumber:      r.newNumber(now),
		UserID:           meta.CustomerID,
		CustomerEmail:    firstNonEmpty(meta.CustomerEmail, c.ReceiptEmail, guestEmail),
		CustomerName:     firstNonEmpty(meta.CustomerName, guestName),
		AmountTotal:      c.ChargedAmount,
		Currency:         strings.ToLower(firstNonEmpty(c.Currency, r.currency)),
		Status:           StatusPaid,
		DeliveryMethod:   firstNonEmpty(meta.DeliveryMethod, defaultDeliveryMethod),
		PaymentReference: ref,
		Items:            make([]OrderItem, 0, len(meta.Lines)),
		CreatedAt:        now,
	}
	if a := c.Shipping; a != nil {
		ord.Shipping = &ShippingAddress{
			Name:       a.Name,
			Line1:      a.Line1,
			Line2:      a.Line2,
			City:       a.City,
			State:      a.State,
			PostalCode: a.PostalCode,
			Country:    a.Country,
		}
	}

	ids := make([]string, 0, len(meta.Lines))
	for _, line := range meta.Lines {
		if line.Quantity > 0 {
			ids = append(ids, line.ItemID)
		}
	}
	var snapshot map[string]product.Product
	if len(ids) > 0 {
		var err error
		if snapshot, err = r.catalog.LookupMany(ctx, ids); err != nil {
			return Order{}, r.transient("snapshot", ref, err)
		}
	}

	for _, line := range meta.Lines {
		if line.Quantity <= 0 {
			log.Printf("skipping line with quantity %d ref=%s item=%s", line.Quantity, ref, line.ItemID)
			continue
		}
		p, ok := snapshot[line.ItemID]
		if !ok {
			log.Printf("skipping unknown item ref=%s item=%s", ref, line.ItemID)
			continue
		}
		ord.Items = append(ord.Items, OrderItem{
			ProductID:       p.ID,
			ProductName:     p.Name,
			PriceAtPurchase: p.UnitPriceCents(),
			Quantity:        line.Quantity,
		})
	}
	return ord, nil
}

func (r *Reconciler) publish(ctx context.Context, o Order) {
	evt := events.OrderPaid{
		OrderID:          o.ID,
		OrderNumber:      o.OrderNumber,
		PaymentReference: o.PaymentReference,
		CustomerEmail:    o.CustomerEmail,
		AmountTotal:      o.AmountTotal,
		Currency:         o.Currency,
		DeliveryMethod:   o.DeliveryMethod,
		Items:            make([]events.OrderPaidItem, 0, len(o.Items)),
		PaidAt:           o.CreatedAt,
	}
	for _, it := range o.Items {
		evt.Items = append(evt.Items, events.OrderPaidItem{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			PriceAtPurchase: it.PriceAtPurchase,
			Quantity:        it.Quantity,
		})
	}
	if err := r.publisher.PublishOrderPaid(ctx, evt); err != nil {
		log.Printf("order paid event not published ref=%s order=%s err=%v", o.PaymentReference, o.OrderNumber, err)
	}
}

func (r *Reconciler) transient(stage, ref string, err error) error {
	log.Printf("order reconciliation failed ref=%s stage=%s err=%v", ref, stage, err)
	return &TransientStorageError{Stage: stage, Reference: ref, Err: err}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
