package payment

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/wichananm65/storefront-backend/internal/pricing"
)

const (
	metaItems          = "items"
	metaDeliveryMethod = "deliveryMethod"
	metaCustomerEmail  = "customerEmail"
	metaCustomerName   = "customerName"
	metaQuotedTotal    = "quotedTotal"
	metaCustomerID     = "customerId"
)

// CheckoutMetadata is everything needed to rebuild the order once the
// payment confirms. It travels with the authorization.
type CheckoutMetadata struct {
	Lines          []pricing.CartLine
	DeliveryMethod string
	CustomerEmail  string
	CustomerName   string
	QuotedTotal    int64
	// CustomerID is the signed-in account that checked out, zero for guests.
	CustomerID int
}

func EncodeMetadata(m CheckoutMetadata) (map[string]string, error) {
	lines := m.Lines
	if lines == nil {
		lines = []pricing.CartLine{}
	}
	items, err := json.Marshal(lines)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	out := map[string]string{
		metaItems:          string(items),
		metaDeliveryMethod: m.DeliveryMethod,
		metaCustomerEmail:  m.CustomerEmail,
		metaCustomerName:   m.CustomerName,
		metaQuotedTotal:    strconv.FormatInt(m.QuotedTotal, 10),
	}
	if m.CustomerID > 0 {
		out[metaCustomerID] = strconv.Itoa(m.CustomerID)
	}
	return out, nil
}

// DecodeMetadata reads metadata back. The scalar fields are always filled in;
// a malformed items value is reported as an error next to the partial result
// so callers can still record the payment.
func DecodeMetadata(raw map[string]string) (CheckoutMetadata, error) {
	m := CheckoutMetadata{
		DeliveryMethod: raw[metaDeliveryMethod],
		CustomerEmail:  raw[metaCustomerEmail],
		CustomerName:   raw[metaCustomerName],
	}
	if v := raw[metaQuotedTotal]; v != "" {
		if total, err := strconv.ParseInt(v, 10, 64); err == nil {
			m.QuotedTotal = total
		}
	}
	if v := raw[metaCustomerID]; v != "" {
		if id, err := strconv.Atoi(v); err == nil && id > 0 {
			m.CustomerID = id
		}
	}
	items, ok := raw[metaItems]
	if !ok || items == "" {
		return m, fmt.Errorf("metadata has no items")
	}
	if err := json.Unmarshal([]byte(items), &m.Lines); err != nil {
		m.Lines = nil
		return m, fmt.Errorf("decode items: %w", err)
	}
	return m, nil
}
