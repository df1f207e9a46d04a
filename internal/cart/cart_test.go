package cart

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wichananm65/storefront-backend/internal/pricing"
)

func TestNormalize_MergesDuplicatesInFirstSeenOrder(t *testing.T) {
	lines, err := Normalize([]LineInput{
		{ID: "p1", Quantity: 1},
		{ID: " t1 ", Quantity: 2},
		{ID: "p1", Quantity: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, []pricing.CartLine{
		{ItemID: "p1", Quantity: 4},
		{ItemID: "t1", Quantity: 2},
	}, lines)
}

func TestNormalize_RejectsBadLines(t *testing.T) {
	_, err := Normalize([]LineInput{{ID: "", Quantity: 1}})
	assert.ErrorIs(t, err, ErrInvalidLine)

	_, err = Normalize([]LineInput{{ID: "p1", Quantity: 0}})
	assert.ErrorIs(t, err, ErrInvalidLine)

	_, err = Normalize([]LineInput{{ID: "p1", Quantity: -2}})
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestNormalize_CapsQuantity(t *testing.T) {
	lines, err := Normalize([]LineInput{{ID: "p1", Quantity: pricing.MaxLineQuantity}})
	require.NoError(t, err)
	assert.Equal(t, pricing.MaxLineQuantity, lines[0].Quantity)

	_, err = Normalize([]LineInput{{ID: "p1", Quantity: pricing.MaxLineQuantity + 1}})
	assert.ErrorIs(t, err, ErrInvalidLine)

	_, err = Normalize([]LineInput{{ID: "p1", Quantity: math.MaxInt64 / 8000}})
	assert.ErrorIs(t, err, ErrInvalidLine)

	// each line is fine alone, the merged line is not
	_, err = Normalize([]LineInput{{ID: "p1", Quantity: 600}, {ID: "p1", Quantity: 600}})
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestNormalize_Empty(t *testing.T) {
	lines, err := Normalize(nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParseDeliveryMethod(t *testing.T) {
	m, err := ParseDeliveryMethod("")
	require.NoError(t, err)
	assert.Equal(t, DeliveryMethodDelivery, m)

	m, err = ParseDeliveryMethod("Pickup")
	require.NoError(t, err)
	assert.Equal(t, DeliveryMethodPickup, m)

	_, err = ParseDeliveryMethod("drone")
	assert.ErrorIs(t, err, ErrInvalidDeliveryMethod)
}
