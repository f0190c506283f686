package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndValidate_Item5FeesHappyPath(t *testing.T) {
	raw := `{"initial_franchise_fee_cents": 2500000, "due_at": "signing", "refundable": false,
		"discounts": [{"name": "veteran", "percentage": 0.1}]}`
	v, err := ParseAndValidate(5, raw)
	require.NoError(t, err)
	fees := v.(*Item5Fees)
	assert.Equal(t, int64(2500000), fees.InitialFranchiseFeeCents)
}

func TestParseAndValidate_Item5FeesRejectsOutOfRangeFee(t *testing.T) {
	raw := `{"initial_franchise_fee_cents": 999999999999, "due_at": "signing"}`
	_, err := ParseAndValidate(5, raw)
	assert.Error(t, err)
}

func TestParseAndValidate_Item5FeesRejectsUnknownDueAt(t *testing.T) {
	raw := `{"initial_franchise_fee_cents": 100, "due_at": "whenever"}`
	_, err := ParseAndValidate(5, raw)
	assert.Error(t, err)
}

func TestParseAndValidate_DiscountRejectsBothAmountAndPercentage(t *testing.T) {
	raw := `{"initial_franchise_fee_cents": 100, "due_at": "signing",
		"discounts": [{"name": "x", "amount_cents": 500, "percentage": 0.1}]}`
	_, err := ParseAndValidate(5, raw)
	assert.Error(t, err)
}

func TestParseAndValidate_DiscountRejectsNeitherAmountNorPercentage(t *testing.T) {
	raw := `{"initial_franchise_fee_cents": 100, "due_at": "signing",
		"discounts": [{"name": "x"}]}`
	_, err := ParseAndValidate(5, raw)
	assert.Error(t, err)
}

func TestParseAndValidate_Item7InvestmentRejectsInvertedRange(t *testing.T) {
	raw := `{"rows": [{"category": "Real Estate", "amount_low_cents": 500, "amount_high_cents": 100}]}`
	_, err := ParseAndValidate(7, raw)
	assert.Error(t, err)
}

func TestParseAndValidate_Item19RejectsRowWidthMismatch(t *testing.T) {
	raw := `{"tables": [{"name": "AUV", "headers": ["Year", "Average Sales"], "rows": [["2024"]]}]}`
	_, err := ParseAndValidate(19, raw)
	assert.Error(t, err)
}

func TestParseAndValidate_UnregisteredItemErrors(t *testing.T) {
	_, err := ParseAndValidate(1, `{}`)
	assert.Error(t, err)
}

func TestParseAndValidate_MalformedJSONErrors(t *testing.T) {
	_, err := ParseAndValidate(5, `not json`)
	assert.Error(t, err)
}

func TestHasSchema(t *testing.T) {
	assert.True(t, HasSchema(5))
	assert.True(t, HasSchema(20))
	assert.False(t, HasSchema(1))
}
