package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateTax(t *testing.T) {
	for _, tc := range []struct {
		subtotal string
		want     string
	}{
		{"200.00", "20.00"},
		{"0.00", "0.00"},
		{"100.05", "10.01"}, // 10.005 rounds half-up
		{"99.99", "10.00"},
		{"0.04", "0.00"},
	} {
		got := CalculateTax(price(tc.subtotal))
		assert.True(t, got.Equal(price(tc.want)), "tax(%s) = %s, want %s", tc.subtotal, got, tc.want)
	}
}

func TestGeneratedNumbersArePrefixedAndUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber()
		assert.True(t, strings.HasPrefix(n, "ORD-"))
		assert.False(t, seen[n], "duplicate order number %s", n)
		seen[n] = true
	}

	assert.True(t, strings.HasPrefix(GeneratePaymentNumber(), "PAY-"))
	assert.True(t, strings.HasPrefix(GenerateTransactionID(), "TXN-"))
}
