package midtrans

import (
	"crypto/sha512"
	"encoding/hex"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMinorUnits(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"19.80", 1980},
		{"22.00", 2200},
		{"0.01", 1},
		{"0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			got, err := MinorUnits(decimal.RequireFromString(tt.amount))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	// Sub-cent precision is an error, not a silent rounding.
	_, err := MinorUnits(decimal.RequireFromString("19.805"))
	assert.Error(t, err)
}

func TestVerifySignature(t *testing.T) {
	orderID := "ORDER-42-7f3a"
	statusCode := "200"
	grossAmount := "22000.00"
	serverKey := "SB-Mid-server-test"

	hash := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	good := hex.EncodeToString(hash[:])

	assert.True(t, VerifySignature(orderID, statusCode, grossAmount, good, serverKey))
	assert.False(t, VerifySignature(orderID, statusCode, grossAmount, "tampered", serverKey))
	assert.False(t, VerifySignature(orderID, statusCode, "1.00", good, serverKey))
	assert.False(t, VerifySignature(orderID, statusCode, grossAmount, good, "wrong-key"))
}
