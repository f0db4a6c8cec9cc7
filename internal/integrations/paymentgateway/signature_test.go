package paymentgateway

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSigner_Verify(t *testing.T) {
	signer := NewSigner("dev-secret")
	valid := signer.Sign("order_1", "pay_1")

	assert.True(t, signer.Verify("order_1", "pay_1", valid))
	assert.True(t, signer.Verify("order_1", "pay_1", strings.ToUpper(valid)))
	assert.False(t, signer.Verify("order_1", "pay_2", valid))
	assert.False(t, signer.Verify("order_2", "pay_1", valid))
	assert.False(t, signer.Verify("order_1", "pay_1", ""))
	assert.False(t, NewSigner("other").Verify("order_1", "pay_1", valid))
	assert.False(t, NewSigner("").Verify("order_1", "pay_1", NewSigner("").Sign("order_1", "pay_1")))
}

func TestSigner_SignIsStable(t *testing.T) {
	signer := NewSigner("dev-secret")

	assert.Equal(t, signer.Sign("order_1", "pay_1"), signer.Sign("order_1", "pay_1"))
	assert.Len(t, signer.Sign("order_1", "pay_1"), 64)
}
