package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	assert.Equal(t, BillStatusPending, StatusFor(1500, 0))
	assert.Equal(t, BillStatusPartial, StatusFor(1500, 600))
	assert.Equal(t, BillStatusPaid, StatusFor(1500, 1500))
	// Overpayment stays paid.
	assert.Equal(t, BillStatusPaid, StatusFor(1500, 2000))
	// An empty bill has nothing left to collect.
	assert.Equal(t, BillStatusPaid, StatusFor(0, 0))
}
