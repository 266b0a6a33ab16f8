package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		allowed bool
	}{
		{"pending to confirmed", StatusPending, StatusConfirmed, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"pending to delivered skips flow", StatusPending, StatusDelivered, false},
		{"confirmed to preparing", StatusConfirmed, StatusPreparing, true},
		{"preparing to in_transit", StatusPreparing, StatusInTransit, true},
		{"preparing to cancelled", StatusPreparing, StatusCancelled, true},
		{"in_transit to delivered", StatusInTransit, StatusDelivered, true},
		{"in_transit cannot cancel", StatusInTransit, StatusCancelled, false},
		{"delivered is terminal", StatusDelivered, StatusPending, false},
		{"cancelled is terminal", StatusCancelled, StatusConfirmed, false},
		{"same status allowed for note edits", StatusConfirmed, StatusConfirmed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, isValidStatusTransition(tt.from, tt.to))
		})
	}
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.True(t, StatusInTransit.Valid())
	assert.False(t, Status("shipped").Valid())
	assert.False(t, Status("").Valid())
}

func TestIsOpen(t *testing.T) {
	assert.True(t, (&Order{Status: StatusPending}).IsOpen())
	assert.True(t, (&Order{Status: StatusInTransit}).IsOpen())
	assert.False(t, (&Order{Status: StatusDelivered}).IsOpen())
	assert.False(t, (&Order{Status: StatusCancelled}).IsOpen())
}

func TestGetFormattedTotal(t *testing.T) {
	o := &Order{TotalAmount: 123450}
	assert.Equal(t, 1234.5, o.GetFormattedTotal())
}
