package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusIsActive(t *testing.T) {
	active := []OrderStatus{StatusPlaced, StatusConfirmed, StatusPreparing, StatusReady, StatusDispatched}
	for _, s := range active {
		assert.True(t, s.IsActive(), "%s should be active", s)
		assert.False(t, s.IsTerminal())
	}
	for _, s := range []OrderStatus{StatusDelivered, StatusCancelled} {
		assert.False(t, s.IsActive(), "%s should not be active", s)
		assert.True(t, s.IsTerminal())
	}
}

func TestCanTransition(t *testing.T) {
	allowed := [][2]OrderStatus{
		{StatusPlaced, StatusConfirmed},
		{StatusPlaced, StatusCancelled},
		{StatusConfirmed, StatusPreparing},
		{StatusConfirmed, StatusCancelled},
		{StatusPreparing, StatusReady},
		{StatusReady, StatusDispatched},
		{StatusDispatched, StatusDelivered},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}

	// Cancellation is only possible before the kitchen starts.
	denied := [][2]OrderStatus{
		{StatusPreparing, StatusCancelled},
		{StatusReady, StatusCancelled},
		{StatusDispatched, StatusCancelled},
		{StatusDelivered, StatusCancelled},
		{StatusPlaced, StatusPreparing},
		{StatusDelivered, StatusPlaced},
		{StatusCancelled, StatusConfirmed},
	}
	for _, tc := range denied {
		assert.False(t, CanTransition(tc[0], tc[1]), "%s -> %s", tc[0], tc[1])
	}
}
