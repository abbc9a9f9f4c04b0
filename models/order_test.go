package models

import "testing"

func TestNormalizeOrderStatus(t *testing.T) {
	cases := map[string]string{
		"pending":     OrderStatusPending,
		" Ready ":     OrderStatusReady,
		"DELIVERED":   OrderStatusDelivered,
		"cancelled":   OrderStatusCancelled,
		"entregado":   "",
		"":            "",
		"in_progress": OrderStatusInProgress,
	}
	for input, want := range cases {
		if got := NormalizeOrderStatus(input); got != want {
			t.Errorf("NormalizeOrderStatus(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusInProgress, true},
		{OrderStatusPending, OrderStatusDelivered, true},
		{OrderStatusInProgress, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusDelivered, true},
		{OrderStatusReady, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusReady, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusReady, OrderStatusCancelled, true},
	}
	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderIsTerminal(t *testing.T) {
	open := Order{Status: OrderStatusReady}
	if open.IsTerminal() {
		t.Errorf("READY order should not be terminal")
	}
	closed := Order{Status: OrderStatusDelivered}
	if !closed.IsTerminal() {
		t.Errorf("DELIVERED order should be terminal")
	}
}
