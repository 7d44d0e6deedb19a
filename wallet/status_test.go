package wallet

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCanTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		from Status
		to   Status
		want bool
	}{
		{name: "not ready to ready", from: StatusNotReady, to: StatusReady, want: true},
		{name: "not ready to connected is barred", from: StatusNotReady, to: StatusConnected, want: false},
		{name: "not ready to connecting is barred", from: StatusNotReady, to: StatusConnecting, want: false},
		{name: "ready to connecting", from: StatusReady, to: StatusConnecting, want: true},
		{name: "ready to connected skips connecting", from: StatusReady, to: StatusConnected, want: false},
		{name: "connecting to connected", from: StatusConnecting, to: StatusConnected, want: true},
		{name: "connecting back to ready", from: StatusConnecting, to: StatusReady, want: true},
		{name: "connected to disconnected", from: StatusConnected, to: StatusDisconnected, want: true},
		{name: "connected cannot re-enter connecting", from: StatusConnected, to: StatusConnecting, want: false},
		{name: "disconnected to connecting", from: StatusDisconnected, to: StatusConnecting, want: true},
		{name: "errored to ready", from: StatusErrored, to: StatusReady, want: true},
		{name: "errored to connecting", from: StatusErrored, to: StatusConnecting, want: true},
		{name: "anything to errored", from: StatusConnected, to: StatusErrored, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.from.CanTransition(tt.to))
		})
	}
}
