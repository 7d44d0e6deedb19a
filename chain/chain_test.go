package chain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespaceKnown(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ns   Namespace
		want bool
	}{
		{name: "eip155", ns: NamespaceEIP155, want: true},
		{name: "solana", ns: NamespaceSolana, want: true},
		{name: "casper", ns: NamespaceCasper, want: true},
		{name: "xrpl", ns: NamespaceXRPL, want: true},
		{name: "other", ns: NamespaceOther, want: true},
		{name: "empty", ns: Namespace(""), want: false},
		{name: "unknown", ns: Namespace("cosmos"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, tt.ns.Known())
		})
	}
}

func TestConfigMerge(t *testing.T) {
	t.Parallel()

	base := Config{
		Namespace:     NamespaceEIP155,
		ChainID:       "0x1",
		RPCTarget:     "https://rpc.example.com",
		DisplayName:   "Example",
		Ticker:        "ETH",
		TickerName:    "Ethereum",
		BlockExplorer: "https://explorer.example.com",
		Decimals:      18,
	}

	t.Run("override wins on populated fields", func(t *testing.T) {
		t.Parallel()

		got := base.Merge(Config{RPCTarget: "https://other.example.com", DisplayName: "Other"})

		assert.Equal(t, "https://other.example.com", got.RPCTarget)
		assert.Equal(t, "Other", got.DisplayName)
		assert.Equal(t, "0x1", got.ChainID, "untouched fields must survive")
		assert.Equal(t, "ETH", got.Ticker)
		assert.Equal(t, uint8(18), got.Decimals)
	})

	t.Run("zero override preserves base", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, base, base.Merge(Config{}))
	})

	t.Run("merge is idempotent", func(t *testing.T) {
		t.Parallel()

		override := Config{RPCTarget: "https://other.example.com"}
		once := base.Merge(override)
		twice := once.Merge(override)

		assert.Equal(t, once, twice)
	})
}
