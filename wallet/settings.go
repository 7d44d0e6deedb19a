package wallet

import (
	"time"

	"github.com/walletfx/wallet-adapters-framework/chain"
)

// DefaultSessionTime is the session lifetime applied when settings leave
// SessionTime unset.
const DefaultSessionTime = 86400 * time.Second

// Settings carries the host-supplied adapter configuration. A zero-value
// field means "leave the current value unchanged" when settings are applied
// over an existing instance.
//
// Settings freeze once the adapter reaches StatusReady: later updates are
// ignored wholesale, for every field uniformly.
type Settings struct {
	// ClientID identifies the host application. Required before Init.
	ClientID string

	// SessionTime bounds how long an authenticated session stays valid.
	SessionTime time.Duration

	// Network names the target network environment, e.g. "mainnet".
	Network string

	// UseCoreKitKey selects the core key scheme for families that support
	// it. Nil leaves the current value unchanged.
	UseCoreKitKey *bool

	// ChainConfig is the initial chain configuration. It is merged over the
	// registry default for its (namespace, chainId) pair, caller fields
	// winning, and registered into the adapter's known chains.
	ChainConfig *chain.Config
}
