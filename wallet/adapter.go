// Package wallet defines the core contract every wallet adapter conforms to:
// the lifecycle status machine, precondition guards, chain-configuration
// merging, and the event channel adapters use to notify their host.
//
// Concrete adapter families live in subpackages (evmrpc, solanarpc,
// walletconnect) and hold a [BaseAdapter] by composition; the base enforces
// the cross-family invariants so a family implementation only supplies its
// transport handshake.
package wallet

import (
	"context"

	"github.com/walletfx/wallet-adapters-framework/chain"
)

// Provider is the live request/response capability obtained after a
// successful connection. The core never inspects request payloads; it only
// gates access to the handle.
type Provider interface {
	// ChainID returns the chain id the provider is currently serving, in
	// the namespace-specific string format.
	ChainID(ctx context.Context) (string, error)

	// Call performs a JSON-RPC style request, decoding the response into
	// result when result is non-nil.
	Call(ctx context.Context, result any, method string, args ...any) error
}

// InitOptions configures Init.
type InitOptions struct {
	// AutoConnect connects immediately after a successful init.
	AutoConnect bool
}

// ConnectParams carries family-specific connection parameters. The core
// passes it through untouched.
type ConnectParams map[string]any

// DisconnectOptions configures Disconnect.
type DisconnectOptions struct {
	// Cleanup discards cached adapter data along with the session.
	Cleanup bool
}

// UserAuthInfo is the opaque authentication payload returned by
// AuthenticateUser.
type UserAuthInfo struct {
	IDToken string `json:"idToken"`
}

// UserInfo is the opaque identity payload returned by UserInfo. The core
// passes it through from the concrete adapter without interpretation.
type UserInfo map[string]any

// Adapter is the contract a wallet/login provider family implements. Every
// lifecycle operation invokes the matching guard on its BaseAdapter before
// acting and drives the status transition on success and failure, including
// leaving StatusConnecting on every path out of Connect.
type Adapter interface {
	// Name returns the adapter family name, unique within a host.
	Name() string
	// Namespace returns the chain namespace the instance is bound to.
	Namespace() chain.Namespace
	// Status returns the current lifecycle status.
	Status() Status
	// Connected reports whether status is StatusConnected. It is a
	// projection of Status, never tracked separately.
	Connected() bool
	// Provider returns the live provider handle, or nil before a
	// successful connect.
	Provider() Provider
	// Events returns the bus the adapter publishes lifecycle events on.
	Events() *Bus

	Init(ctx context.Context, opts InitOptions) error
	Connect(ctx context.Context, params ConnectParams) (Provider, error)
	Disconnect(ctx context.Context, opts DisconnectOptions) error
	UserInfo(ctx context.Context) (UserInfo, error)
	EnableMFA(ctx context.Context, params ConnectParams) error
	AuthenticateUser(ctx context.Context) (UserAuthInfo, error)
	AddChain(ctx context.Context, cfg chain.Config) error
	SwitchChain(ctx context.Context, chainID string) error
}
