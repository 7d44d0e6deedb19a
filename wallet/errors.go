package wallet

import "errors"

// Guard failure kinds. Lifecycle guards wrap these with call-site context via
// fmt.Errorf("...: %w", ...); callers match them with errors.Is.
var (
	// ErrInvalidParams reports malformed or missing required settings.
	ErrInvalidParams = errors.New("invalid adapter params")

	// ErrNotReady reports a lifecycle operation invoked in a status that
	// cannot service it.
	ErrNotReady = errors.New("adapter not ready")

	// ErrConnection reports a connect attempted while already connecting,
	// already connected, or before the adapter is ready.
	ErrConnection = errors.New("connection error")

	// ErrDisconnection reports a disconnect attempted while not connected.
	ErrDisconnection = errors.New("disconnection error")

	// ErrNotConnected reports a chain operation that requires a live
	// provider when none exists.
	ErrNotConnected = errors.New("adapter not connected")

	// ErrChainNamespaceNotAllowed reports a chain-add targeting a namespace
	// the adapter instance was not configured for.
	ErrChainNamespaceNotAllowed = errors.New("chain namespace not allowed")

	// ErrChainConfigNotAdded reports a chain-switch targeting a chain id
	// never registered on the instance.
	ErrChainConfigNotAdded = errors.New("chain config not added")
)

// Non-guard kinds.
var (
	// ErrAdapterNotFound reports a lookup for an adapter name absent from
	// an Adapters collection.
	ErrAdapterNotFound = errors.New("adapter not found")

	// ErrNotSupported reports an operation the adapter family does not
	// implement, such as MFA on a plain RPC wallet.
	ErrNotSupported = errors.New("operation not supported by adapter")
)
