package wallet

import (
	"fmt"
	"sync"
	"time"

	"github.com/walletfx/wallet-adapters-framework/chain"
	"github.com/walletfx/wallet-adapters-framework/pkg/logger"
)

// BaseAdapter is the shared lifecycle state machine every adapter family
// holds by composition. It owns the status, the settings, the active chain
// configuration, and the known-chains map, and it enforces the precondition
// guards gating each lifecycle operation.
//
// Guard evaluation and the matching status write happen under one mutex, so
// two concurrent Connect calls on the same instance cannot both observe
// StatusReady.
type BaseAdapter struct {
	name     string
	lggr     logger.Logger
	bus      *Bus
	registry *chain.Registry

	// allowResume lets one adapter family pass the connect guard while
	// connecting or after a disconnect, to resume a session instead of
	// being rejected.
	allowResume bool

	mu             sync.Mutex
	status         Status
	settingsFrozen bool
	clientID       string
	sessionTime    time.Duration
	network        string
	useCoreKitKey  *bool
	namespace      chain.Namespace
	chainConfig    *chain.Config
	knownChains    map[string]chain.Config
	provider       Provider
	adapterData    any
}

// BaseOption configures a BaseAdapter at construction.
type BaseOption func(*BaseAdapter)

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(lggr logger.Logger) BaseOption {
	return func(b *BaseAdapter) { b.lggr = lggr }
}

// WithRegistry sets the chain registry used to resolve defaults for partial
// chain configurations. Defaults to a registry with only built-in entries.
func WithRegistry(r *chain.Registry) BaseOption {
	return func(b *BaseAdapter) { b.registry = r }
}

// WithBus sets the event bus. Defaults to a fresh bus owned by the adapter.
func WithBus(bus *Bus) BaseOption {
	return func(b *BaseAdapter) { b.bus = bus }
}

// WithConnectingResume marks the instance as belonging to the one adapter
// family allowed to resume a session: its connect guard admits a re-entrant
// connect while StatusConnecting and a reconnect from StatusDisconnected.
func WithConnectingResume() BaseOption {
	return func(b *BaseAdapter) { b.allowResume = true }
}

// NewBaseAdapter returns a BaseAdapter in StatusNotReady with default
// session time and no chain configuration.
func NewBaseAdapter(name string, opts ...BaseOption) *BaseAdapter {
	b := &BaseAdapter{
		name:        name,
		status:      StatusNotReady,
		sessionTime: DefaultSessionTime,
		knownChains: make(map[string]chain.Config),
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.lggr == nil {
		b.lggr = logger.Nop()
	}
	if b.bus == nil {
		b.bus = NewBus()
	}
	if b.registry == nil {
		b.registry = chain.NewRegistry()
	}

	return b
}

// Name returns the adapter family name.
func (b *BaseAdapter) Name() string { return b.name }

// Events returns the bus the adapter publishes on.
func (b *BaseAdapter) Events() *Bus { return b.bus }

// Status returns the current lifecycle status.
func (b *BaseAdapter) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.status
}

// Connected reports whether the current status is StatusConnected.
func (b *BaseAdapter) Connected() bool {
	return b.Status() == StatusConnected
}

// Provider returns the live provider handle, or nil when none exists.
func (b *BaseAdapter) Provider() Provider {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.provider
}

// SetProvider replaces the live provider handle. Used by families whose
// chain switch re-establishes the transport.
func (b *BaseAdapter) SetProvider(p Provider) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.provider = p
}

// Namespace returns the chain namespace the instance is bound to, empty
// until a chain configuration has been applied.
func (b *BaseAdapter) Namespace() chain.Namespace {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.namespace
}

// ClientID returns the configured client id.
func (b *BaseAdapter) ClientID() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.clientID
}

// SessionTime returns the configured session lifetime.
func (b *BaseAdapter) SessionTime() time.Duration {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.sessionTime
}

// UseCoreKitKey reports the configured core key selection, nil when unset.
func (b *BaseAdapter) UseCoreKitKey() *bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.useCoreKitKey == nil {
		return nil
	}
	coreKit := *b.useCoreKitKey

	return &coreKit
}

// Network returns the configured network name.
func (b *BaseAdapter) Network() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.network
}

// ChainConfigProxy returns a snapshot copy of the active chain
// configuration, or nil when none is set. Mutating the copy has no effect on
// the adapter.
func (b *BaseAdapter) ChainConfigProxy() *chain.Config {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.chainConfig == nil {
		return nil
	}
	cp := *b.chainConfig

	return &cp
}

// SetAdapterSettings applies settings to the instance. It is a no-op once
// the adapter has reached StatusReady; until then, zero-value fields leave
// the current values unchanged.
//
// A supplied chain configuration must carry a namespace. It is merged over
// the registry default for its (namespace, chainId) pair, caller fields
// winning, then stored as the active configuration and registered into the
// known-chains map.
func (b *BaseAdapter) SetAdapterSettings(settings Settings) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.settingsFrozen {
		return nil
	}

	if settings.SessionTime > 0 {
		b.sessionTime = settings.SessionTime
	}
	if settings.ClientID != "" {
		b.clientID = settings.ClientID
	}
	if settings.Network != "" {
		b.network = settings.Network
	}
	if settings.UseCoreKitKey != nil {
		coreKit := *settings.UseCoreKitKey
		b.useCoreKitKey = &coreKit
	}

	if settings.ChainConfig == nil {
		return nil
	}
	if settings.ChainConfig.Namespace == "" {
		return fmt.Errorf("%w: chain namespace is required in chain config", ErrInvalidParams)
	}

	b.namespace = settings.ChainConfig.Namespace

	merged := *settings.ChainConfig
	if def := b.registry.Resolve(merged.Namespace, merged.ChainID); def != nil {
		merged = def.Merge(merged)
	}
	b.chainConfig = &merged
	b.upsertChainConfig(merged)

	b.lggr.Debugw("adapter settings applied",
		"adapter", b.name, "namespace", b.namespace, "chainId", merged.ChainID)

	return nil
}

// AddChainConfig registers cfg into the known-chains map, merging it over
// any existing entry for the same chain id. New populated fields win on
// conflict; fields absent from cfg keep their previously stored values.
// Entries accumulate for the lifetime of the instance.
func (b *BaseAdapter) AddChainConfig(cfg chain.Config) error {
	if cfg.ChainID == "" {
		return fmt.Errorf("%w: chainId is required in chain config", ErrInvalidParams)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.upsertChainConfig(cfg)

	return nil
}

// upsertChainConfig merges cfg over the stored entry for its chain id.
// Callers must hold b.mu.
func (b *BaseAdapter) upsertChainConfig(cfg chain.Config) {
	if existing, ok := b.knownChains[cfg.ChainID]; ok {
		cfg = existing.Merge(cfg)
	}
	b.knownChains[cfg.ChainID] = cfg
}

// ChainConfig returns the known-chains entry for chainID. The second return
// reports whether the entry exists; lookup never fails otherwise.
func (b *BaseAdapter) ChainConfig(chainID string) (chain.Config, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	cfg, ok := b.knownChains[chainID]

	return cfg, ok
}

// KnownChainIDs returns the chain ids currently registered on the instance.
func (b *BaseAdapter) KnownChainIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()

	ids := make([]string, 0, len(b.knownChains))
	for id := range b.knownChains {
		ids = append(ids, id)
	}

	return ids
}

// SetActiveChain makes a previously registered chain the active
// configuration. Callers run the switch-chain guard first.
func (b *BaseAdapter) SetActiveChain(chainID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	cfg, ok := b.knownChains[chainID]
	if !ok {
		return fmt.Errorf("%w: chain %s", ErrChainConfigNotAdded, chainID)
	}
	b.chainConfig = &cfg

	return nil
}

// UpdateAdapterData replaces the adapter's opaque metadata blob and
// publishes an EventAdapterDataUpdated event. It always succeeds.
func (b *BaseAdapter) UpdateAdapterData(data any) {
	b.mu.Lock()
	b.adapterData = data
	b.mu.Unlock()

	b.bus.Publish(Event{
		Kind:        EventAdapterDataUpdated,
		AdapterName: b.name,
		Data:        data,
	})
}

// AdapterData returns the opaque metadata blob.
func (b *BaseAdapter) AdapterData() any {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.adapterData
}

// CheckConnectionRequirements is the connect guard. An instance constructed
// with WithConnectingResume passes while StatusConnecting and from
// StatusDisconnected; every other family is rejected in both states, so only
// the resume family can re-enter or reconnect.
func (b *BaseAdapter) CheckConnectionRequirements() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.checkConnection()
}

func (b *BaseAdapter) checkConnection() error {
	switch b.status {
	case StatusConnecting:
		if b.allowResume {
			return nil
		}

		return fmt.Errorf("%w: already connecting", ErrNotReady)
	case StatusConnected:
		return fmt.Errorf("%w: already connected", ErrConnection)
	case StatusDisconnected:
		if b.allowResume {
			return nil
		}

		return fmt.Errorf("%w: not ready to connect", ErrConnection)
	case StatusReady:
		return nil
	default:
		return fmt.Errorf("%w: not ready to connect", ErrConnection)
	}
}

// CheckInitializationRequirements is the init guard.
func (b *BaseAdapter) CheckInitializationRequirements() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.checkInitialization()
}

func (b *BaseAdapter) checkInitialization() error {
	if b.clientID == "" {
		return fmt.Errorf("%w: clientId is required before init", ErrInvalidParams)
	}
	if b.chainConfig == nil {
		return fmt.Errorf("%w: chain config is required before init", ErrInvalidParams)
	}
	if b.chainConfig.RPCTarget == "" && b.namespace != chain.NamespaceOther {
		return fmt.Errorf("%w: rpcTarget is required in chainConfig", ErrInvalidParams)
	}
	if b.chainConfig.ChainID == "" && b.namespace != chain.NamespaceOther {
		return fmt.Errorf("%w: chainId is required in chainConfig", ErrInvalidParams)
	}

	switch b.status {
	case StatusNotReady:
		return nil
	case StatusConnected:
		return fmt.Errorf("%w: already connected", ErrNotReady)
	case StatusReady:
		return fmt.Errorf("%w: already initialized", ErrNotReady)
	default:
		return nil
	}
}

// CheckDisconnectionRequirements is the disconnect guard.
func (b *BaseAdapter) CheckDisconnectionRequirements() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.checkDisconnection()
}

func (b *BaseAdapter) checkDisconnection() error {
	if b.status != StatusConnected {
		return fmt.Errorf("%w: not connected", ErrDisconnection)
	}

	return nil
}

// CheckAddChainRequirements is the add-chain guard. isInit relaxes the live
// provider requirement during initialization.
func (b *BaseAdapter) CheckAddChainRequirements(cfg chain.Config, isInit bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !isInit && b.provider == nil {
		return fmt.Errorf("%w: no live provider for add chain", ErrNotConnected)
	}
	if cfg.Namespace != b.namespace {
		return fmt.Errorf("%w: adapter is bound to namespace %q, got %q",
			ErrChainNamespaceNotAllowed, b.namespace, cfg.Namespace)
	}

	return nil
}

// CheckSwitchChainRequirements is the switch-chain guard. isInit relaxes the
// live provider requirement during initialization.
func (b *BaseAdapter) CheckSwitchChainRequirements(chainID string, isInit bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !isInit && b.provider == nil {
		return fmt.Errorf("%w: no live provider for switch chain", ErrNotConnected)
	}
	if _, ok := b.knownChains[chainID]; !ok {
		return fmt.Errorf("%w: chain %s", ErrChainConfigNotAdded, chainID)
	}

	return nil
}

// MarkReady transitions the instance to StatusReady after a successful init
// and freezes the settings. Publishes EventReady.
func (b *BaseAdapter) MarkReady() error {
	b.mu.Lock()
	if !b.status.CanTransition(StatusReady) {
		b.mu.Unlock()
		return errIllegalTransition(b.status, StatusReady)
	}
	from := b.status
	b.status = StatusReady
	b.settingsFrozen = true
	b.mu.Unlock()

	b.lggr.Debugw("status transition", "adapter", b.name, "from", from, "to", StatusReady)
	b.bus.Publish(Event{Kind: EventReady, AdapterName: b.name})

	return nil
}

// StartConnecting runs the connect guard and, atomically with it, holds the
// status at StatusConnecting so a concurrent connect on the same instance is
// rejected. Publishes EventConnecting. The second return reports whether the
// call re-entered Connecting to resume a live session.
func (b *BaseAdapter) StartConnecting() (resumed bool, err error) {
	b.mu.Lock()
	if err := b.checkConnection(); err != nil {
		b.mu.Unlock()
		return false, err
	}
	resumed = b.status == StatusConnecting
	from := b.status
	if from != StatusConnecting {
		if !from.CanTransition(StatusConnecting) {
			b.mu.Unlock()
			return false, errIllegalTransition(from, StatusConnecting)
		}
		b.status = StatusConnecting
	}
	b.mu.Unlock()

	b.lggr.Debugw("status transition", "adapter", b.name, "from", from, "to", StatusConnecting)
	b.bus.Publish(Event{Kind: EventConnecting, AdapterName: b.name})

	return resumed, nil
}

// FinishConnecting transitions to StatusConnected, installs the live
// provider handle, and publishes EventConnected.
func (b *BaseAdapter) FinishConnecting(p Provider, reconnected bool) error {
	b.mu.Lock()
	if !b.status.CanTransition(StatusConnected) {
		b.mu.Unlock()
		return errIllegalTransition(b.status, StatusConnected)
	}
	b.status = StatusConnected
	b.provider = p
	b.mu.Unlock()

	b.lggr.Infow("adapter connected", "adapter", b.name, "reconnected", reconnected)
	b.bus.Publish(Event{
		Kind:        EventConnected,
		AdapterName: b.name,
		Provider:    p,
		Reconnected: reconnected,
	})

	return nil
}

// FailConnecting leaves StatusConnecting after a failed connect attempt,
// clears any provider handle, and publishes EventErrored carrying err.
func (b *BaseAdapter) FailConnecting(err error) {
	b.mu.Lock()
	from := b.status
	b.status = StatusErrored
	b.provider = nil
	b.mu.Unlock()

	b.lggr.Warnw("adapter connect failed", "adapter", b.name, "from", from, "err", err)
	b.bus.Publish(Event{Kind: EventErrored, AdapterName: b.name, Err: err})
}

// CompleteDisconnect runs the disconnect guard and, atomically with it,
// transitions to StatusDisconnected, dropping the provider handle. With
// cleanup set the opaque adapter data is discarded as well. Publishes
// EventDisconnected.
func (b *BaseAdapter) CompleteDisconnect(cleanup bool) error {
	b.mu.Lock()
	if err := b.checkDisconnection(); err != nil {
		b.mu.Unlock()
		return err
	}
	b.status = StatusDisconnected
	b.provider = nil
	if cleanup {
		b.adapterData = nil
	}
	b.mu.Unlock()

	b.lggr.Infow("adapter disconnected", "adapter", b.name, "cleanup", cleanup)
	b.bus.Publish(Event{Kind: EventDisconnected, AdapterName: b.name})

	return nil
}
