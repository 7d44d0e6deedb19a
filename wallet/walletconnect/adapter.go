// Package walletconnect implements the wallet adapter family for remote
// wallets reached through a relay bridge over WebSocket. The wallet approves
// a pairing proposal out of band; the relay then forwards JSON-RPC style
// requests between host and wallet on the pairing topic.
//
// This is the one family whose connect guard permits resumption: a host that
// abandoned an in-flight connect may call Connect again while still
// connecting, and a disconnected host whose session has not expired may
// reconnect, reusing the pairing topic instead of proposing fresh.
package walletconnect

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/walletfx/wallet-adapters-framework/chain"
	"github.com/walletfx/wallet-adapters-framework/pkg/logger"
	"github.com/walletfx/wallet-adapters-framework/wallet"
)

// AdapterName is the family name walletconnect adapters register under.
const AdapterName = "wallet-connect"

// Config holds the configuration to construct a walletconnect Adapter.
type Config struct {
	// RelayURL is the WebSocket endpoint of the relay bridge. Required.
	RelayURL string

	// Settings are the adapter settings applied at construction.
	Settings wallet.Settings

	// Logger defaults to a no-op logger.
	Logger logger.Logger

	// Registry resolves chain defaults. Defaults to the built-in registry.
	Registry *chain.Registry
}

func (c Config) validate() error {
	if c.RelayURL == "" {
		return fmt.Errorf("%w: relay URL is required", wallet.ErrInvalidParams)
	}

	return nil
}

// Session is the approved pairing between host and wallet. It outlives the
// relay connection: a live session lets Connect resume instead of proposing
// a new pairing.
type Session struct {
	Topic    string
	Accounts []string
	Expiry   time.Time
}

// Live reports whether the session exists and has not expired.
func (s *Session) Live() bool {
	return s != nil && time.Now().Before(s.Expiry)
}

// Adapter connects to a remote wallet through a relay bridge.
type Adapter struct {
	*wallet.BaseAdapter

	cfg  Config
	lggr logger.Logger

	conn    *websocket.Conn
	session *Session
}

var _ wallet.Adapter = (*Adapter)(nil)

// New constructs a walletconnect Adapter and applies cfg.Settings.
func New(cfg Config) (*Adapter, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}

	opts := []wallet.BaseOption{
		wallet.WithLogger(cfg.Logger),
		wallet.WithConnectingResume(),
	}
	if cfg.Registry != nil {
		opts = append(opts, wallet.WithRegistry(cfg.Registry))
	}

	a := &Adapter{
		BaseAdapter: wallet.NewBaseAdapter(AdapterName, opts...),
		cfg:         cfg,
		lggr:        cfg.Logger,
	}
	if err := a.SetAdapterSettings(cfg.Settings); err != nil {
		return nil, err
	}

	return a, nil
}

// Init validates the instance configuration and marks the adapter ready.
func (a *Adapter) Init(ctx context.Context, opts wallet.InitOptions) error {
	if err := a.CheckInitializationRequirements(); err != nil {
		return err
	}
	if err := a.MarkReady(); err != nil {
		return err
	}

	if opts.AutoConnect {
		if _, err := a.Connect(ctx, nil); err != nil {
			return err
		}
	}

	return nil
}

// Connect dials the relay and either resumes a live session or proposes a
// fresh pairing, blocking until the wallet approves it. A resumed session
// reports Reconnected on the connected event.
func (a *Adapter) Connect(ctx context.Context, _ wallet.ConnectParams) (wallet.Provider, error) {
	if _, err := a.StartConnecting(); err != nil {
		return nil, err
	}

	a.lggr.Infow("dialing relay", "adapter", AdapterName, "relay", a.cfg.RelayURL)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.cfg.RelayURL, nil)
	if err != nil {
		err = fmt.Errorf("dial relay %s: %w", a.cfg.RelayURL, err)
		a.FailConnecting(err)

		return nil, err
	}

	resuming := a.session.Live()
	session, err := a.pair(ctx, conn, resuming)
	if err != nil {
		_ = conn.Close()
		a.FailConnecting(err)

		return nil, err
	}

	a.conn = conn
	a.session = session
	p := &provider{conn: conn, topic: session.Topic, chainID: a.ChainConfigProxy().ChainID}

	if err := a.FinishConnecting(p, resuming); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return p, nil
}

// pair runs the pairing handshake on a fresh relay connection. When resuming
// it reuses the existing topic so the wallet can re-attach the session.
func (a *Adapter) pair(ctx context.Context, conn *websocket.Conn, resuming bool) (*Session, error) {
	topic := uuid.NewString()
	msgType := messagePairPropose
	if resuming {
		topic = a.session.Topic
		msgType = messagePairResume
	}

	cfg := a.ChainConfigProxy()
	propose := relayMessage{
		Type:      msgType,
		Topic:     topic,
		Namespace: string(cfg.Namespace),
		ChainID:   cfg.ChainID,
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}
	if err := conn.WriteJSON(propose); err != nil {
		return nil, fmt.Errorf("propose pairing: %w", err)
	}

	var approve relayMessage
	if err := conn.ReadJSON(&approve); err != nil {
		return nil, fmt.Errorf("await pairing approval: %w", err)
	}
	if approve.Type != messagePairApprove || approve.Topic != topic {
		return nil, fmt.Errorf("unexpected relay message %q on topic %q", approve.Type, approve.Topic)
	}

	return &Session{
		Topic:    topic,
		Accounts: approve.Accounts,
		Expiry:   time.Now().Add(a.SessionTime()),
	}, nil
}

// Disconnect deletes the pairing on the relay and closes the connection.
// With opts.Cleanup set the session is discarded too, so the next connect
// proposes a fresh pairing.
func (a *Adapter) Disconnect(_ context.Context, opts wallet.DisconnectOptions) error {
	if err := a.CheckDisconnectionRequirements(); err != nil {
		return err
	}

	if a.conn != nil {
		if a.session != nil {
			_ = a.conn.WriteJSON(relayMessage{Type: messagePairDelete, Topic: a.session.Topic})
		}
		_ = a.conn.Close()
		a.conn = nil
	}
	if opts.Cleanup {
		a.session = nil
	}

	return a.CompleteDisconnect(opts.Cleanup)
}

// UserInfo returns the accounts the wallet shared at pairing approval.
func (a *Adapter) UserInfo(_ context.Context) (wallet.UserInfo, error) {
	if !a.Connected() || a.session == nil {
		return nil, fmt.Errorf("%w: connect before requesting user info", wallet.ErrNotConnected)
	}

	return wallet.UserInfo{"accounts": a.session.Accounts}, nil
}

// EnableMFA is not supported by the walletconnect family.
func (a *Adapter) EnableMFA(_ context.Context, _ wallet.ConnectParams) error {
	return fmt.Errorf("%w: enableMFA on %s", wallet.ErrNotSupported, AdapterName)
}

// AuthenticateUser asks the remote wallet to sign a login challenge and
// wraps the signature as an opaque id token.
func (a *Adapter) AuthenticateUser(ctx context.Context) (wallet.UserAuthInfo, error) {
	p := a.Provider()
	if p == nil || !a.session.Live() {
		return wallet.UserAuthInfo{}, fmt.Errorf("%w: connect before authenticating", wallet.ErrNotConnected)
	}
	if len(a.session.Accounts) == 0 {
		return wallet.UserAuthInfo{}, fmt.Errorf("%w: wallet shared no accounts", wallet.ErrNotConnected)
	}

	issuedAt := time.Now().Unix()
	challenge := fmt.Sprintf("walletfx login %s %d", a.ClientID(), issuedAt)

	var signature string
	if err := p.Call(ctx, &signature, "personal_sign", challenge, a.session.Accounts[0]); err != nil {
		return wallet.UserAuthInfo{}, fmt.Errorf("personal_sign: %w", err)
	}

	token, err := json.Marshal(map[string]any{
		"iss":       AdapterName,
		"sub":       a.session.Accounts[0],
		"challenge": challenge,
		"signature": signature,
		"iat":       issuedAt,
		"exp":       a.session.Expiry.Unix(),
	})
	if err != nil {
		return wallet.UserAuthInfo{}, err
	}

	return wallet.UserAuthInfo{IDToken: base64.RawURLEncoding.EncodeToString(token)}, nil
}

// AddChain registers another chain configuration on the instance. The wallet
// learns about it on the next switch.
func (a *Adapter) AddChain(_ context.Context, cfg chain.Config) error {
	if err := a.CheckAddChainRequirements(cfg, false); err != nil {
		return err
	}

	return a.AddChainConfig(cfg)
}

// SwitchChain notifies the wallet of the chain change over the relay and
// makes the chain the active configuration.
func (a *Adapter) SwitchChain(ctx context.Context, chainID string) error {
	if err := a.CheckSwitchChainRequirements(chainID, false); err != nil {
		return err
	}

	method := switchChainMethod(a.Namespace())
	if err := a.Provider().Call(ctx, nil, method, map[string]string{"chainId": chainID}); err != nil {
		return fmt.Errorf("%s: %w", method, err)
	}

	return a.SetActiveChain(chainID)
}

// switchChainMethod maps the bound namespace to the relay method the wallet
// expects for a chain switch. EIP-155 wallets use the conventional method
// name; every other namespace gets the generic one.
func switchChainMethod(ns chain.Namespace) string {
	if ns == chain.NamespaceEIP155 {
		return "wallet_switchEthereumChain"
	}

	return "wallet_switchChain"
}
