// Package evmrpc implements the wallet adapter family for EIP-155 chains
// reached over plain JSON-RPC, such as a local node or an injected wallet's
// RPC bridge.
package evmrpc

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/walletfx/wallet-adapters-framework/chain"
	"github.com/walletfx/wallet-adapters-framework/pkg/logger"
	"github.com/walletfx/wallet-adapters-framework/wallet"
)

// AdapterName is the family name evmrpc adapters register under.
const AdapterName = "evm-rpc"

const defaultDialAttempts = 3

// Config holds the configuration to construct an evmrpc Adapter.
type Config struct {
	// Settings are the adapter settings applied at construction. The chain
	// configuration, if present, must target chain.NamespaceEIP155.
	Settings wallet.Settings

	// DialAttempts bounds the RPC dial retries per connect. Defaults to 3.
	DialAttempts uint

	// Logger defaults to a no-op logger.
	Logger logger.Logger

	// Registry resolves chain defaults. Defaults to the built-in registry.
	Registry *chain.Registry
}

// Adapter connects to an EVM chain over JSON-RPC. It implements
// wallet.Adapter with the shared lifecycle machine held by composition.
type Adapter struct {
	*wallet.BaseAdapter

	lggr         logger.Logger
	dialAttempts uint
	client       *rpc.Client
}

var _ wallet.Adapter = (*Adapter)(nil)

// New constructs an evmrpc Adapter and applies cfg.Settings.
func New(cfg Config) (*Adapter, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.DialAttempts == 0 {
		cfg.DialAttempts = defaultDialAttempts
	}
	if cfg.Settings.ChainConfig != nil && cfg.Settings.ChainConfig.Namespace != chain.NamespaceEIP155 {
		return nil, fmt.Errorf("%w: evmrpc requires namespace %q, got %q",
			wallet.ErrInvalidParams, chain.NamespaceEIP155, cfg.Settings.ChainConfig.Namespace)
	}

	opts := []wallet.BaseOption{wallet.WithLogger(cfg.Logger)}
	if cfg.Registry != nil {
		opts = append(opts, wallet.WithRegistry(cfg.Registry))
	}

	a := &Adapter{
		BaseAdapter:  wallet.NewBaseAdapter(AdapterName, opts...),
		lggr:         cfg.Logger,
		dialAttempts: cfg.DialAttempts,
	}
	if err := a.SetAdapterSettings(cfg.Settings); err != nil {
		return nil, err
	}

	return a, nil
}

// Init validates the instance configuration and marks the adapter ready.
// With opts.AutoConnect set it connects immediately afterwards.
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

// Connect dials the active chain's RPC target, verifies the node serves the
// configured chain id, and installs the client as the live provider.
func (a *Adapter) Connect(ctx context.Context, _ wallet.ConnectParams) (wallet.Provider, error) {
	if _, err := a.StartConnecting(); err != nil {
		return nil, err
	}

	cfg := a.ChainConfigProxy()
	a.lggr.Infow("connecting to rpc target", "adapter", AdapterName, "chainId", cfg.ChainID, "rpcTarget", cfg.RPCTarget)

	client, err := a.dial(ctx, cfg.RPCTarget)
	if err != nil {
		err = fmt.Errorf("dial %s: %w", cfg.RPCTarget, err)
		a.FailConnecting(err)

		return nil, err
	}

	p := &provider{client: client}
	nodeChainID, err := p.ChainID(ctx)
	if err != nil {
		client.Close()
		err = fmt.Errorf("eth_chainId: %w", err)
		a.FailConnecting(err)

		return nil, err
	}
	if !chainIDEqual(nodeChainID, cfg.ChainID) {
		client.Close()
		err = fmt.Errorf("chain id mismatch: configured %s, node serves %s", cfg.ChainID, nodeChainID)
		a.FailConnecting(err)

		return nil, err
	}

	a.client = client
	if err := a.FinishConnecting(p, false); err != nil {
		client.Close()
		return nil, err
	}

	return p, nil
}

func (a *Adapter) dial(ctx context.Context, target string) (*rpc.Client, error) {
	var client *rpc.Client
	err := retry.Do(
		func() error {
			var dialErr error
			client, dialErr = rpc.DialContext(ctx, target)

			return dialErr
		},
		retry.Context(ctx),
		retry.Attempts(a.dialAttempts),
		retry.Delay(250*time.Millisecond),
		retry.LastErrorOnly(true),
	)

	return client, err
}

// Disconnect tears down the RPC client. With opts.Cleanup set the cached
// adapter data is discarded as well.
func (a *Adapter) Disconnect(_ context.Context, opts wallet.DisconnectOptions) error {
	if err := a.CheckDisconnectionRequirements(); err != nil {
		return err
	}

	if a.client != nil {
		a.client.Close()
		a.client = nil
	}

	return a.CompleteDisconnect(opts.Cleanup)
}

// UserInfo returns the accounts exposed by the node. Plain RPC wallets carry
// no user profile beyond that.
func (a *Adapter) UserInfo(ctx context.Context) (wallet.UserInfo, error) {
	p := a.Provider()
	if p == nil {
		return nil, fmt.Errorf("%w: connect before requesting user info", wallet.ErrNotConnected)
	}

	accounts, err := a.accounts(ctx, p)
	if err != nil {
		return nil, err
	}

	return wallet.UserInfo{"accounts": accounts}, nil
}

// EnableMFA is not supported by the evmrpc family.
func (a *Adapter) EnableMFA(_ context.Context, _ wallet.ConnectParams) error {
	return fmt.Errorf("%w: enableMFA on %s", wallet.ErrNotSupported, AdapterName)
}

// AuthenticateUser issues a personal_sign challenge through the provider and
// wraps the resulting signature as an opaque id token.
func (a *Adapter) AuthenticateUser(ctx context.Context) (wallet.UserAuthInfo, error) {
	p := a.Provider()
	if p == nil {
		return wallet.UserAuthInfo{}, fmt.Errorf("%w: connect before authenticating", wallet.ErrNotConnected)
	}

	accounts, err := a.accounts(ctx, p)
	if err != nil {
		return wallet.UserAuthInfo{}, err
	}
	if len(accounts) == 0 {
		return wallet.UserAuthInfo{}, errors.New("node exposes no accounts to sign with")
	}

	issuedAt := time.Now().Unix()
	challenge := fmt.Sprintf("walletfx login %s %d", a.ClientID(), issuedAt)

	var signature string
	if err := p.Call(ctx, &signature, "personal_sign", hexutil.Encode([]byte(challenge)), accounts[0]); err != nil {
		return wallet.UserAuthInfo{}, fmt.Errorf("personal_sign: %w", err)
	}

	token, err := json.Marshal(map[string]any{
		"iss":       AdapterName,
		"sub":       accounts[0],
		"challenge": challenge,
		"signature": signature,
		"iat":       issuedAt,
		"exp":       issuedAt + int64(a.SessionTime()/time.Second),
	})
	if err != nil {
		return wallet.UserAuthInfo{}, err
	}

	return wallet.UserAuthInfo{IDToken: base64.RawURLEncoding.EncodeToString(token)}, nil
}

// AddChain forwards a wallet_addEthereumChain request and registers the
// configuration into the known chains on success.
func (a *Adapter) AddChain(ctx context.Context, cfg chain.Config) error {
	if err := a.CheckAddChainRequirements(cfg, false); err != nil {
		return err
	}

	params := addChainParams{
		ChainID:   cfg.ChainID,
		ChainName: cfg.DisplayName,
		RPCURLs:   []string{cfg.RPCTarget},
	}
	if cfg.BlockExplorer != "" {
		params.BlockExplorerURLs = []string{cfg.BlockExplorer}
	}
	if cfg.Ticker != "" {
		params.NativeCurrency = &nativeCurrency{
			Name:     cfg.TickerName,
			Symbol:   cfg.Ticker,
			Decimals: cfg.Decimals,
		}
	}

	if err := a.Provider().Call(ctx, nil, "wallet_addEthereumChain", params); err != nil {
		return fmt.Errorf("wallet_addEthereumChain: %w", err)
	}

	return a.AddChainConfig(cfg)
}

// SwitchChain forwards a wallet_switchEthereumChain request and makes the
// chain the active configuration on success.
func (a *Adapter) SwitchChain(ctx context.Context, chainID string) error {
	if err := a.CheckSwitchChainRequirements(chainID, false); err != nil {
		return err
	}

	if err := a.Provider().Call(ctx, nil, "wallet_switchEthereumChain", switchChainParams{ChainID: chainID}); err != nil {
		return fmt.Errorf("wallet_switchEthereumChain: %w", err)
	}

	return a.SetActiveChain(chainID)
}

func (a *Adapter) accounts(ctx context.Context, p wallet.Provider) ([]string, error) {
	var accounts []string
	if err := p.Call(ctx, &accounts, "eth_accounts"); err != nil {
		return nil, fmt.Errorf("eth_accounts: %w", err)
	}

	return accounts, nil
}

type addChainParams struct {
	ChainID           string          `json:"chainId"`
	ChainName         string          `json:"chainName,omitempty"`
	RPCURLs           []string        `json:"rpcUrls"`
	BlockExplorerURLs []string        `json:"blockExplorerUrls,omitempty"`
	NativeCurrency    *nativeCurrency `json:"nativeCurrency,omitempty"`
}

type nativeCurrency struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Decimals uint8  `json:"decimals"`
}

type switchChainParams struct {
	ChainID string `json:"chainId"`
}

// chainIDEqual compares two hex-quantity chain ids ignoring case and leading
// zeros after the prefix.
func chainIDEqual(a, b string) bool {
	norm := func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "0x")
		return strings.TrimLeft(s, "0")
	}

	return norm(a) == norm(b)
}
