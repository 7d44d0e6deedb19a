// Package solanarpc implements the wallet adapter family for Solana clusters
// reached over the public JSON-RPC API.
package solanarpc

import (
	"context"
	"fmt"

	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/walletfx/wallet-adapters-framework/chain"
	"github.com/walletfx/wallet-adapters-framework/pkg/logger"
	"github.com/walletfx/wallet-adapters-framework/wallet"
)

// AdapterName is the family name solanarpc adapters register under.
const AdapterName = "solana-rpc"

// Config holds the configuration to construct a solanarpc Adapter.
type Config struct {
	// Settings are the adapter settings applied at construction. The chain
	// configuration, if present, must target chain.NamespaceSolana.
	Settings wallet.Settings

	// Logger defaults to a no-op logger.
	Logger logger.Logger

	// Registry resolves chain defaults. Defaults to the built-in registry.
	Registry *chain.Registry
}

// Adapter connects to a Solana cluster over JSON-RPC.
type Adapter struct {
	*wallet.BaseAdapter

	lggr   logger.Logger
	client *solrpc.Client
}

var _ wallet.Adapter = (*Adapter)(nil)

// New constructs a solanarpc Adapter and applies cfg.Settings.
func New(cfg Config) (*Adapter, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Settings.ChainConfig != nil && cfg.Settings.ChainConfig.Namespace != chain.NamespaceSolana {
		return nil, fmt.Errorf("%w: solanarpc requires namespace %q, got %q",
			wallet.ErrInvalidParams, chain.NamespaceSolana, cfg.Settings.ChainConfig.Namespace)
	}

	opts := []wallet.BaseOption{wallet.WithLogger(cfg.Logger)}
	if cfg.Registry != nil {
		opts = append(opts, wallet.WithRegistry(cfg.Registry))
	}

	a := &Adapter{
		BaseAdapter: wallet.NewBaseAdapter(AdapterName, opts...),
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

// Connect dials the active cluster, health-checks it, and installs the
// client as the live provider.
func (a *Adapter) Connect(ctx context.Context, _ wallet.ConnectParams) (wallet.Provider, error) {
	if _, err := a.StartConnecting(); err != nil {
		return nil, err
	}

	cfg := a.ChainConfigProxy()
	a.lggr.Infow("connecting to cluster", "adapter", AdapterName, "chainId", cfg.ChainID, "rpcTarget", cfg.RPCTarget)

	p, client, err := a.dialCluster(ctx, *cfg)
	if err != nil {
		a.FailConnecting(err)
		return nil, err
	}

	a.client = client
	if err := a.FinishConnecting(p, false); err != nil {
		return nil, err
	}

	return p, nil
}

func (a *Adapter) dialCluster(ctx context.Context, cfg chain.Config) (*provider, *solrpc.Client, error) {
	client := solrpc.New(cfg.RPCTarget)

	health, err := client.GetHealth(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("getHealth %s: %w", cfg.RPCTarget, err)
	}
	if health != solrpc.HealthOk {
		return nil, nil, fmt.Errorf("cluster %s unhealthy: %s", cfg.RPCTarget, health)
	}

	return &provider{client: client, chainID: cfg.ChainID}, client, nil
}

// Disconnect drops the cluster client.
func (a *Adapter) Disconnect(_ context.Context, opts wallet.DisconnectOptions) error {
	if err := a.CheckDisconnectionRequirements(); err != nil {
		return err
	}
	a.client = nil

	return a.CompleteDisconnect(opts.Cleanup)
}

// UserInfo reports the connected cluster. RPC clusters carry no user
// profile.
func (a *Adapter) UserInfo(_ context.Context) (wallet.UserInfo, error) {
	if !a.Connected() {
		return nil, fmt.Errorf("%w: connect before requesting user info", wallet.ErrNotConnected)
	}
	cfg := a.ChainConfigProxy()

	return wallet.UserInfo{"cluster": cfg.DisplayName, "chainId": cfg.ChainID}, nil
}

// EnableMFA is not supported by the solanarpc family.
func (a *Adapter) EnableMFA(_ context.Context, _ wallet.ConnectParams) error {
	return fmt.Errorf("%w: enableMFA on %s", wallet.ErrNotSupported, AdapterName)
}

// AuthenticateUser is not supported: a plain RPC cluster exposes no signing
// capability to authenticate against.
func (a *Adapter) AuthenticateUser(_ context.Context) (wallet.UserAuthInfo, error) {
	return wallet.UserAuthInfo{}, fmt.Errorf("%w: authenticateUser on %s", wallet.ErrNotSupported, AdapterName)
}

// AddChain registers another cluster configuration on the instance.
func (a *Adapter) AddChain(_ context.Context, cfg chain.Config) error {
	if err := a.CheckAddChainRequirements(cfg, false); err != nil {
		return err
	}

	return a.AddChainConfig(cfg)
}

// SwitchChain re-dials the target cluster and swaps the live provider to it.
func (a *Adapter) SwitchChain(ctx context.Context, chainID string) error {
	if err := a.CheckSwitchChainRequirements(chainID, false); err != nil {
		return err
	}
	if err := a.SetActiveChain(chainID); err != nil {
		return err
	}

	cfg := a.ChainConfigProxy()
	p, client, err := a.dialCluster(ctx, *cfg)
	if err != nil {
		return fmt.Errorf("switch to chain %s: %w", chainID, err)
	}

	a.client = client
	a.SetProvider(p)

	return nil
}
