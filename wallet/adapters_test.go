package wallet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletfx/wallet-adapters-framework/chain"
	"github.com/walletfx/wallet-adapters-framework/wallet"
)

// stubAdapter is a minimal wallet.Adapter for collection tests: the lifecycle
// operations delegate to the embedded base without any transport.
type stubAdapter struct {
	*wallet.BaseAdapter
}

func newStubAdapter(t *testing.T, name string, ns chain.Namespace) *stubAdapter {
	t.Helper()

	b := wallet.NewBaseAdapter(name)
	require.NoError(t, b.SetAdapterSettings(wallet.Settings{
		ClientID: "abc",
		ChainConfig: &chain.Config{
			Namespace: ns,
			ChainID:   "0x1",
			RPCTarget: "http://localhost:8545",
		},
	}))

	return &stubAdapter{BaseAdapter: b}
}

func (s *stubAdapter) Init(context.Context, wallet.InitOptions) error {
	if err := s.CheckInitializationRequirements(); err != nil {
		return err
	}

	return s.MarkReady()
}

func (s *stubAdapter) Connect(context.Context, wallet.ConnectParams) (wallet.Provider, error) {
	if _, err := s.StartConnecting(); err != nil {
		return nil, err
	}
	p := &fakeProvider{chainID: "0x1"}
	if err := s.FinishConnecting(p, false); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *stubAdapter) Disconnect(context.Context, wallet.DisconnectOptions) error {
	return s.CompleteDisconnect(false)
}

func (s *stubAdapter) UserInfo(context.Context) (wallet.UserInfo, error) {
	return wallet.UserInfo{}, nil
}

func (s *stubAdapter) EnableMFA(context.Context, wallet.ConnectParams) error {
	return wallet.ErrNotSupported
}

func (s *stubAdapter) AuthenticateUser(context.Context) (wallet.UserAuthInfo, error) {
	return wallet.UserAuthInfo{}, nil
}

func (s *stubAdapter) AddChain(_ context.Context, cfg chain.Config) error {
	if err := s.CheckAddChainRequirements(cfg, false); err != nil {
		return err
	}

	return s.AddChainConfig(cfg)
}

func (s *stubAdapter) SwitchChain(_ context.Context, chainID string) error {
	if err := s.CheckSwitchChainRequirements(chainID, false); err != nil {
		return err
	}

	return s.SetActiveChain(chainID)
}

var _ wallet.Adapter = (*stubAdapter)(nil)

func TestNewAdapters(t *testing.T) {
	t.Parallel()

	t.Run("duplicate names rejected", func(t *testing.T) {
		t.Parallel()

		a := newStubAdapter(t, "dup", chain.NamespaceEIP155)
		b := newStubAdapter(t, "dup", chain.NamespaceEIP155)

		_, err := wallet.NewAdapters([]wallet.Adapter{a, b})
		assert.ErrorContains(t, err, "duplicate adapter name")
	})

	t.Run("empty collection", func(t *testing.T) {
		t.Parallel()

		adapters, err := wallet.NewAdapters(nil)
		require.NoError(t, err)

		assert.Empty(t, adapters.Names())
		assert.Nil(t, adapters.ConnectedAdapter())
	})
}

func TestAdaptersQuerying(t *testing.T) {
	t.Parallel()

	evm := newStubAdapter(t, "evm-rpc", chain.NamespaceEIP155)
	wc := newStubAdapter(t, "wallet-connect", chain.NamespaceEIP155)
	sol := newStubAdapter(t, "solana-rpc", chain.NamespaceSolana)

	adapters, err := wallet.NewAdapters([]wallet.Adapter{evm, wc, sol})
	require.NoError(t, err)

	t.Run("names sorted", func(t *testing.T) {
		assert.Equal(t, []string{"evm-rpc", "solana-rpc", "wallet-connect"}, adapters.Names())
	})

	t.Run("get by name", func(t *testing.T) {
		got, err := adapters.Get("solana-rpc")
		require.NoError(t, err)
		assert.Equal(t, "solana-rpc", got.Name())
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := adapters.Get("absent")
		assert.ErrorIs(t, err, wallet.ErrAdapterNotFound)
	})

	t.Run("by namespace", func(t *testing.T) {
		evmAdapters := adapters.ByNamespace(chain.NamespaceEIP155)
		require.Len(t, evmAdapters, 2)
		assert.Equal(t, "evm-rpc", evmAdapters[0].Name())
		assert.Equal(t, "wallet-connect", evmAdapters[1].Name())

		assert.Empty(t, adapters.ByNamespace(chain.NamespaceCasper))
	})

	t.Run("connected adapter", func(t *testing.T) {
		ctx := context.Background()

		assert.Nil(t, adapters.ConnectedAdapter())

		require.NoError(t, sol.Init(ctx, wallet.InitOptions{}))
		_, err := sol.Connect(ctx, nil)
		require.NoError(t, err)

		got := adapters.ConnectedAdapter()
		require.NotNil(t, got)
		assert.Equal(t, "solana-rpc", got.Name())
	})
}

func TestAdaptersClearCache(t *testing.T) {
	t.Parallel()

	evm := newStubAdapter(t, "evm-rpc", chain.NamespaceEIP155)
	sol := newStubAdapter(t, "solana-rpc", chain.NamespaceSolana)

	adapters, err := wallet.NewAdapters([]wallet.Adapter{evm, sol})
	require.NoError(t, err)

	var cleared []string
	for _, a := range []*stubAdapter{evm, sol} {
		a.Events().Subscribe(wallet.EventCacheClear, func(evt wallet.Event) {
			cleared = append(cleared, evt.AdapterName)
		})
	}

	adapters.ClearCache()

	assert.Equal(t, []string{"evm-rpc", "solana-rpc"}, cleared)
}
