package walletconnect_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walletfx/wallet-adapters-framework/chain"
	"github.com/walletfx/wallet-adapters-framework/pkg/logger"
	"github.com/walletfx/wallet-adapters-framework/wallet"
	"github.com/walletfx/wallet-adapters-framework/wallet/walletconnect"
)

const testAccount = "0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"

// relayStub approves pairings and answers forwarded requests, mimicking the
// wallet side of the relay bridge.
type relayStub struct {
	t *testing.T

	// resumes counts pair_resume handshakes so tests can assert the
	// adapter reused its topic instead of proposing fresh.
	resumes atomic.Int32

	mu      sync.Mutex
	methods []string
}

// requestMethods returns the forwarded request methods seen so far.
func (rs *relayStub) requestMethods() []string {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	return append([]string(nil), rs.methods...)
}

func (rs *relayStub) server() *httptest.Server {
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		for {
			var msg map[string]any
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}

			switch msg["type"] {
			case "pair_propose", "pair_resume":
				if msg["type"] == "pair_resume" {
					rs.resumes.Add(1)
				}
				assert.NoError(rs.t, conn.WriteJSON(map[string]any{
					"type":     "pair_approve",
					"topic":    msg["topic"],
					"accounts": []string{testAccount},
				}))
			case "pair_delete":
				return
			case "request":
				method, _ := msg["method"].(string)
				rs.mu.Lock()
				rs.methods = append(rs.methods, method)
				rs.mu.Unlock()

				resp := map[string]any{
					"type":  "response",
					"topic": msg["topic"],
					"id":    msg["id"],
				}
				switch method {
				case "personal_sign":
					resp["result"] = json.RawMessage(`"0xdeadbeefcafe"`)
				case "wallet_switchEthereumChain", "wallet_switchChain":
					// approved, empty result
				default:
					resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
				}
				assert.NoError(rs.t, conn.WriteJSON(resp))
			}
		}
	}))
	rs.t.Cleanup(srv.Close)

	return srv
}

func newTestAdapter(t *testing.T, relayURL string) *walletconnect.Adapter {
	t.Helper()

	a, err := walletconnect.New(walletconnect.Config{
		RelayURL: relayURL,
		Logger:   logger.Test(t),
		Settings: wallet.Settings{
			ClientID: "abc",
			ChainConfig: &chain.Config{
				Namespace: chain.NamespaceEIP155,
				ChainID:   "0x1",
			},
		},
	})
	require.NoError(t, err)

	return a
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("relay url required", func(t *testing.T) {
		t.Parallel()

		_, err := walletconnect.New(walletconnect.Config{})
		assert.ErrorIs(t, err, wallet.ErrInvalidParams)
	})
}

func TestConnect(t *testing.T) {
	t.Parallel()

	t.Run("pairs and connects", func(t *testing.T) {
		t.Parallel()

		rs := &relayStub{t: t}
		a := newTestAdapter(t, wsURL(rs.server()))
		ctx := context.Background()
		require.NoError(t, a.Init(ctx, wallet.InitOptions{}))

		var connected wallet.Event
		a.Events().Subscribe(wallet.EventConnected, func(evt wallet.Event) { connected = evt })

		p, err := a.Connect(ctx, nil)
		require.NoError(t, err)

		assert.True(t, a.Connected())
		assert.False(t, connected.Reconnected)
		assert.NotNil(t, p)

		chainID, err := p.ChainID(ctx)
		require.NoError(t, err)
		assert.Equal(t, "0x1", chainID)
	})

	t.Run("unreachable relay errors the adapter", func(t *testing.T) {
		t.Parallel()

		a := newTestAdapter(t, "ws://127.0.0.1:1/relay")
		ctx := context.Background()
		require.NoError(t, a.Init(ctx, wallet.InitOptions{}))

		_, err := a.Connect(ctx, nil)
		require.Error(t, err)
		assert.Equal(t, wallet.StatusErrored, a.Status())
	})

	t.Run("resume reuses the pairing topic", func(t *testing.T) {
		t.Parallel()

		rs := &relayStub{t: t}
		a := newTestAdapter(t, wsURL(rs.server()))
		ctx := context.Background()
		require.NoError(t, a.Init(ctx, wallet.InitOptions{AutoConnect: true}))

		// Drop the transport but keep the session, then reconnect.
		require.NoError(t, a.Disconnect(ctx, wallet.DisconnectOptions{}))

		var connected wallet.Event
		a.Events().Subscribe(wallet.EventConnected, func(evt wallet.Event) { connected = evt })

		_, err := a.Connect(ctx, nil)
		require.NoError(t, err)

		assert.True(t, connected.Reconnected)
		assert.Equal(t, int32(1), rs.resumes.Load())
	})

	t.Run("cleanup disconnect forces a fresh pairing", func(t *testing.T) {
		t.Parallel()

		rs := &relayStub{t: t}
		a := newTestAdapter(t, wsURL(rs.server()))
		ctx := context.Background()
		require.NoError(t, a.Init(ctx, wallet.InitOptions{AutoConnect: true}))

		require.NoError(t, a.Disconnect(ctx, wallet.DisconnectOptions{Cleanup: true}))

		_, err := a.Connect(ctx, nil)
		require.NoError(t, err)
		assert.Zero(t, rs.resumes.Load(), "cleanup must discard the session")
	})
}

func TestDisconnect(t *testing.T) {
	t.Parallel()

	rs := &relayStub{t: t}
	a := newTestAdapter(t, wsURL(rs.server()))
	ctx := context.Background()

	assert.ErrorIs(t, a.Disconnect(ctx, wallet.DisconnectOptions{}), wallet.ErrDisconnection)

	require.NoError(t, a.Init(ctx, wallet.InitOptions{AutoConnect: true}))
	require.NoError(t, a.Disconnect(ctx, wallet.DisconnectOptions{}))
	assert.Equal(t, wallet.StatusDisconnected, a.Status())
}

func TestUserOperations(t *testing.T) {
	t.Parallel()

	rs := &relayStub{t: t}
	a := newTestAdapter(t, wsURL(rs.server()))
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, wallet.InitOptions{AutoConnect: true}))

	t.Run("user info returns paired accounts", func(t *testing.T) {
		info, err := a.UserInfo(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{testAccount}, info["accounts"])
	})

	t.Run("authenticate user round-trips the relay", func(t *testing.T) {
		auth, err := a.AuthenticateUser(ctx)
		require.NoError(t, err)
		assert.NotEmpty(t, auth.IDToken)
	})

	t.Run("enable mfa unsupported", func(t *testing.T) {
		assert.ErrorIs(t, a.EnableMFA(ctx, nil), wallet.ErrNotSupported)
	})
}

func TestChainOperations(t *testing.T) {
	t.Parallel()

	rs := &relayStub{t: t}
	a := newTestAdapter(t, wsURL(rs.server()))
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, wallet.InitOptions{AutoConnect: true}))

	polygon := chain.Config{Namespace: chain.NamespaceEIP155, ChainID: "0x89", RPCTarget: "https://polygon-rpc.com"}
	require.NoError(t, a.AddChain(ctx, polygon))
	require.NoError(t, a.SwitchChain(ctx, "0x89"))

	assert.Equal(t, "0x89", a.ChainConfigProxy().ChainID)
	assert.Contains(t, rs.requestMethods(), "wallet_switchEthereumChain")
	assert.ErrorIs(t, a.SwitchChain(ctx, "0x404"), wallet.ErrChainConfigNotAdded)
}

func TestSwitchChainSolanaNamespace(t *testing.T) {
	t.Parallel()

	rs := &relayStub{t: t}
	a, err := walletconnect.New(walletconnect.Config{
		RelayURL: wsURL(rs.server()),
		Logger:   logger.Test(t),
		Settings: wallet.Settings{
			ClientID: "abc",
			ChainConfig: &chain.Config{
				Namespace: chain.NamespaceSolana,
				ChainID:   "0x1",
			},
		},
	})
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, a.Init(ctx, wallet.InitOptions{AutoConnect: true}))

	devnet := chain.Config{
		Namespace: chain.NamespaceSolana,
		ChainID:   "0x3",
		RPCTarget: "https://api.devnet.solana.com",
	}
	require.NoError(t, a.AddChain(ctx, devnet))
	require.NoError(t, a.SwitchChain(ctx, "0x3"))

	assert.Equal(t, "0x3", a.ChainConfigProxy().ChainID)
	assert.Contains(t, rs.requestMethods(), "wallet_switchChain",
		"a solana-bound instance must not send the ethereum switch method")
	assert.NotContains(t, rs.requestMethods(), "wallet_switchEthereumChain")
}
