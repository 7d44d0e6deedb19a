package walletconnect

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/walletfx/wallet-adapters-framework/wallet"
)

// Relay message types. Pairing messages run once per connection; request and
// response carry forwarded JSON-RPC traffic on the pairing topic.
const (
	messagePairPropose = "pair_propose"
	messagePairResume  = "pair_resume"
	messagePairApprove = "pair_approve"
	messagePairDelete  = "pair_delete"
	messageRequest     = "request"
	messageResponse    = "response"
)

// relayMessage is the single envelope exchanged with the relay bridge.
type relayMessage struct {
	Type      string          `json:"type"`
	Topic     string          `json:"topic"`
	ID        uint64          `json:"id,omitempty"`
	Namespace string          `json:"namespace,omitempty"`
	ChainID   string          `json:"chainId,omitempty"`
	Accounts  []string        `json:"accounts,omitempty"`
	Method    string          `json:"method,omitempty"`
	Params    []any           `json:"params,omitempty"`
	Result    json.RawMessage `json:"result,omitempty"`
	Error     *relayError     `json:"error,omitempty"`
}

type relayError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *relayError) Error() string {
	return fmt.Sprintf("relay error %d: %s", e.Code, e.Message)
}

// provider forwards requests to the remote wallet over the relay. Requests
// are serialized: the relay answers one request before the next is written.
type provider struct {
	conn    *websocket.Conn
	topic   string
	chainID string

	mu     sync.Mutex
	nextID uint64
}

var _ wallet.Provider = (*provider)(nil)

func (p *provider) ChainID(_ context.Context) (string, error) {
	return p.chainID, nil
}

func (p *provider) Call(ctx context.Context, result any, method string, args ...any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.nextID++
	req := relayMessage{
		Type:   messageRequest,
		Topic:  p.topic,
		ID:     p.nextID,
		Method: method,
		Params: args,
	}

	if deadline, ok := ctx.Deadline(); ok {
		_ = p.conn.SetReadDeadline(deadline)
		_ = p.conn.SetWriteDeadline(deadline)
	}
	if err := p.conn.WriteJSON(req); err != nil {
		return fmt.Errorf("relay write %s: %w", method, err)
	}

	var resp relayMessage
	if err := p.conn.ReadJSON(&resp); err != nil {
		return fmt.Errorf("relay read %s: %w", method, err)
	}
	if resp.Type != messageResponse || resp.ID != req.ID {
		return fmt.Errorf("relay answered %s with %q (id %d, want %d)", method, resp.Type, resp.ID, req.ID)
	}
	if resp.Error != nil {
		return resp.Error
	}
	if result == nil || len(resp.Result) == 0 {
		return nil
	}

	return json.Unmarshal(resp.Result, result)
}
