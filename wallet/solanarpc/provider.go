package solanarpc

import (
	"context"

	solrpc "github.com/gagliardetto/solana-go/rpc"

	"github.com/walletfx/wallet-adapters-framework/wallet"
)

// provider adapts a solana-go rpc.Client to the wallet.Provider contract.
// ChainID reports the configured cluster id rather than a node-reported
// value: the Solana RPC API has no chain id method.
type provider struct {
	client  *solrpc.Client
	chainID string
}

var _ wallet.Provider = (*provider)(nil)

func (p *provider) ChainID(_ context.Context) (string, error) {
	return p.chainID, nil
}

func (p *provider) Call(ctx context.Context, result any, method string, args ...any) error {
	return p.client.RPCCallForInto(ctx, result, method, args)
}
