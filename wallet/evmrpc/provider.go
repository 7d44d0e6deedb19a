package evmrpc

import (
	"context"

	"github.com/ethereum/go-ethereum/rpc"

	"github.com/walletfx/wallet-adapters-framework/wallet"
)

// provider adapts a geth rpc.Client to the wallet.Provider contract.
type provider struct {
	client *rpc.Client
}

var _ wallet.Provider = (*provider)(nil)

func (p *provider) ChainID(ctx context.Context) (string, error) {
	var chainID string
	if err := p.client.CallContext(ctx, &chainID, "eth_chainId"); err != nil {
		return "", err
	}

	return chainID, nil
}

func (p *provider) Call(ctx context.Context, result any, method string, args ...any) error {
	return p.client.CallContext(ctx, result, method, args...)
}
