package chain

import (
	"fmt"
	"strconv"
	"strings"

	chainsel "github.com/smartcontractkit/chain-selectors"
)

// Registry resolves a (namespace, chainId) pair to a default chain
// configuration. Resolution checks host-registered custom entries before the
// built-in table, so a host can override a built-in default wholesale.
type Registry struct {
	custom map[Namespace]map[string]Config
}

// NewRegistry returns a Registry with only the built-in defaults.
func NewRegistry() *Registry {
	return &Registry{
		custom: make(map[Namespace]map[string]Config),
	}
}

// Register adds a custom default for cfg's (namespace, chainId) pair,
// replacing any previously registered custom entry.
func (r *Registry) Register(cfg Config) error {
	if !cfg.Namespace.Known() {
		return fmt.Errorf("unknown chain namespace %q", cfg.Namespace)
	}
	if cfg.ChainID == "" {
		return fmt.Errorf("chain id is required for namespace %q", cfg.Namespace)
	}

	if r.custom[cfg.Namespace] == nil {
		r.custom[cfg.Namespace] = make(map[string]Config)
	}
	r.custom[cfg.Namespace][cfg.ChainID] = cfg

	return nil
}

// Resolve returns the default configuration for the given namespace and chain
// id, or nil when none is known. NamespaceOther never resolves: its chains
// are arbitrary and carry no defaults.
func (r *Registry) Resolve(ns Namespace, chainID string) *Config {
	if ns == NamespaceOther || chainID == "" {
		return nil
	}

	if entries, ok := r.custom[ns]; ok {
		if cfg, ok := entries[chainID]; ok {
			return &cfg
		}
	}

	switch ns {
	case NamespaceEIP155:
		return resolveEVM(chainID)
	case NamespaceSolana:
		if cfg, ok := solanaDefaults[chainID]; ok {
			return &cfg
		}
	}

	return nil
}

// resolveEVM returns the built-in default for an EIP-155 chain id, falling
// back to the chain-selectors dataset for the display name when the curated
// entry leaves it empty.
func resolveEVM(chainID string) *Config {
	cfg, ok := evmDefaults[chainID]
	if !ok {
		return nil
	}

	if cfg.DisplayName == "" {
		if id, err := evmChainIDDecimal(chainID); err == nil {
			details, err := chainsel.GetChainDetailsByChainIDAndFamily(id, chainsel.FamilyEVM)
			if err == nil && details.ChainName != "" {
				cfg.DisplayName = details.ChainName
			}
		}
	}

	return &cfg
}

// evmChainIDDecimal converts a hex-quantity chain id ("0x1") to the decimal
// string form used by the chain-selectors dataset.
func evmChainIDDecimal(chainID string) (string, error) {
	hexPart := strings.TrimPrefix(strings.ToLower(chainID), "0x")
	if hexPart == chainID {
		return "", fmt.Errorf("chain id %q is not a hex quantity", chainID)
	}

	id, err := strconv.ParseUint(hexPart, 16, 64)
	if err != nil {
		return "", fmt.Errorf("parse chain id %q: %w", chainID, err)
	}

	return strconv.FormatUint(id, 10), nil
}

// evmDefaults is the curated table of well-known EIP-155 chains. Display
// names left empty are filled from the chain-selectors dataset at resolution
// time.
var evmDefaults = map[string]Config{
	"0x1": {
		Namespace:     NamespaceEIP155,
		ChainID:       "0x1",
		RPCTarget:     "https://eth.llamarpc.com",
		WSTarget:      "wss://ethereum-rpc.publicnode.com",
		DisplayName:   "Ethereum Mainnet",
		Ticker:        "ETH",
		TickerName:    "Ethereum",
		BlockExplorer: "https://etherscan.io",
		LogoURL:       "https://assets.walletfx.io/chains/eth.svg",
		Decimals:      18,
	},
	"0xaa36a7": {
		Namespace:     NamespaceEIP155,
		ChainID:       "0xaa36a7",
		RPCTarget:     "https://rpc.sepolia.org",
		DisplayName:   "Sepolia Testnet",
		Ticker:        "ETH",
		TickerName:    "Ethereum",
		BlockExplorer: "https://sepolia.etherscan.io",
		LogoURL:       "https://assets.walletfx.io/chains/eth.svg",
		Decimals:      18,
	},
	"0x89": {
		Namespace:     NamespaceEIP155,
		ChainID:       "0x89",
		RPCTarget:     "https://polygon-rpc.com",
		Ticker:        "POL",
		TickerName:    "Polygon",
		BlockExplorer: "https://polygonscan.com",
		LogoURL:       "https://assets.walletfx.io/chains/polygon.svg",
		Decimals:      18,
	},
	"0x38": {
		Namespace:     NamespaceEIP155,
		ChainID:       "0x38",
		RPCTarget:     "https://bsc-dataseed.binance.org",
		DisplayName:   "BNB Smart Chain",
		Ticker:        "BNB",
		TickerName:    "BNB",
		BlockExplorer: "https://bscscan.com",
		LogoURL:       "https://assets.walletfx.io/chains/bnb.svg",
		Decimals:      18,
	},
	"0xa4b1": {
		Namespace:     NamespaceEIP155,
		ChainID:       "0xa4b1",
		RPCTarget:     "https://arb1.arbitrum.io/rpc",
		Ticker:        "ETH",
		TickerName:    "Ethereum",
		BlockExplorer: "https://arbiscan.io",
		LogoURL:       "https://assets.walletfx.io/chains/arbitrum.svg",
		Decimals:      18,
	},
	"0xa": {
		Namespace:     NamespaceEIP155,
		ChainID:       "0xa",
		RPCTarget:     "https://mainnet.optimism.io",
		Ticker:        "ETH",
		TickerName:    "Ethereum",
		BlockExplorer: "https://optimistic.etherscan.io",
		LogoURL:       "https://assets.walletfx.io/chains/optimism.svg",
		Decimals:      18,
	},
	"0x2105": {
		Namespace:     NamespaceEIP155,
		ChainID:       "0x2105",
		RPCTarget:     "https://mainnet.base.org",
		Ticker:        "ETH",
		TickerName:    "Ethereum",
		BlockExplorer: "https://basescan.org",
		LogoURL:       "https://assets.walletfx.io/chains/base.svg",
		Decimals:      18,
	},
}

// solanaDefaults uses the conventional short chain ids for the three public
// Solana clusters.
var solanaDefaults = map[string]Config{
	"0x1": {
		Namespace:     NamespaceSolana,
		ChainID:       "0x1",
		RPCTarget:     "https://api.mainnet-beta.solana.com",
		WSTarget:      "wss://api.mainnet-beta.solana.com",
		DisplayName:   "Solana Mainnet",
		Ticker:        "SOL",
		TickerName:    "Solana",
		BlockExplorer: "https://explorer.solana.com",
		LogoURL:       "https://assets.walletfx.io/chains/sol.svg",
		Decimals:      9,
	},
	"0x2": {
		Namespace:     NamespaceSolana,
		ChainID:       "0x2",
		RPCTarget:     "https://api.testnet.solana.com",
		DisplayName:   "Solana Testnet",
		Ticker:        "SOL",
		TickerName:    "Solana",
		BlockExplorer: "https://explorer.solana.com?cluster=testnet",
		LogoURL:       "https://assets.walletfx.io/chains/sol.svg",
		Decimals:      9,
	},
	"0x3": {
		Namespace:     NamespaceSolana,
		ChainID:       "0x3",
		RPCTarget:     "https://api.devnet.solana.com",
		DisplayName:   "Solana Devnet",
		Ticker:        "SOL",
		TickerName:    "Solana",
		BlockExplorer: "https://explorer.solana.com?cluster=devnet",
		LogoURL:       "https://assets.walletfx.io/chains/sol.svg",
		Decimals:      9,
	},
}
