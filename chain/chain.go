// Package chain defines chain namespaces, per-chain configuration, and the
// registry of built-in chain defaults used when a host supplies only a
// partial configuration.
package chain

// Namespace identifies the family of chain id and address formats a chain
// belongs to. Every adapter instance is bound to exactly one namespace; all
// chain configurations registered on it must share that namespace.
type Namespace string

const (
	NamespaceEIP155 Namespace = "eip155"
	NamespaceSolana Namespace = "solana"
	NamespaceCasper Namespace = "casper"
	NamespaceXRPL   Namespace = "xrpl"
	// NamespaceOther admits arbitrary chains. The registry never resolves
	// defaults for it and rpcTarget/chainId requirements are relaxed.
	NamespaceOther Namespace = "other"
)

// Known reports whether n is one of the supported namespaces.
func (n Namespace) Known() bool {
	switch n {
	case NamespaceEIP155, NamespaceSolana, NamespaceCasper, NamespaceXRPL, NamespaceOther:
		return true
	default:
		return false
	}
}

// Config describes a single blockchain network. ChainID is a string in the
// namespace-specific format (hex-quantity for EIP-155 chains).
type Config struct {
	Namespace     Namespace `yaml:"namespace"`
	ChainID       string    `yaml:"chainId"`
	RPCTarget     string    `yaml:"rpcTarget"`
	WSTarget      string    `yaml:"wsTarget,omitempty"`
	DisplayName   string    `yaml:"displayName,omitempty"`
	Ticker        string    `yaml:"ticker,omitempty"`
	TickerName    string    `yaml:"tickerName,omitempty"`
	BlockExplorer string    `yaml:"blockExplorer,omitempty"`
	LogoURL       string    `yaml:"logo,omitempty"`
	Decimals      uint8     `yaml:"decimals,omitempty"`
}

// Merge returns c overlaid with the populated fields of override. Zero-value
// fields in override preserve the corresponding field of c, so merging the
// same override twice is equivalent to merging it once.
func (c Config) Merge(override Config) Config {
	out := c
	if override.Namespace != "" {
		out.Namespace = override.Namespace
	}
	if override.ChainID != "" {
		out.ChainID = override.ChainID
	}
	if override.RPCTarget != "" {
		out.RPCTarget = override.RPCTarget
	}
	if override.WSTarget != "" {
		out.WSTarget = override.WSTarget
	}
	if override.DisplayName != "" {
		out.DisplayName = override.DisplayName
	}
	if override.Ticker != "" {
		out.Ticker = override.Ticker
	}
	if override.TickerName != "" {
		out.TickerName = override.TickerName
	}
	if override.BlockExplorer != "" {
		out.BlockExplorer = override.BlockExplorer
	}
	if override.LogoURL != "" {
		out.LogoURL = override.LogoURL
	}
	if override.Decimals != 0 {
		out.Decimals = override.Decimals
	}

	return out
}
