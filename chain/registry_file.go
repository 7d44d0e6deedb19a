package chain

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// registryFile is the on-disk shape of a registry extension file.
type registryFile struct {
	Chains []Config `yaml:"chains"`
}

// LoadConfigs reads a YAML registry extension file and returns the chain
// configurations it declares. The file is a single document of the form:
//
//	chains:
//	  - namespace: eip155
//	    chainId: "0x7a69"
//	    rpcTarget: http://localhost:8545
//	    displayName: Anvil
func LoadConfigs(path string) ([]Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry file %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse registry file %s: %w", path, err)
	}

	return file.Chains, nil
}

// LoadFile registers every configuration declared in a YAML registry
// extension file. Registration stops at the first invalid entry.
func (r *Registry) LoadFile(path string) error {
	cfgs, err := LoadConfigs(path)
	if err != nil {
		return err
	}

	for i, cfg := range cfgs {
		if err := r.Register(cfg); err != nil {
			return fmt.Errorf("register chain %d from %s: %w", i, path, err)
		}
	}

	return nil
}
