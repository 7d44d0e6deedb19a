package wallet

import (
	"fmt"
	"sort"

	"github.com/walletfx/wallet-adapters-framework/chain"
)

// Adapters is a host-side collection of adapter instances keyed by family
// name. It provides querying capabilities over the registered adapters; it
// never drives their lifecycles.
type Adapters struct {
	adapters map[string]Adapter
}

// NewAdapters builds a collection from the given adapters. Duplicate names
// are rejected: an adapter name must be unique within a host.
func NewAdapters(adapters []Adapter) (Adapters, error) {
	m := make(map[string]Adapter, len(adapters))
	for _, a := range adapters {
		if _, ok := m[a.Name()]; ok {
			return Adapters{}, fmt.Errorf("duplicate adapter name %q", a.Name())
		}
		m[a.Name()] = a
	}

	return Adapters{adapters: m}, nil
}

// Get returns the adapter registered under name.
func (a Adapters) Get(name string) (Adapter, error) {
	adapter, ok := a.adapters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAdapterNotFound, name)
	}

	return adapter, nil
}

// Names returns the registered adapter names in sorted order.
func (a Adapters) Names() []string {
	names := make([]string, 0, len(a.adapters))
	for name := range a.adapters {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// ByNamespace returns the adapters bound to ns, ordered by name.
func (a Adapters) ByNamespace(ns chain.Namespace) []Adapter {
	var out []Adapter
	for _, name := range a.Names() {
		if adapter := a.adapters[name]; adapter.Namespace() == ns {
			out = append(out, adapter)
		}
	}

	return out
}

// ConnectedAdapter returns the first connected adapter in name order, or nil
// when none is connected.
func (a Adapters) ConnectedAdapter() Adapter {
	for _, name := range a.Names() {
		if adapter := a.adapters[name]; adapter.Connected() {
			return adapter
		}
	}

	return nil
}

// ClearCache publishes EventCacheClear on every adapter's bus, telling
// subscribers to drop any cached session material.
func (a Adapters) ClearCache() {
	for _, name := range a.Names() {
		adapter := a.adapters[name]
		adapter.Events().Publish(Event{Kind: EventCacheClear, AdapterName: adapter.Name()})
	}
}
