package registry

import (
	"github.com/nohwnd/codefix/pkg/action"
)

// Global registry holding the named action providers available to the
// CLI and to embedders. Built-in providers register themselves through
// init() functions; hosts may add their own before running requests.
var providerRegistry Registry[action.Provider]

func init() {
	providerRegistry = New[action.Provider]()
}

// RegisterProvider adds a named action provider.
func RegisterProvider(p action.Provider) error {
	return providerRegistry.Register(p.Name(), p)
}

// Has reports whether a provider is registered under name.
func Has(name string) bool {
	return providerRegistry.Has(name)
}

// GetProvider retrieves a provider by name.
func GetProvider(name string) (action.Provider, error) {
	return providerRegistry.Get(name)
}

// Providers returns all registered providers in name order.
func Providers() []action.Provider {
	names := providerRegistry.List()
	out := make([]action.Provider, 0, len(names))
	for _, name := range names {
		if p, err := providerRegistry.Get(name); err == nil {
			out = append(out, p)
		}
	}
	return out
}
