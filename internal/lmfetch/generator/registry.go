package generator

import (
	"fmt"
	"sort"
	"sync"
)

// Registry is a thread-safe generator-provider registry, mirroring
// embedding.Registry's shape for the sibling black box.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Provider
}

// NewRegistry creates a new, empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

func (r *Registry) Register(provider Provider) error {
	if provider == nil {
		return fmt.Errorf("cannot register nil provider")
	}
	name := provider.Name()
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	r.providers[name] = provider
	return nil
}

func (r *Registry) Get(name string) (Provider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	provider, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("provider %q not found", name)
	}
	return provider, nil
}

func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var registry = NewRegistry()

func Register(provider Provider) error { return registry.Register(provider) }
func Get(name string) (Provider, error) { return registry.Get(name) }
func List() []string                   { return registry.List() }

func init() {
	if err := Register(&MockProvider{}); err != nil {
		panic(fmt.Sprintf("failed to register mock generator provider: %v", err))
	}
	if err := Register(&AnthropicProvider{}); err != nil {
		panic(fmt.Sprintf("failed to register anthropic generator provider: %v", err))
	}
}
