package realtime

import (
	"fmt"

	"marketchat/internal/infrastructure/auth"
)

// Namespace bundles everything one isolated set of connections needs: its
// name, the credential policy enforced at handshake time, and the router that
// owns its rooms. Gateways receive their Namespace at construction.
type Namespace struct {
	Name     string
	Verifier auth.Verifier
	Router   *Router
}

// Registry maps namespace names to their definitions. It is populated once at
// process start and treated as immutable afterwards.
type Registry struct {
	namespaces map[string]*Namespace
}

func NewRegistry() *Registry {
	return &Registry{namespaces: make(map[string]*Namespace)}
}

// Register adds a namespace definition. Registering the same name twice is a
// wiring bug and fails loudly.
func (reg *Registry) Register(name string, verifier auth.Verifier) (*Namespace, error) {
	if name == "" {
		return nil, fmt.Errorf("realtime: namespace name is required")
	}
	if _, exists := reg.namespaces[name]; exists {
		return nil, fmt.Errorf("realtime: namespace %q already registered", name)
	}
	ns := &Namespace{Name: name, Verifier: verifier, Router: NewRouter()}
	reg.namespaces[name] = ns
	return ns, nil
}

// Close shuts down every namespace's router.
func (reg *Registry) Close() {
	for _, ns := range reg.namespaces {
		ns.Router.Close()
	}
}
