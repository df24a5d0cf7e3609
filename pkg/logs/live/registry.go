package live

import (
	"fmt"
	"sort"

	"github.com/davidthor/evlog/pkg/logs"
)

// Config configures an Accessor.
type Config struct {
	// Endpoint locates the host's event log, e.g. a base URL.
	Endpoint string
	// Order is the host's ordering contract for fetched records.
	Order logs.Order
}

// Factory is a function that creates an Accessor from its configuration.
type Factory func(cfg Config) (Accessor, error)

// registry maps accessor type names (e.g., "http") to their factory functions.
// Accessors register themselves via init() using Register().
var registry = map[string]Factory{}

// Register adds an Accessor factory under the given name.
// Typically called from an accessor's init() function.
func Register(name string, factory Factory) {
	registry[name] = factory
}

// NewAccessor creates an Accessor for the given type.
// Returns an error if the type is not registered.
func NewAccessor(kind string, cfg Config) (Accessor, error) {
	factory, ok := registry[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported host accessor type %q (registered types: %v)", kind, RegisteredTypes())
	}
	return factory(cfg)
}

// RegisteredTypes returns the names of all registered accessor types, sorted.
func RegisteredTypes() []string {
	types := make([]string, 0, len(registry))
	for name := range registry {
		types = append(types, name)
	}
	sort.Strings(types)
	return types
}
