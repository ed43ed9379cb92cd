package tools

import (
	"github.com/firebase/genkit/go/ai"
	"github.com/firebase/genkit/go/genkit"
)

// Registry resolves the registered assistant tools from Genkit's own
// action registry. It is stateless and performs a fresh lookup on each
// call, so it is safe for concurrent use.
type Registry struct {
	g *genkit.Genkit
}

// NewRegistry creates a tool registry over the given Genkit instance.
func NewRegistry(g *genkit.Genkit) *Registry {
	return &Registry{g: g}
}

// All returns every registered assistant tool that Genkit can resolve,
// in toolNames order. The agent passes these into its generate calls.
func (r *Registry) All() []ai.Tool {
	resolved := make([]ai.Tool, 0, len(toolNames))
	for _, name := range toolNames {
		if tool := genkit.LookupTool(r.g, name); tool != nil {
			resolved = append(resolved, tool)
		}
	}
	return resolved
}

// Count returns the number of resolvable tools.
func (r *Registry) Count() int {
	return len(r.All())
}
