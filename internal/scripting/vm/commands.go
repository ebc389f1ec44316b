package vm

import (
	"sort"

	"eventide/internal/scripting/types"
)

// Registry maps schema ids to their handlers
type Registry struct {
	handlers map[string]types.CommandHandler
}

// NewRegistry creates an empty dispatch table
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]types.CommandHandler)}
}

// RegisterCommand implements the CommandRegistry interface
func (r *Registry) RegisterCommand(id string, handler types.CommandHandler) {
	r.handlers[id] = handler
}

// Handler returns the handler for a schema id
func (r *Registry) Handler(id string) (types.CommandHandler, bool) {
	h, ok := r.handlers[id]
	return h, ok
}

// IDs returns every registered id, sorted
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.handlers))
	for id := range r.handlers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
