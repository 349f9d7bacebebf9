package custody

import (
	"fmt"
	"sort"
)

// Query modifiers, the part of the query path following "?".
const (
	// KeyQueryMod looks up a single key.
	KeyQueryMod = ""
	// PrefixQueryMod returns every entry whose key starts with the data.
	PrefixQueryMod = "prefix"
)

// Model is a single key and value pair returned by a query.
type Model struct {
	Key   []byte
	Value []byte
}

// Pair returns the model of given key and value.
func Pair(key, value []byte) Model {
	return Model{Key: key, Value: value}
}

// QueryHandler answers queries for one path. Queries always read the last
// committed state.
type QueryHandler interface {
	Query(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error)
}

// QueryRegister adds the query handlers of one extension to the router.
type QueryRegister func(QueryRouter)

// QueryRouter dispatches ABCI queries by path, in the spirit of
// http.ServeMux but with exact path matches only.
type QueryRouter struct {
	routes map[string]QueryHandler
}

// NewQueryRouter returns a router without any path.
func NewQueryRouter() QueryRouter {
	return QueryRouter{routes: make(map[string]QueryHandler)}
}

// RegisterAll calls every register function with this router.
func (r QueryRouter) RegisterAll(registers ...QueryRegister) {
	for _, register := range registers {
		register(r)
	}
}

// Register binds h to path. A path can be bound only once, a second
// registration is a programming error and panics.
func (r QueryRouter) Register(path string, h QueryHandler) {
	if _, dup := r.routes[path]; dup {
		panic(fmt.Sprintf("query path %q already registered", path))
	}
	r.routes[path] = h
}

// Handler returns the handler bound to path, or nil.
func (r QueryRouter) Handler(path string) QueryHandler {
	return r.routes[path]
}

// Paths returns all registered paths in lexical order.
func (r QueryRouter) Paths() []string {
	paths := make([]string, 0, len(r.routes))
	for p := range r.routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
