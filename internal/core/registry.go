package core

import (
	"fmt"
	"sync"

	"github.com/JonMunkholm/courseimport/internal/importer"
)

var (
	registry   = make(map[importer.Schema]TableDefinition)
	registryMu sync.RWMutex
)

// Register adds a table definition to the registry.
// Panics if the schema is already registered or the definition is incomplete.
func Register(def TableDefinition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Schema == importer.SchemaUnknown {
		panic("cannot register table for unknown schema")
	}
	if def.Table == "" || len(def.CopyColumns) == 0 || def.CopyRow == nil {
		panic(fmt.Sprintf("incomplete table definition for %s", def.Schema))
	}
	if _, exists := registry[def.Schema]; exists {
		panic(fmt.Sprintf("table already registered: %s", def.Schema))
	}

	registry[def.Schema] = def
}

// Get returns the table definition for a schema.
func Get(s importer.Schema) (TableDefinition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[s]
	return def, ok
}

// All returns every registered definition in detection priority order.
func All() []TableDefinition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]TableDefinition, 0, len(registry))
	for _, info := range importer.Schemas() {
		if def, ok := registry[info.Schema]; ok {
			result = append(result, def)
		}
	}
	return result
}

// Tables returns the distinct table names, in registration priority order.
func Tables() []string {
	seen := make(map[string]bool)
	var tables []string
	for _, def := range All() {
		if !seen[def.Table] {
			seen[def.Table] = true
			tables = append(tables, def.Table)
		}
	}
	return tables
}

// Clear removes all registered tables.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[importer.Schema]TableDefinition)
}
