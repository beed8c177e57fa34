package types

// Event is the generic audit record emitted after every successful state
// mutation. Attributes are stringly typed so downstream sinks (log shippers,
// indexers) can consume them without sharing Go types with the ledger.
type Event struct {
	Type       string
	Attributes map[string]string
}
