/*
Package ports defines the driven ports (interfaces) for the smolbox engine.

These interfaces decouple the resolution and transition logic from storage,
allowing the engine to work with the local filesystem, an in-memory store for
tests, or Redis.

# Key Interfaces

  - RecordStore: persists the single current Record.
  - HistoryLog: append-only log of Record snapshots.
  - Allocator: creates fresh output locations on demand.
  - ModelLister: read-only view of the models directory.
  - Engine: the collaborator-facing API consumed by the HTTP and MCP adapters.
*/
package ports
