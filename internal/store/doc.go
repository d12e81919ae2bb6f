// Package store provides SQLite-backed storage for emitted binding
// contracts.
//
// A build that regenerates bindings for hundreds of interfaces does
// not want to recompile every IDL unit to answer "what is the contract
// for Navigation"; the store holds the latest emitted contract per
// interface so downstream generators can query by name or content
// hash. The resolver core never touches this package; only the CLI
// does, so the core stays free of I/O.
//
// Query results order by interface name COLLATE BINARY so listings
// are identical across runs.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Contract hashes are computed in internal/ir/hash.go using RFC 8785
// canonical JSON and SHA-256 with domain separation.
package store
