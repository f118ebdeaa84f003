/*
Package session implements session management and snapshot persistence
orchestration.

It provides high-level abstractions for handling concurrent access to
parked state snapshots across multiple replicas, integrating local
per-session locks with optional distributed locking and long-term
storage adapters.
*/
package session
