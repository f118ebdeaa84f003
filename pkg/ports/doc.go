/*
Package ports defines the driven ports (interfaces) for the Scals
engine.

These interfaces decouple the resolution core from the host
application: how resolved trees are presented, how unhandled actions
are delegated, and how state snapshots are persisted.

# Key Interfaces

  - Renderer: consumes full render trees and incremental splices.
  - ActionDelegate: host hook for custom and environment actions.
  - SnapshotStore: persists state snapshots for stop and resume.
*/
package ports
