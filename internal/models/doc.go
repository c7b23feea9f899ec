// Package models defines the core domain models for Peoplebook.
//
// # Models
//
//   - Person: a recorded person entry (name, age, place, optional photo)
//   - User: a login account with a bcrypt password hash
//   - LogEntry: an append-only audit record of a mutating action
//
// # Design Principles
//
//  1. Models carry database-assigned integer IDs; zero means "not persisted yet"
//  2. JSON tags match the wire format consumed by the browser frontend
//  3. Audit usernames are snapshots of the acting principal, not foreign keys,
//     so log entries stay readable even if an account is later removed
package models
