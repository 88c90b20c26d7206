// Package session implements the challenge lifecycle of the fault-injection
// trainer: a single in-process session record guarded by one lock, activated
// by StartChallenge, observed and lazily retired by Status, and queried by
// Hint. The same Manager serves the HTTP API and the background scheduler, so
// user-initiated and automatic starts race only on the lock and exactly one of
// them wins.
//
// The session supports exactly one outstanding challenge. There is no
// persistence; a process restart forgets the active challenge by design.
package session
