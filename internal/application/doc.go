// Package application wires the resolved configuration into runtime
// dependencies: it selects the storage backend from the database URI and
// prepares the store directory. The configuration snapshot is passed in
// explicitly rather than read from package state, so tests can wire
// alternate configurations freely.
package application
