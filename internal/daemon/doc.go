// Package daemon assembles the long-running process: the ledgers, the
// approval workflow, and the completion monitor, behind a single-instance
// lock. All state mutation happens in this process; the CLI reaches it over
// the IPC socket.
package daemon
