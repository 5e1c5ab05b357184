// Command hardbound is the operator CLI. Every subcommand is a thin
// JSON-RPC call to a running hardboundd over the Unix socket; the daemon
// owns all state.
package main
