// Package ipc carries the control protocol between the hardbound CLI and
// the daemon: JSON-RPC over a Unix domain socket. The daemon side registers
// a service named Hardbound; the CLI side gets one typed client method per
// RPC. All state lives in the daemon, so every CLI command is a thin call
// through this package.
package ipc
