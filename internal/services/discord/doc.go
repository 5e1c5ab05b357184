// Package discord implements the message operations the daemon performs
// against the Discord REST API: posting to channels, editing messages in
// place, and direct-messaging requesters.
package discord
