// Package organizer drives the remote library filer: it converges the
// organizer directory on the seedbox and executes the embedded filer script
// after each completed download.
package organizer
