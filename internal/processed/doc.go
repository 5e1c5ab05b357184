// Package processed tracks which download jobs have completed the full
// organize-and-notify pipeline, persisted as a JSON hash list.
package processed
