// Package search composes the metadata catalog and the indexer aggregator
// into the lookup operations the request front end uses.
package search
