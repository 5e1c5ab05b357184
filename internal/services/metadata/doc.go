// Package metadata looks books up in public catalogs (Google Books, Open
// Library) and merges the two providers' results into one deduplicated
// list, so requesters pick a real edition before any indexer is queried.
package metadata
