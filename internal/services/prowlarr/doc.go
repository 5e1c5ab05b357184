// Package prowlarr queries a Prowlarr instance's aggregated indexer search
// for downloadable book releases.
package prowlarr
