// Package ledger persists the bot's request and approval records as JSON
// files on disk. Both stores rewrite the entire backing file on every
// mutation and load missing or corrupt files as empty stores, so a fresh
// deployment and a damaged data dir both start clean instead of crashing
// the daemon.
package ledger
