// Package services holds cross-cutting helpers for external collaborator
// clients: error sentinels for classifying failures and the Wrap helper that
// tags errors with component context. Concrete clients live in subpackages.
package services
