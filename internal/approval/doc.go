// Package approval implements the admin decision workflow for book
// requests: opening approvals with candidate releases, changing the
// selection, and acting on approve/deny decisions.
package approval
