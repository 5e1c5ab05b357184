// Package reconcile contains the completion pipeline: a polling monitor
// that detects finished download jobs and a dispatcher that turns each one
// into library organization, user notification, and a durable processed
// mark, exactly once per job.
package reconcile
