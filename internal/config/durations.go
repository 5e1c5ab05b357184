package config

import "time"

// Timeout and interval fields are stored as integer seconds in the TOML
// file; these helpers expose them as durations.

// RequestTimeoutDuration returns the chat API request timeout.
func (d Discord) RequestTimeoutDuration() time.Duration {
	return time.Duration(d.RequestTimeout) * time.Second
}

// TimeoutDuration returns the indexer search timeout.
func (p Prowlarr) TimeoutDuration() time.Duration {
	return time.Duration(p.Timeout) * time.Second
}

// TimeoutDuration returns the metadata provider timeout.
func (m Metadata) TimeoutDuration() time.Duration {
	return time.Duration(m.Timeout) * time.Second
}

// TimeoutDuration returns the library refresh timeout.
func (a Audiobookshelf) TimeoutDuration() time.Duration {
	return time.Duration(a.Timeout) * time.Second
}

// ConnectTimeoutDuration returns the remote shell dial timeout.
func (s Seedbox) ConnectTimeoutDuration() time.Duration {
	return time.Duration(s.ConnectTimeout) * time.Second
}

// PollIntervalDuration returns the completion monitor tick interval.
func (w Workflow) PollIntervalDuration() time.Duration {
	return time.Duration(w.PollInterval) * time.Second
}

// ErrorRetryIntervalDuration returns the backoff after a failed tick.
func (w Workflow) ErrorRetryIntervalDuration() time.Duration {
	return time.Duration(w.ErrorRetryInterval) * time.Second
}
