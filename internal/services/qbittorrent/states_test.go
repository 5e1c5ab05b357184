package qbittorrent

import (
	"testing"

	qbt "github.com/autobrr/go-qbittorrent"
)

func TestMapState(t *testing.T) {
	cases := []struct {
		raw  qbt.TorrentState
		want State
	}{
		{qbt.TorrentStateDownloading, StateDownloading},
		{qbt.TorrentStateStalledDl, StateDownloading},
		{qbt.TorrentStateMetaDl, StateDownloading},
		{qbt.TorrentStateUploading, StateSeeding},
		{qbt.TorrentStateStalledUp, StateSeeding},
		{qbt.TorrentStateForcedUp, StateSeeding},
		{qbt.TorrentStatePausedUp, StateCompleted},
		{qbt.TorrentStatePausedDl, StatePaused},
		{qbt.TorrentStateError, StateError},
		{qbt.TorrentStateMissingFiles, StateError},
		{qbt.TorrentState("somethingNew"), StateUnknown},
	}
	for _, tc := range cases {
		if got := mapState(tc.raw); got != tc.want {
			t.Errorf("mapState(%q) = %q, want %q", tc.raw, got, tc.want)
		}
	}
}

func TestJobComplete(t *testing.T) {
	cases := []struct {
		name string
		job  Job
		want bool
	}{
		{"seeding after recheck", Job{State: StateSeeding, Progress: 0.97}, true},
		{"paused complete", Job{State: StateCompleted, Progress: 1.0}, true},
		{"full progress still downloading state", Job{State: StateDownloading, Progress: 1.0}, true},
		{"mid download", Job{State: StateDownloading, Progress: 0.4}, false},
		{"paused partial", Job{State: StatePaused, Progress: 0.6}, false},
		{"errored", Job{State: StateError, Progress: 0.2}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.job.Complete(); got != tc.want {
				t.Fatalf("Complete() = %v, want %v", got, tc.want)
			}
		})
	}
}
