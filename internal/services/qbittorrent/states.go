package qbittorrent

import qbt "github.com/autobrr/go-qbittorrent"

// State is the normalized lifecycle of a download job. The download client
// reports over a dozen raw states; the workflow only cares about this
// smaller alphabet.
type State string

const (
	StateDownloading State = "downloading"
	StateSeeding     State = "seeding"
	StateCompleted   State = "completed"
	StatePaused      State = "paused"
	StateError       State = "error"
	StateUnknown     State = "unknown"
)

func mapState(raw qbt.TorrentState) State {
	switch raw {
	case qbt.TorrentStateDownloading, qbt.TorrentStateStalledDl,
		qbt.TorrentStateMetaDl, qbt.TorrentStateQueuedDl,
		qbt.TorrentStateForcedDl, qbt.TorrentStateAllocating,
		qbt.TorrentStateCheckingDl:
		return StateDownloading
	case qbt.TorrentStateUploading, qbt.TorrentStateStalledUp,
		qbt.TorrentStateQueuedUp, qbt.TorrentStateForcedUp,
		qbt.TorrentStateCheckingUp:
		return StateSeeding
	case qbt.TorrentStatePausedUp:
		return StateCompleted
	case qbt.TorrentStatePausedDl:
		return StatePaused
	case qbt.TorrentStateError, qbt.TorrentStateMissingFiles:
		return StateError
	default:
		return StateUnknown
	}
}
