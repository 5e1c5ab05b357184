package seedbox

import "context"

// Session is one authenticated shell on the remote box. The organizer only
// needs four primitives: run a command, test for a file, upload a file, and
// rewrite a small config file.
type Session interface {
	// Exec runs command and returns its exit status with captured output.
	// A non-zero exit is not an error; err reports transport failures only.
	Exec(ctx context.Context, command string) (exit int, stdout, stderr string, err error)
	// FileExists reports whether path exists on the remote side.
	FileExists(path string) (bool, error)
	// WriteFile creates or truncates path with contents.
	WriteFile(path string, contents []byte) error
	Close() error
}

// Dialer opens Sessions. The organizer holds a Dialer rather than a live
// Session so each run gets a fresh connection.
type Dialer interface {
	Dial(ctx context.Context) (Session, error)
}
