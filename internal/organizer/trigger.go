package organizer

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"hardbound/internal/config"
	"hardbound/internal/logging"
	"hardbound/internal/seedbox"
	"hardbound/internal/services"
)

//go:embed payload/organize_library.py
var payload []byte

const payloadName = "organize_library.py"

// Trigger runs the remote filer after a download completes. Each run dials a
// fresh session, converges the remote directory (payload uploaded only when
// absent so the filer's own database survives), rewrites the env file, and
// executes the filer.
type Trigger struct {
	dialer seedbox.Dialer
	cfg    config.Organizer
	source string
	logger *slog.Logger
}

// NewTrigger builds a Trigger. source is the download client's completed
// path, which becomes the filer's scan root.
func NewTrigger(dialer seedbox.Dialer, cfg config.Organizer, source string, logger *slog.Logger) *Trigger {
	return &Trigger{
		dialer: dialer,
		cfg:    cfg,
		source: source,
		logger: logging.NewComponentLogger(logger, "organizer"),
	}
}

// Run executes one organization pass. A non-zero filer exit is an error; the
// caller must not treat the job as handled.
func (t *Trigger) Run(ctx context.Context) error {
	session, err := t.dialer.Dial(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	if err := t.converge(ctx, session); err != nil {
		return err
	}

	command := fmt.Sprintf("cd '%s' && python3 %s", t.cfg.RemoteDir, payloadName)
	t.logger.Info("running remote filer", logging.String("remote_dir", t.cfg.RemoteDir))
	exit, stdout, stderr, err := session.Exec(ctx, command)
	if err != nil {
		return err
	}
	for _, line := range splitLines(stdout) {
		t.logger.Info("[filer] " + line)
	}
	for _, line := range splitLines(stderr) {
		t.logger.Warn("[filer] " + line)
	}
	if exit != 0 {
		return services.Wrap(services.ErrExternalTool, "organizer", "run",
			fmt.Sprintf("remote filer exited with status %d", exit), nil)
	}
	t.logger.Info("organization completed")
	return nil
}

// converge brings the remote directory to a runnable state.
func (t *Trigger) converge(ctx context.Context, session seedbox.Session) error {
	exit, _, stderr, err := session.Exec(ctx, fmt.Sprintf("mkdir -p '%s'", t.cfg.RemoteDir))
	if err != nil {
		return err
	}
	if exit != 0 {
		return services.Wrap(services.ErrExternalTool, "organizer", "prepare",
			fmt.Sprintf("could not create %s: %s", t.cfg.RemoteDir, strings.TrimSpace(stderr)), nil)
	}

	scriptPath := t.cfg.RemoteDir + "/" + payloadName
	exists, err := session.FileExists(scriptPath)
	if err != nil {
		return err
	}
	if !exists {
		t.logger.Info("uploading filer payload", logging.String("path", scriptPath))
		if err := session.WriteFile(scriptPath, payload); err != nil {
			return err
		}
	}

	// Rewritten every run so config changes reach the remote side.
	env := fmt.Sprintf("SOURCE_PATH=%s\nLIBRARY_PATH=%s\nORGANIZER_DIR=%s\n",
		t.source, t.cfg.LibraryPath, t.cfg.RemoteDir)
	if err := session.WriteFile(t.cfg.RemoteDir+"/.env", []byte(env)); err != nil {
		return err
	}

	exit, _, _, err = session.Exec(ctx, "command -v python3 >/dev/null 2>&1")
	if err != nil {
		return err
	}
	if exit != 0 {
		return services.Wrap(services.ErrExternalTool, "organizer", "prepare",
			"python3 is not available on the remote box", nil)
	}
	return nil
}

func splitLines(output string) []string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if line = strings.TrimRight(line, "\r"); strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
