package seedbox

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"hardbound/internal/config"
	"hardbound/internal/services"
)

// SSHDialer opens password-authenticated SSH sessions on the seedbox.
type SSHDialer struct {
	cfg config.Seedbox
}

var _ Dialer = (*SSHDialer)(nil)

// NewSSHDialer builds a Dialer from the seedbox config section.
func NewSSHDialer(cfg config.Seedbox) (*SSHDialer, error) {
	if cfg.Host == "" || cfg.User == "" {
		return nil, services.Wrap(services.ErrValidation, "seedbox", "dial",
			"seedbox host and user must be configured", nil)
	}
	return &SSHDialer{cfg: cfg}, nil
}

// Dial connects and authenticates. Host keys are not verified: the box is
// reached by address from the operator's own config, matching the original
// deployment's trust model.
func (d *SSHDialer) Dial(ctx context.Context) (Session, error) {
	clientConfig := &ssh.ClientConfig{
		User:            d.cfg.User,
		Auth:            []ssh.AuthMethod{ssh.Password(d.cfg.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         d.cfg.ConnectTimeoutDuration(),
	}
	addr := net.JoinHostPort(d.cfg.Host, strconv.Itoa(d.cfg.Port))

	conn, err := (&net.Dialer{Timeout: clientConfig.Timeout}).DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, services.Wrap(services.ErrConnectivity, "seedbox", "dial",
			fmt.Sprintf("could not reach %s", addr), err)
	}
	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, clientConfig)
	if err != nil {
		conn.Close()
		return nil, services.Wrap(services.ErrConnectivity, "seedbox", "dial",
			"ssh handshake failed", err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := sftp.NewClient(client)
	if err != nil {
		client.Close()
		return nil, services.Wrap(services.ErrConnectivity, "seedbox", "dial",
			"could not open sftp subsystem", err)
	}
	return &sshSession{client: client, sftp: sftpClient}, nil
}

type sshSession struct {
	client *ssh.Client
	sftp   *sftp.Client
}

var _ Session = (*sshSession)(nil)

func (s *sshSession) Exec(ctx context.Context, command string) (int, string, string, error) {
	session, err := s.client.NewSession()
	if err != nil {
		return 0, "", "", services.Wrap(services.ErrConnectivity, "seedbox", "exec",
			"could not open ssh session", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() { done <- session.Run(command) }()

	select {
	case <-ctx.Done():
		_ = session.Signal(ssh.SIGKILL)
		return 0, stdout.String(), stderr.String(), ctx.Err()
	case err = <-done:
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitStatus(), stdout.String(), stderr.String(), nil
		}
		return 0, stdout.String(), stderr.String(), services.Wrap(
			services.ErrConnectivity, "seedbox", "exec", "remote command aborted", err)
	}
	return 0, stdout.String(), stderr.String(), nil
}

func (s *sshSession) FileExists(path string) (bool, error) {
	_, err := s.sftp.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, services.Wrap(services.ErrConnectivity, "seedbox", "stat",
		fmt.Sprintf("could not stat %s", path), err)
}

func (s *sshSession) WriteFile(path string, contents []byte) error {
	file, err := s.sftp.Create(path)
	if err != nil {
		return services.Wrap(services.ErrConnectivity, "seedbox", "write",
			fmt.Sprintf("could not create %s", path), err)
	}
	defer file.Close()
	if _, err := file.Write(contents); err != nil {
		return services.Wrap(services.ErrConnectivity, "seedbox", "write",
			fmt.Sprintf("could not write %s", path), err)
	}
	return nil
}

func (s *sshSession) Close() error {
	s.sftp.Close()
	return s.client.Close()
}
