package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sort"
	"sync"

	"hardbound/internal/daemon"
	"hardbound/internal/ledger"
	"hardbound/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}
	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, logger: logging.NewComponentLogger(logger, "ipc"), ctx: ctx}
	if err := rpcServer.RegisterName("Hardbound", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		logger:    logger,
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve accepts RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("ipc server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				s.logger.Warn("ipc accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("could not remove socket",
			logging.String("socket", s.path), logging.Error(err))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	resp.Status = s.daemon.Status()
	return nil
}

func (s *service) Search(req SearchRequest, resp *SearchResponse) error {
	books, err := s.daemon.SearchBooks(s.ctx, req.Query)
	if err != nil {
		return err
	}
	resp.Books = books
	return nil
}

func (s *service) Request(req RequestRequest, resp *RequestResponse) error {
	requestType, err := parseRequestType(req.Type)
	if err != nil {
		return err
	}
	outcome, err := s.daemon.RequestBook(s.ctx, daemon.RequestInput{
		UserID: req.UserID,
		Title:  req.Title,
		Author: req.Author,
		Type:   requestType,
	})
	if err != nil {
		return err
	}
	resp.ApprovalID = outcome.ApprovalID
	resp.Merged = outcome.Merged
	resp.Book = outcome.Book
	resp.Candidates = outcome.Candidates
	s.logger.Info("request opened via ipc",
		logging.String(logging.FieldApprovalID, outcome.ApprovalID),
		logging.Bool("merged", outcome.Merged))
	return nil
}

func (s *service) Select(req SelectRequest, resp *SelectResponse) error {
	if err := s.daemon.SelectCandidate(s.ctx, req.ApprovalID, req.Index); err != nil {
		return err
	}
	resp.Selected = true
	return nil
}

func (s *service) Approve(req ApproveRequest, resp *ApproveResponse) error {
	if err := s.daemon.Approve(s.ctx, req.ApprovalID); err != nil {
		return err
	}
	records := s.daemon.Approvals()
	resp.DownloadJobID = records[req.ApprovalID].DownloadJobID
	return nil
}

func (s *service) Deny(req DenyRequest, resp *DenyResponse) error {
	if err := s.daemon.Deny(s.ctx, req.ApprovalID, req.Reason); err != nil {
		return err
	}
	resp.Denied = true
	return nil
}

func (s *service) Approvals(req ApprovalsRequest, resp *ApprovalsResponse) error {
	wanted := make(map[ledger.Status]bool, len(req.Statuses))
	for _, status := range req.Statuses {
		wanted[ledger.Status(status)] = true
	}

	records := s.daemon.Approvals()
	ids := make([]string, 0, len(records))
	for id, record := range records {
		if len(wanted) > 0 && !wanted[record.Status] {
			continue
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return records[ids[i]].CreatedAt.Before(records[ids[j]].CreatedAt)
	})

	resp.Approvals = make([]ApprovalRecord, 0, len(ids))
	for _, id := range ids {
		resp.Approvals = append(resp.Approvals, ApprovalRecord{ID: id, Record: records[id]})
	}
	return nil
}

func (s *service) Jobs(_ JobsRequest, resp *JobsResponse) error {
	jobs, err := s.daemon.Jobs(s.ctx)
	if err != nil {
		return err
	}
	resp.Jobs = make([]Job, 0, len(jobs))
	for _, job := range jobs {
		resp.Jobs = append(resp.Jobs, Job{
			ID:       job.ID,
			Name:     job.Name,
			State:    string(job.State),
			Progress: job.Progress,
			Size:     job.Size,
		})
	}
	return nil
}

func parseRequestType(raw string) (ledger.RequestType, error) {
	switch ledger.RequestType(raw) {
	case ledger.RequestEbook, ledger.RequestAudiobook:
		return ledger.RequestType(raw), nil
	case "":
		return ledger.RequestEbook, nil
	default:
		return "", fmt.Errorf("unknown request type %q (want ebook or audiobook)", raw)
	}
}
