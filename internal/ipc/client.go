package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Hardbound.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Search looks a query up in the public catalogs.
func (c *Client) Search(query string) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.client.Call("Hardbound.Search", SearchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Request opens a book request.
func (c *Client) Request(req RequestRequest) (*RequestResponse, error) {
	var resp RequestResponse
	if err := c.client.Call("Hardbound.Request", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Select changes the selected candidate on a pending approval.
func (c *Client) Select(approvalID string, index int) (*SelectResponse, error) {
	var resp SelectResponse
	if err := c.client.Call("Hardbound.Select", SelectRequest{ApprovalID: approvalID, Index: index}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Approve approves a pending request.
func (c *Client) Approve(approvalID string) (*ApproveResponse, error) {
	var resp ApproveResponse
	if err := c.client.Call("Hardbound.Approve", ApproveRequest{ApprovalID: approvalID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Deny denies a pending request.
func (c *Client) Deny(approvalID, reason string) (*DenyResponse, error) {
	var resp DenyResponse
	if err := c.client.Call("Hardbound.Deny", DenyRequest{ApprovalID: approvalID, Reason: reason}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Approvals lists approval records.
func (c *Client) Approvals(statuses []string) (*ApprovalsResponse, error) {
	var resp ApprovalsResponse
	if err := c.client.Call("Hardbound.Approvals", ApprovalsRequest{Statuses: statuses}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Jobs lists the download jobs in the managed category.
func (c *Client) Jobs() (*JobsResponse, error) {
	var resp JobsResponse
	if err := c.client.Call("Hardbound.Jobs", JobsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
