package rpc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/jotpotato/pathlib/internal/assistant"
	"github.com/jotpotato/pathlib/internal/debug"
	"github.com/jotpotato/pathlib/internal/types"
)

// ClientVersion is the version of this RPC client. It should match the
// pl CLI version; main sets it at startup.
var ClientVersion = "0.0.0"

// Client connects the CLI to a running daemon.
type Client struct {
	conn       net.Conn
	reader     *bufio.Reader
	socketPath string
	timeout    time.Duration
	dbPath     string // expected database path for binding validation
	actor      string
}

// TryConnect attempts to connect to the daemon socket. Returns
// (nil, nil) when no daemon is running, so callers can fall back to
// direct storage.
func TryConnect(socketPath string) (*Client, error) {
	return TryConnectWithTimeout(socketPath, 200*time.Millisecond)
}

// TryConnectWithTimeout is TryConnect with an explicit dial timeout.
func TryConnectWithTimeout(socketPath string, dialTimeout time.Duration) (*Client, error) {
	if dialTimeout <= 0 {
		dialTimeout = 200 * time.Millisecond
	}
	conn, err := net.DialTimeout("unix", socketPath, dialTimeout)
	if err != nil {
		debug.Logf("no daemon at %s: %v\n", socketPath, err)
		return nil, nil
	}

	c := &Client{
		conn:       conn,
		reader:     bufio.NewReader(conn),
		socketPath: socketPath,
		timeout:    30 * time.Second,
	}

	// Ping verifies the daemon is actually serving, not just a stale
	// socket accepted by the OS.
	if _, err := c.Ping(); err != nil {
		_ = conn.Close()
		debug.Logf("daemon at %s failed ping: %v\n", socketPath, err)
		return nil, nil
	}
	return c, nil
}

// SetExpectedDB sets the database path sent for binding validation.
func (c *Client) SetExpectedDB(dbPath string) { c.dbPath = dbPath }

// SetActor sets the actor sent with every request.
func (c *Client) SetActor(actor string) { c.actor = actor }

// Close closes the connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Call sends one request and decodes the response. Failed responses
// come back as errors; typed errors are rebuilt from the wire category.
func (c *Client) Call(operation string, args any) (json.RawMessage, error) {
	rawArgs, err := json.Marshal(args)
	if err != nil {
		return nil, fmt.Errorf("marshaling args: %w", err)
	}
	req := Request{
		Operation:     operation,
		Args:          rawArgs,
		Actor:         c.actor,
		ClientVersion: ClientVersion,
		ExpectedDB:    c.dbPath,
	}
	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	_ = c.conn.SetDeadline(time.Now().Add(c.timeout))
	if _, err := c.conn.Write(append(data, '\n')); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}

	line, err := c.reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	var resp Response
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	if !resp.Success {
		if resp.ErrorCategory != "" {
			return nil, &types.Error{
				Category: types.ErrorCategory(resp.ErrorCategory),
				Field:    resp.ErrorField,
				Message:  resp.Error,
			}
		}
		return nil, fmt.Errorf("%s", resp.Error)
	}
	return resp.Data, nil
}

func call[T any](c *Client, operation string, args any) (T, error) {
	var out T
	data, err := c.Call(operation, args)
	if err != nil {
		return out, err
	}
	if err := json.Unmarshal(data, &out); err != nil {
		return out, fmt.Errorf("decoding %s result: %w", operation, err)
	}
	return out, nil
}

// Ping checks daemon liveness and returns its version.
func (c *Client) Ping() (*PingResponse, error) {
	return call[*PingResponse](c, OpPing, struct{}{})
}

// Status returns daemon status metadata.
func (c *Client) Status() (*StatusResponse, error) {
	return call[*StatusResponse](c, OpStatus, struct{}{})
}

// Shutdown asks the daemon to stop.
func (c *Client) Shutdown() error {
	_, err := c.Call(OpShutdown, struct{}{})
	return err
}

// CreatePath creates a new path.
func (c *Client) CreatePath(args PathCreateArgs) (*types.Path, error) {
	return call[*types.Path](c, OpPathCreate, args)
}

// ShowPath loads a path with its full subtree.
func (c *Client) ShowPath(id string) (*types.Path, error) {
	return call[*types.Path](c, OpPathShow, ShowArgs{ID: id})
}

// ListPaths applies the filter and returns matching paths.
func (c *Client) ListPaths(filter types.PathFilter) ([]*types.Path, error) {
	return call[[]*types.Path](c, OpPathList, ListArgs{Filter: filter})
}

// UpdatePath edits a path's descriptive fields.
func (c *Client) UpdatePath(args UpdateArgs) (*types.Path, error) {
	return call[*types.Path](c, OpPathUpdate, args)
}

// DeletePath removes a path.
func (c *Client) DeletePath(id string) error {
	_, err := c.Call(OpPathDelete, DeleteArgs{ID: id})
	return err
}

// TransitionStatus runs a workflow transition.
func (c *Client) TransitionStatus(args StatusArgs) (*types.Path, error) {
	return call[*types.Path](c, OpPathStatus, args)
}

// AddPhase appends a phase to a path's plan.
func (c *Client) AddPhase(args PhaseAddArgs) (*types.Path, error) {
	return call[*types.Path](c, OpPhaseAdd, args)
}

// AddStep appends a step to a phase.
func (c *Client) AddStep(args StepAddArgs) (*types.Path, error) {
	return call[*types.Path](c, OpStepAdd, args)
}

// AddItem appends an action item to a step.
func (c *Client) AddItem(args ItemAddArgs) (*types.Path, error) {
	return call[*types.Path](c, OpItemAdd, args)
}

// UpdateItemStatus changes an action item's status and returns the
// rolled-up path.
func (c *Client) UpdateItemStatus(args ItemStatusArgs) (*types.Path, error) {
	return call[*types.Path](c, OpItemStatus, args)
}

// AssignItem updates an action item's assignee snapshot.
func (c *Client) AssignItem(args ItemAssignArgs) (*types.Path, error) {
	return call[*types.Path](c, OpItemAssign, args)
}

// SetItemDueDate sets or clears an action item's due date.
func (c *Client) SetItemDueDate(args ItemDueArgs) (*types.Path, error) {
	return call[*types.Path](c, OpItemDue, args)
}

// RemoveItem deletes an action item.
func (c *Client) RemoveItem(args ItemRemoveArgs) (*types.Path, error) {
	return call[*types.Path](c, OpItemRemove, args)
}

// AddComment attaches a comment to a path.
func (c *Client) AddComment(args CommentAddArgs) (*types.PathComment, error) {
	return call[*types.PathComment](c, OpCommentAdd, args)
}

// ListComments returns a path's comments.
func (c *Client) ListComments(pathID string) ([]*types.PathComment, error) {
	return call[[]*types.PathComment](c, OpCommentList, CommentListArgs{PathID: pathID})
}

// Statistics summarizes the filtered collection.
func (c *Client) Statistics(filter types.PathFilter) (*types.Statistics, error) {
	return call[*types.Statistics](c, OpStats, StatsArgs{Filter: filter})
}

// Ask answers a free-text question about a path.
func (c *Client) Ask(pathID, query string) (*assistant.Answer, error) {
	return call[*assistant.Answer](c, OpAsk, AskArgs{PathID: pathID, Query: query})
}
