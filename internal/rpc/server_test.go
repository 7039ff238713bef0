package rpc

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/storage/memory"
	"github.com/jotpotato/pathlib/internal/types"
)

// startTestServer runs a daemon over a memory store on a temp socket
// and returns a connected client.
func startTestServer(t *testing.T) *Client {
	t.Helper()

	ServerVersion = "0.0.0-test"
	ClientVersion = "0.0.0-test"

	socket := filepath.Join(t.TempDir(), "pl.sock")
	lib := library.New(memory.New())
	srv := NewServer(socket, "", lib, ServerConfig{RequestTimeout: 5 * time.Second})

	errc := make(chan error, 1)
	go func() { errc <- srv.Start() }()
	select {
	case <-srv.Ready():
	case err := <-errc:
		t.Fatalf("server failed to start: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server never became ready")
	}
	t.Cleanup(srv.Stop)

	c, err := TryConnect(socket)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	if c == nil {
		t.Fatal("TryConnect returned no client for a live socket")
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestTryConnectNoDaemon(t *testing.T) {
	c, err := TryConnect(filepath.Join(t.TempDir(), "absent.sock"))
	if err != nil {
		t.Fatalf("missing socket must not be an error: %v", err)
	}
	if c != nil {
		t.Fatal("got a client for a socket nobody listens on")
	}
}

func TestPingAndStatus(t *testing.T) {
	c := startTestServer(t)

	pong, err := c.Ping()
	if err != nil {
		t.Fatal(err)
	}
	if pong.Version != "0.0.0-test" {
		t.Errorf("ping version = %q", pong.Version)
	}

	st, err := c.Status()
	if err != nil {
		t.Fatal(err)
	}
	if st.PID == 0 || st.MaxConns == 0 {
		t.Errorf("status incomplete: %+v", st)
	}
}

func TestPathLifecycleOverSocket(t *testing.T) {
	c := startTestServer(t)

	p, err := c.CreatePath(PathCreateArgs{Title: "Reduce churn", Activate: true})
	if err != nil {
		t.Fatal(err)
	}
	if p.Status != types.StatusActive {
		t.Errorf("status = %s", p.Status)
	}

	p, err = c.AddPhase(PhaseAddArgs{PathID: p.ID, Name: "Discovery"})
	if err != nil {
		t.Fatal(err)
	}
	p, err = c.AddStep(StepAddArgs{PathID: p.ID, PhaseID: p.Phases[0].ID, Name: "Interviews"})
	if err != nil {
		t.Fatal(err)
	}
	p, err = c.AddItem(ItemAddArgs{PathID: p.ID, StepID: p.Phases[0].Steps[0].ID, Title: "Draft guide"})
	if err != nil {
		t.Fatal(err)
	}

	itemID := p.Phases[0].Steps[0].Items[0].ID
	p, err = c.UpdateItemStatus(ItemStatusArgs{PathID: p.ID, ItemID: itemID, Status: string(types.ItemDone)})
	if err != nil {
		t.Fatal(err)
	}
	if p.Progress != 100 {
		t.Errorf("progress = %d, want 100 after the only item is done", p.Progress)
	}

	paths, err := c.ListPaths(types.PathFilter{Status: string(types.StatusActive)})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || paths[0].ID != p.ID {
		t.Errorf("list = %v", paths)
	}

	stats, err := c.Statistics(types.PathFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalPaths != 1 {
		t.Errorf("TotalPaths = %d", stats.TotalPaths)
	}
}

func TestTypedErrorsCrossTheWire(t *testing.T) {
	c := startTestServer(t)

	_, err := c.ShowPath("path-nope")
	if types.CategoryOf(err) != types.CategoryNotFound {
		t.Errorf("not found: got %v", err)
	}

	_, err = c.CreatePath(PathCreateArgs{Title: "   "})
	var terr *types.Error
	if types.CategoryOf(err) != types.CategoryValidation {
		t.Fatalf("blank title: got %v", err)
	}
	if !errors.As(err, &terr) || terr.Field != "title" {
		t.Errorf("field lost over the wire: %v", err)
	}

	p, err := c.CreatePath(PathCreateArgs{Title: "t", Activate: true})
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.TransitionStatus(StatusArgs{ID: p.ID, NewStatus: "draft"})
	if types.CategoryOf(err) != types.CategoryInvalidTransition {
		t.Errorf("active->draft: got %v", err)
	}
}

func TestCommentsAndAskOverSocket(t *testing.T) {
	c := startTestServer(t)
	c.SetActor("alice")

	p, err := c.CreatePath(PathCreateArgs{Title: "t"})
	if err != nil {
		t.Fatal(err)
	}

	cm, err := c.AddComment(CommentAddArgs{PathID: p.ID, Author: "alice", Content: "kicking off"})
	if err != nil {
		t.Fatal(err)
	}
	if cm.AuthorID != "alice" {
		t.Errorf("author = %q", cm.AuthorID)
	}

	comments, err := c.ListComments(p.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(comments) != 1 || comments[0].Content != "kicking off" {
		t.Errorf("comments = %v", comments)
	}

	ans, err := c.Ask(p.ID, "what's the status?")
	if err != nil {
		t.Fatal(err)
	}
	if ans.AnswerText == "" {
		t.Error("empty answer")
	}
}

func TestDatabaseBindingMismatch(t *testing.T) {
	ServerVersion = "0.0.0-test"
	ClientVersion = "0.0.0-test"

	dir := t.TempDir()
	socket := filepath.Join(dir, "pl.sock")
	srv := NewServer(socket, filepath.Join(dir, "real.db"), library.New(memory.New()), ServerConfig{})
	go func() { _ = srv.Start() }()
	<-srv.Ready()
	t.Cleanup(srv.Stop)

	c, err := TryConnect(socket)
	if err != nil || c == nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })

	c.SetExpectedDB(filepath.Join(dir, "other.db"))
	if _, err := c.CreatePath(PathCreateArgs{Title: "t"}); err == nil {
		t.Fatal("expected database mismatch error")
	}

	// Ping skips binding validation so health checks always work.
	if _, err := c.Ping(); err != nil {
		t.Errorf("ping failed: %v", err)
	}
}

func TestShutdownOperation(t *testing.T) {
	c := startTestServer(t)
	if err := c.Shutdown(); err != nil {
		t.Fatal(err)
	}
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		c2, err := TryConnect(c.socketPath)
		if err == nil && c2 == nil {
			return
		}
		if c2 != nil {
			_ = c2.Close()
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatal("daemon still accepting connections after shutdown")
}
