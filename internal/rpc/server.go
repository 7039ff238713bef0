package rpc

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/types"
)

// ServerVersion is the version of this RPC server. It should match the
// pl CLI version for compatibility checks; the serve command sets it at
// startup.
var ServerVersion = "0.0.0"

// Server is the daemon side of the protocol. One goroutine per
// connection, bounded by a semaphore; each request gets the configured
// timeout.
type Server struct {
	socketPath string
	dbPath     string
	lib        *library.Library

	listener     net.Listener
	mu           sync.RWMutex
	shutdown     bool
	shutdownChan chan struct{}
	stopOnce     sync.Once
	doneChan     chan struct{}
	readyChan    chan struct{}

	startTime      time.Time
	maxConns       int
	activeConns    int32
	connSemaphore  chan struct{}
	requestTimeout time.Duration

	log *slog.Logger
}

// ServerConfig carries the tunables for a Server. Zero values fall
// back to defaults.
type ServerConfig struct {
	MaxConns       int
	RequestTimeout time.Duration

	// LogPath enables JSON logs rotated by size. Empty logs to stderr.
	LogPath       string
	LogMaxSizeMB  int
	LogMaxBackups int
}

// NewServer creates a new RPC server over the given library core.
func NewServer(socketPath, dbPath string, lib *library.Library, cfg ServerConfig) *Server {
	if cfg.MaxConns <= 0 {
		cfg.MaxConns = 50
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	var handler slog.Handler
	if cfg.LogPath != "" {
		maxSize := cfg.LogMaxSizeMB
		if maxSize <= 0 {
			maxSize = 10
		}
		maxBackups := cfg.LogMaxBackups
		if maxBackups <= 0 {
			maxBackups = 3
		}
		handler = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.LogPath,
			MaxSize:    maxSize,
			MaxBackups: maxBackups,
			Compress:   true,
		}, nil)
	} else {
		handler = slog.NewTextHandler(os.Stderr, nil)
	}

	return &Server{
		socketPath:     socketPath,
		dbPath:         dbPath,
		lib:            lib,
		shutdownChan:   make(chan struct{}),
		doneChan:       make(chan struct{}),
		readyChan:      make(chan struct{}),
		startTime:      time.Now(),
		maxConns:       cfg.MaxConns,
		connSemaphore:  make(chan struct{}, cfg.MaxConns),
		requestTimeout: cfg.RequestTimeout,
		log:            slog.New(handler),
	}
}

// Ready returns a channel closed once the server is listening.
func (s *Server) Ready() <-chan struct{} {
	return s.readyChan
}

// Start listens on the Unix socket and serves until Stop. It removes
// any stale socket file first; the caller is responsible for ensuring
// no live daemon owns it (the db flock guards that).
func (s *Server) Start() error {
	if err := os.MkdirAll(filepath.Dir(s.socketPath), 0o755); err != nil {
		return fmt.Errorf("creating socket directory: %w", err)
	}
	_ = os.Remove(s.socketPath)

	listener, err := net.Listen("unix", s.socketPath)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.socketPath, err)
	}
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	s.log.Info("daemon listening",
		"socket", s.socketPath, "db", s.dbPath, "version", ServerVersion)
	close(s.readyChan)

	defer close(s.doneChan)
	var wg sync.WaitGroup
	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.shutdownChan:
				wg.Wait()
				_ = os.Remove(s.socketPath)
				return nil
			default:
			}
			s.log.Warn("accept failed", "error", err)
			continue
		}

		select {
		case s.connSemaphore <- struct{}{}:
		default:
			// At capacity; shed load instead of queueing.
			s.writeOverloaded(conn)
			_ = conn.Close()
			continue
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-s.connSemaphore }()
			atomic.AddInt32(&s.activeConns, 1)
			defer atomic.AddInt32(&s.activeConns, -1)
			s.handleConnection(conn)
		}()
	}
}

// Stop shuts the server down and waits for in-flight connections.
func (s *Server) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.shutdown = true
		close(s.shutdownChan)
		if s.listener != nil {
			_ = s.listener.Close()
		}
		s.mu.Unlock()
		<-s.doneChan
		s.log.Info("daemon stopped")
	})
}

func (s *Server) writeOverloaded(conn net.Conn) {
	resp := Response{Success: false, Error: "daemon at connection capacity, retry shortly"}
	data, _ := json.Marshal(resp)
	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	_, _ = conn.Write(append(data, '\n'))
}

// handleConnection serves newline-delimited requests until the client
// disconnects.
func (s *Server) handleConnection(conn net.Conn) {
	defer func() { _ = conn.Close() }()

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	writer := bufio.NewWriter(conn)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		var resp Response
		if err := json.Unmarshal(line, &req); err != nil {
			resp = Response{Success: false, Error: fmt.Sprintf("malformed request: %v", err)}
		} else {
			start := time.Now()
			resp = s.handleRequest(&req)
			s.log.Info("request",
				"op", req.Operation, "ok", resp.Success,
				"latency_ms", time.Since(start).Milliseconds(),
				"request_id", req.RequestID)
		}

		data, err := json.Marshal(resp)
		if err != nil {
			s.log.Error("marshaling response", "error", err)
			return
		}
		_ = conn.SetWriteDeadline(time.Now().Add(s.requestTimeout))
		if _, err := writer.Write(append(data, '\n')); err != nil {
			return
		}
		if err := writer.Flush(); err != nil {
			return
		}

		if req.Operation == OpShutdown {
			go s.Stop()
			return
		}
	}
}

// checkVersionCompatibility rejects clients whose major version differs
// or who are newer than the daemon; a stale daemon must not serve
// requests built against newer semantics.
func (s *Server) checkVersionCompatibility(clientVersion string) error {
	if clientVersion == "" {
		return nil
	}
	serverVer := ServerVersion
	if !strings.HasPrefix(serverVer, "v") {
		serverVer = "v" + serverVer
	}
	clientVer := clientVersion
	if !strings.HasPrefix(clientVer, "v") {
		clientVer = "v" + clientVer
	}
	if !semver.IsValid(serverVer) || !semver.IsValid(clientVer) {
		// Dev builds; allow.
		return nil
	}
	if semver.Major(serverVer) != semver.Major(clientVer) {
		return fmt.Errorf("incompatible major versions: client %s, daemon %s; restart the daemon with 'pl serve'",
			clientVersion, ServerVersion)
	}
	if semver.Compare(serverVer, clientVer) < 0 {
		return fmt.Errorf("daemon %s is older than client %s; restart the daemon with 'pl serve'",
			ServerVersion, clientVersion)
	}
	return nil
}

// validateDatabaseBinding ensures the client is talking to the daemon
// serving the database it expects, catching wrong-socket connections.
func (s *Server) validateDatabaseBinding(req *Request) error {
	if req.ExpectedDB == "" || s.dbPath == "" {
		return nil
	}
	expected, err := filepath.EvalSymlinks(req.ExpectedDB)
	if err != nil {
		expected = filepath.Clean(req.ExpectedDB)
	}
	actual, err := filepath.EvalSymlinks(s.dbPath)
	if err != nil {
		actual = filepath.Clean(s.dbPath)
	}
	if expected != actual {
		return fmt.Errorf("database mismatch: client expects %s but daemon serves %s", req.ExpectedDB, s.dbPath)
	}
	return nil
}

func (s *Server) handleRequest(req *Request) Response {
	if req.Operation != OpPing && req.Operation != OpStatus {
		if err := s.validateDatabaseBinding(req); err != nil {
			return Response{Success: false, Error: err.Error()}
		}
		if err := s.checkVersionCompatibility(req.ClientVersion); err != nil {
			return Response{Success: false, Error: err.Error()}
		}
	}

	switch req.Operation {
	case OpPing:
		return s.handlePing(req)
	case OpStatus:
		return s.handleStatus(req)
	case OpShutdown:
		return okResponse(map[string]string{"message": "shutting down"})
	case OpPathCreate:
		return s.handlePathCreate(req)
	case OpPathShow:
		return s.handlePathShow(req)
	case OpPathList:
		return s.handlePathList(req)
	case OpPathUpdate:
		return s.handlePathUpdate(req)
	case OpPathDelete:
		return s.handlePathDelete(req)
	case OpPathStatus:
		return s.handlePathStatus(req)
	case OpPhaseAdd:
		return s.handlePhaseAdd(req)
	case OpStepAdd:
		return s.handleStepAdd(req)
	case OpItemAdd:
		return s.handleItemAdd(req)
	case OpItemStatus:
		return s.handleItemStatus(req)
	case OpItemAssign:
		return s.handleItemAssign(req)
	case OpItemDue:
		return s.handleItemDue(req)
	case OpItemRemove:
		return s.handleItemRemove(req)
	case OpCommentAdd:
		return s.handleCommentAdd(req)
	case OpCommentList:
		return s.handleCommentList(req)
	case OpStats:
		return s.handleStats(req)
	case OpAsk:
		return s.handleAsk(req)
	default:
		return Response{Success: false, Error: fmt.Sprintf("unknown operation: %s", req.Operation)}
	}
}

// okResponse marshals data into a success response.
func okResponse(data any) Response {
	raw, err := json.Marshal(data)
	if err != nil {
		return Response{Success: false, Error: fmt.Sprintf("marshaling result: %v", err)}
	}
	return Response{Success: true, Data: raw}
}

// errResponse carries the typed error taxonomy across the wire.
func errResponse(err error) Response {
	resp := Response{Success: false, Error: err.Error()}
	var terr *types.Error
	if errors.As(err, &terr) {
		resp.ErrorCategory = string(terr.Category)
		resp.ErrorField = terr.Field
		resp.Error = terr.Message
	}
	return resp
}
