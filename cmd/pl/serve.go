package main

import (
	"fmt"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/config"
	"github.com/jotpotato/pathlib/internal/library"
	"github.com/jotpotato/pathlib/internal/rpc"
	"github.com/jotpotato/pathlib/internal/storage/sqlite"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	GroupID: "library",
	Short:   "Run the daemon in the foreground",
	Long: `Serve this workspace's database over a Unix socket so concurrent pl
invocations share one writer. Clients fall back to direct storage when
no daemon is running, so the daemon is an optimization, never a
requirement.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := resolveDBPath()
		if dbPath == "" {
			return fmt.Errorf("no path library found.\n" +
				"Hint: run 'pl init' first")
		}
		sock := socketPath()
		if sock == "" {
			sock = rpc.ShortSocketPath(filepath.Dir(filepath.Dir(dbPath)))
		}

		// One daemon per database. The lock lives next to the db so a
		// second 'pl serve' fails fast instead of stealing the socket.
		daemonLock := flock.New(dbPath + ".daemon.lock")
		locked, err := daemonLock.TryLock()
		if err != nil {
			return fmt.Errorf("acquiring daemon lock: %w", err)
		}
		if !locked {
			return fmt.Errorf("another daemon is already serving %s", dbPath)
		}
		defer func() { _ = daemonLock.Unlock() }()

		store, err := sqlite.New(rootCtx, dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() { _ = store.Close() }()

		lib := library.New(store, library.WithClassifier(buildClassifier()))

		logPath, _ := cmd.Flags().GetString("log")
		if logPath == "" {
			logPath = filepath.Join(filepath.Dir(dbPath), "daemon.log")
		}

		rpc.ServerVersion = Version
		server := rpc.NewServer(sock, dbPath, lib, rpc.ServerConfig{
			MaxConns:       config.GetInt("daemon.max-connections"),
			RequestTimeout: config.GetDuration("daemon.request-timeout"),
			LogPath:        logPath,
			LogMaxSizeMB:   config.GetInt("daemon.log-max-size-mb"),
			LogMaxBackups:  config.GetInt("daemon.log-max-backups"),
		})

		go func() {
			<-rootCtx.Done()
			server.Stop()
		}()

		fmt.Printf("pl daemon %s serving %s on %s\n", Version, dbPath, sock)
		return server.Start()
	},
}

var daemonCmd = &cobra.Command{
	Use:     "daemon",
	GroupID: "library",
	Short:   "Inspect or stop the daemon",
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status for this workspace",
	RunE: func(cmd *cobra.Command, args []string) error {
		sock := socketPath()
		if sock == "" {
			return fmt.Errorf("no workspace found")
		}
		client, err := rpc.TryConnect(sock)
		if err != nil || client == nil {
			if outputResult(map[string]any{"running": false}) {
				return nil
			}
			fmt.Println("Daemon: not running")
			return nil
		}
		defer func() { _ = client.Close() }()

		status, err := client.Status()
		if err != nil {
			return err
		}
		if outputResult(status) {
			return nil
		}
		fmt.Printf("Daemon: running (pid %d, version %s)\n", status.PID, status.Version)
		fmt.Printf("  socket:      %s\n", status.SocketPath)
		fmt.Printf("  database:    %s\n", status.DatabasePath)
		fmt.Printf("  uptime:      %.0fs\n", status.UptimeSeconds)
		fmt.Printf("  connections: %d/%d\n", status.ActiveConns, status.MaxConns)
		return nil
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Ask the daemon to shut down",
	RunE: func(cmd *cobra.Command, args []string) error {
		sock := socketPath()
		if sock == "" {
			return fmt.Errorf("no workspace found")
		}
		client, err := rpc.TryConnect(sock)
		if err != nil || client == nil {
			fmt.Println("Daemon: not running")
			return nil
		}
		defer func() { _ = client.Close() }()

		if err := client.Shutdown(); err != nil {
			return err
		}
		fmt.Println("Daemon stopping.")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("log", "", "Daemon log file (default: .pathlib/daemon.log)")
	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(serveCmd, daemonCmd)
}
