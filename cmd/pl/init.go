package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jotpotato/pathlib/internal/storage/sqlite"
	"github.com/jotpotato/pathlib/internal/workspace"
)

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "library",
	Short:   "Create a path library in the current directory",
	Long: `Create a .pathlib directory with a SQLite database and a starter
config.yaml. Safe to run twice; an existing library is left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return err
		}
		dir := filepath.Join(cwd, workspace.DirName)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}

		dbPath := filepath.Join(dir, workspace.DBFileName)
		created := false
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			created = true
		}
		s, err := sqlite.New(rootCtx, dbPath)
		if err != nil {
			return fmt.Errorf("initializing database: %w", err)
		}
		_ = s.Close()

		configPath := filepath.Join(dir, "config.yaml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			if err := os.WriteFile(configPath, []byte(defaultConfigYAML), 0o644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}
		}

		if outputResult(map[string]any{"db": dbPath, "created": created}) {
			return nil
		}
		if created {
			fmt.Printf("Initialized path library in %s\n", dir)
		} else {
			fmt.Printf("Path library already exists in %s\n", dir)
		}
		return nil
	},
}

const defaultConfigYAML = `# pl configuration. All keys can also be set via PL_* environment
# variables (PL_NO_DAEMON, PL_ACTOR, ...), which take precedence.

# actor: alice
# no-daemon: false
# organization: ""

# daemon:
#   max-connections: 50
#   request-timeout: 30s

# assistant:
#   keywords-file: ""   # TOML file of per-category keyword overrides
#   render: true        # render assistant answers as markdown

# list:
#   limit: 0            # default list page size, 0 = unlimited
`

func init() {
	rootCmd.AddCommand(initCmd)
}
