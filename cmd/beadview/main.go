package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joshharrison/beadview/internal/bd"
	"github.com/joshharrison/beadview/internal/config"
	"github.com/joshharrison/beadview/internal/graph"
	"github.com/joshharrison/beadview/internal/layout"
	"github.com/joshharrison/beadview/internal/layout/layered"
	"github.com/joshharrison/beadview/internal/poller"
	"github.com/joshharrison/beadview/internal/server"
	"github.com/joshharrison/beadview/internal/ui"
	"github.com/joshharrison/beadview/internal/view"
)

var (
	flagWorkspace string
	flagDB        string
	flagBdBin     string
	flagPort      int
	flagInterval  string
	flagRankDir   string
	flagJSON      bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "beadview",
		Short: "Live dependency-graph views over a Beads task database",
		Long: `Beadview polls a Beads database, normalizes task statuses, builds a
dependency graph with layered layout, and serves it over HTTP alongside
the tracker's claim/complete/create operations. It also renders one-shot
graphs and change feeds in the terminal.`,
	}

	rootCmd.PersistentFlags().StringVar(&flagWorkspace, "workspace", "", "Workspace directory (default: current directory)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "Beads database path (default: auto-detect under .beads/)")
	rootCmd.PersistentFlags().StringVar(&flagBdBin, "bd-bin", "", "bd binary to invoke (default: bd on PATH)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "Machine-readable JSON output")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(graphCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(statusCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", ui.Red("Error:"), err)
		os.Exit(1)
	}
}

// loadConfig layers flags over file and env configuration.
func loadConfig() (config.Config, error) {
	workspace := flagWorkspace
	if workspace == "" {
		workspace, _ = os.Getwd()
	}
	config.LoadEnvFiles(workspace)

	cfg, err := config.Load(workspace)
	if err != nil {
		return cfg, err
	}
	if cfg.Workspace == "" {
		cfg.Workspace = workspace
	}
	if flagDB != "" {
		cfg.DbPath = flagDB
	}
	if flagBdBin != "" {
		cfg.BdBin = flagBdBin
	}
	if flagPort != 0 {
		cfg.Port = flagPort
	}
	if flagRankDir != "" {
		cfg.RankDir = flagRankDir
	}
	if flagInterval != "" {
		d, err := time.ParseDuration(flagInterval)
		if err != nil {
			return cfg, fmt.Errorf("parse interval: %w", err)
		}
		cfg.PollInterval = config.Duration(d)
	}
	return cfg, nil
}

// buildSource wires the SQLite fast path with CLI fallback. The returned
// client is always usable for write operations even when no database file
// was found for direct reads.
func buildSource(cfg config.Config) (bd.Source, *bd.Client) {
	client := bd.NewClient(cfg.BdBin, cfg.DbPath)

	dbPath := cfg.DbPath
	if dbPath == "" {
		found, err := bd.FindDB(cfg.Workspace)
		if err == nil {
			dbPath = found
		}
	}

	var store *bd.Store
	if dbPath != "" {
		s, err := bd.OpenStore(dbPath)
		if err != nil {
			log.Printf("sqlite fast path unavailable, using bd CLI: %v", err)
		} else {
			store = s
		}
	}
	return &bd.Fallback{Store: store, Client: client}, client
}

func viewConfig(cfg config.Config) view.Config {
	var nodeType func(bd.Task) string
	if cfg.TypeByKind {
		nodeType = func(t bd.Task) string {
			if t.Type != "" {
				return t.Type
			}
			return graph.DefaultNodeType
		}
	}
	return view.Config{
		Build: graph.Config{
			NodeType:          nodeType,
			AnimateReadyEdges: cfg.AnimateReady,
		},
		RankDir: layout.RankDir(cfg.RankDir),
	}
}

func newView(cfg config.Config) *view.View {
	return view.NewEach(func() layout.Engine { return layered.New() }, viewConfig(cfg))
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintf(os.Stderr, "\n%s\n", ui.Yellow("Received interrupt, shutting down..."))
		cancel()
	}()
	return ctx, cancel
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Poll the database and serve the live graph over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			source, client := buildSource(cfg)
			srv := server.New(newView(cfg), client)

			url, err := srv.Start(cfg.Port)
			if err != nil {
				return err
			}
			fmt.Printf("%s %s\n", ui.BoldCyan("Beadview:"), url)

			p := poller.New(source, srv.OnSnapshot)
			p.Interval = time.Duration(cfg.PollInterval)

			ctx, cancel := signalContext()
			defer cancel()
			p.Run(ctx)
			return nil
		},
	}

	cmd.Flags().IntVar(&flagPort, "port", 0, "HTTP port (default 7171)")
	cmd.Flags().StringVar(&flagInterval, "interval", "", "Poll interval (e.g. 2s)")
	cmd.Flags().StringVar(&flagRankDir, "rankdir", "", "Layout direction: TB, BT, LR, RL")

	return cmd
}

func graphCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the dependency graph once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			source, _ := buildSource(cfg)
			tasks, err := source.AllTasks()
			if err != nil {
				return fmt.Errorf("fetch tasks: %w", err)
			}

			frame, err := newView(cfg).Update(tasks)
			if err != nil {
				return err
			}

			if flagJSON {
				return outputJSON(frame)
			}
			ui.PrintGraph(os.Stdout, frame)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagRankDir, "rankdir", "", "Layout direction: TB, BT, LR, RL")

	return cmd
}

func watchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Poll the database and print a change feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			source, _ := buildSource(cfg)
			v := newView(cfg)

			first := true
			p := poller.New(source, func(tasks []bd.Task) {
				frame, err := v.Update(tasks)
				if err != nil {
					log.Printf("snapshot dropped: %v", err)
					return
				}
				if first {
					// Everything is "created" on the first poll; show the
					// graph instead of a wall of change lines.
					ui.PrintGraph(os.Stdout, frame)
					first = false
					return
				}
				ui.PrintChanges(os.Stdout, frame)
			})
			p.Interval = time.Duration(cfg.PollInterval)

			ctx, cancel := signalContext()
			defer cancel()
			p.Run(ctx)
			return nil
		},
	}

	cmd.Flags().StringVar(&flagInterval, "interval", "", "Poll interval (e.g. 2s)")

	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show task counts by status",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			source, client := buildSource(cfg)
			counts, err := client.Stats()
			if err != nil {
				// bd stats unavailable; roll up a snapshot ourselves.
				tasks, terr := source.AllTasks()
				if terr != nil {
					return fmt.Errorf("fetch tasks: %w", terr)
				}
				counts = bd.CountStatuses(tasks)
			}

			if flagJSON {
				return outputJSON(counts)
			}
			fmt.Printf("%s %s tasks\n", ui.BoldCyan("Total:"), ui.Bold(counts.Total))
			fmt.Printf("  %s %d\n", ui.Cyan("ready:"), counts.Ready)
			fmt.Printf("  %s %d\n", ui.Yellow("in_progress:"), counts.InProgress)
			fmt.Printf("  %s %d\n", ui.Green("completed:"), counts.Completed)
			return nil
		},
	}
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
