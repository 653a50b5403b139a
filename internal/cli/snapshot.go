package cli

import (
	"context"
	"fmt"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sacsbd/sacs-tui/config"
	"github.com/sacsbd/sacs-tui/internal"
	"github.com/sacsbd/sacs-tui/internal/kpi"
	"github.com/sacsbd/sacs-tui/internal/present"
	"github.com/sacsbd/sacs-tui/internal/refresher"
)

var (
	snapshotAll  bool
	snapshotJSON bool
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Fetch the KPI counters once and print them",
	Long: `Fetch the KPI snapshot once and print the configured counters.

Examples:
  sacs-tui snapshot
  sacs-tui snapshot --server prod --json
  sacs-tui snapshot --all`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().BoolVar(&snapshotAll, "all", false, "fetch from every configured server")
	snapshotCmd.Flags().BoolVar(&snapshotJSON, "json", false, "print the raw snapshot as JSON")
}

// profileSnapshot is one server's fetch result.
type profileSnapshot struct {
	Server   string             `json:"server"`
	Counters map[string]float64 `json:"counters,omitempty"`
	Error    string             `json:"error,omitempty"`

	keys []string
	snap kpi.Snapshot
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return err
	}

	names := []string{serverName}
	if snapshotAll {
		names = cfg.ServerNames()
	}

	results, err := fetchSnapshots(cmd.Context(), cfg, names)
	if err != nil {
		return err
	}
	if snapshotJSON {
		return writeSnapshotsJSON(cmd.OutOrStdout(), results)
	}
	writeSnapshotsPlain(cmd.OutOrStdout(), results)
	return nil
}

// fetchSnapshots fetches every named profile concurrently. With a single
// profile its error is returned; with several, failures are recorded per
// profile so the rest still print.
func fetchSnapshots(ctx context.Context, cfg *config.Config, names []string) ([]profileSnapshot, error) {
	results := make([]profileSnapshot, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, n := range names {
		g.Go(func() error {
			name, server, err := cfg.Select(n)
			if err != nil {
				return err
			}
			res := profileSnapshot{Server: name, keys: server.KPIs}
			snap, err := fetchOne(gctx, server)
			if err != nil {
				if len(names) == 1 {
					return fmt.Errorf("%s: %w", name, err)
				}
				res.Error = err.Error()
			} else {
				res.snap = snap
				res.Counters = counters(snap, server.KPIs)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func fetchOne(ctx context.Context, server config.ServerConfig) (kpi.Snapshot, error) {
	svc, err := internal.Connect(server, userAgent())
	if err != nil {
		return nil, err
	}
	return svc.KPIs.FetchSnapshot(ctx)
}

// counters keeps the configured keys that carry a numeric total.
func counters(snap kpi.Snapshot, keys []string) map[string]float64 {
	out := make(map[string]float64, len(keys))
	for _, k := range keys {
		if rec, ok := snap[k]; ok && rec.Total != nil {
			out[k] = *rec.Total
		}
	}
	return out
}

func writeSnapshotsJSON(w io.Writer, results []profileSnapshot) error {
	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
	enc.SetIndent("", "  ")
	if len(results) == 1 {
		return enc.Encode(results[0])
	}
	return enc.Encode(results)
}

func writeSnapshotsPlain(w io.Writer, results []profileSnapshot) {
	for i, res := range results {
		if len(results) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", res.Server)
		}
		if res.Error != "" {
			fmt.Fprintf(w, "error: %s\n", res.Error)
			continue
		}
		refresher.Apply(res.snap, present.NewPlain(w, res.keys))
	}
}
