package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"hdf-eco-tool/internal/config"
	"hdf-eco-tool/internal/database"
	"hdf-eco-tool/internal/toolerr"
)

const dateLayout = "2006-01-02"

type queryOptions struct {
	dbPath     string
	recent     int
	module     string
	action     string
	path       string
	since      string
	largest    int
	stats      bool
	days       int
	prune      int
	dbStats    bool
	jsonOutput bool
}

// NewQueryCommand creates the hdf-delete-query command
func NewQueryCommand() *cobra.Command {
	opts := &queryOptions{}
	cmd := &cobra.Command{
		Use:   "hdf-delete-query",
		Short: "Query the history of hdf-delete runs",
		Example: `  hdf-delete-query --recent 10            # 10 most recent operations
  hdf-delete-query --module usb            # everything done while deleting usb
  hdf-delete-query --action ERROR          # only failures
  hdf-delete-query --path '%/Kconfig'      # operations on Kconfig files
  hdf-delete-query --since 2026-01-01      # operations since a date
  hdf-delete-query --largest 10            # 10 largest removals
  hdf-delete-query --stats --days 7        # statistics for the last week
  hdf-delete-query --prune 90              # drop records older than 90 days`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runQuery(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.dbPath, "db", config.Default().History.DatabasePath, "Path to history database")
	f.IntVar(&opts.recent, "recent", 0, "Show N most recent operations")
	f.StringVar(&opts.module, "module", "", "Filter by module")
	f.StringVar(&opts.action, "action", "", "Filter by action (DELETE, EDIT, SKIP, DRY_RUN, ERROR)")
	f.StringVar(&opts.path, "path", "", "Filter by path pattern (SQL LIKE syntax)")
	f.StringVar(&opts.since, "since", "", "Show operations since a date (YYYY-MM-DD)")
	f.IntVar(&opts.largest, "largest", 0, "Show N removals that freed the most space")
	f.BoolVar(&opts.stats, "stats", false, "Show operation statistics")
	f.IntVar(&opts.days, "days", 30, "Number of days for statistics")
	f.IntVar(&opts.prune, "prune", 0, "Delete records older than N days and vacuum")
	f.BoolVar(&opts.dbStats, "db-stats", false, "Show database size and record counts")
	f.BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	cmd.SetFlagErrorFunc(flagError)
	return cmd
}

func runQuery(cmd *cobra.Command, opts *queryOptions) error {
	out := cmd.OutOrStdout()

	db, err := database.NewHistoryDB(opts.dbPath)
	if err != nil {
		return fmt.Errorf("open database %s: %w", opts.dbPath, err)
	}
	defer db.Close()

	switch {
	case opts.stats:
		return showStats(out, db, opts.days, opts.jsonOutput)
	case opts.dbStats:
		return showDatabaseStats(out, db, opts.jsonOutput)
	case opts.prune > 0:
		return prune(out, db, opts.prune)
	case opts.recent > 0:
		return show(out, opts.jsonOutput, "", func() ([]database.Event, error) {
			return db.GetRecentEvents(opts.recent)
		})
	case opts.module != "":
		return show(out, opts.jsonOutput, "Operations for module: "+opts.module, func() ([]database.Event, error) {
			return db.GetEventsByModule(opts.module)
		})
	case opts.action != "":
		return show(out, opts.jsonOutput, "Operations with action: "+opts.action, func() ([]database.Event, error) {
			return db.GetEventsByAction(opts.action)
		})
	case opts.path != "":
		return show(out, opts.jsonOutput, "Operations matching path pattern: "+opts.path, func() ([]database.Event, error) {
			return db.GetEventsByPath(opts.path)
		})
	case opts.largest > 0:
		return show(out, opts.jsonOutput, fmt.Sprintf("Largest %d removals:", opts.largest), func() ([]database.Event, error) {
			return db.GetLargestEvents(opts.largest)
		})
	case opts.since != "":
		start, err := time.ParseInLocation(dateLayout, opts.since, time.Local)
		if err != nil {
			return toolerr.Wrap(toolerr.MessageFormatWrong, err, "--since %q", opts.since)
		}
		return show(out, opts.jsonOutput, "Operations since "+opts.since, func() ([]database.Event, error) {
			return db.GetEventsByDateRange(start, time.Now())
		})
	default:
		_ = cmd.Usage()
		return toolerr.New(toolerr.MessageFormatWrong, "no query given")
	}
}

func writeJSON(out io.Writer, v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func show(out io.Writer, jsonOutput bool, title string, query func() ([]database.Event, error)) error {
	events, err := query()
	if err != nil {
		return fmt.Errorf("query history: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, events)
	}
	if title != "" {
		fmt.Fprintf(out, "%s\n\n", title)
	}
	printEvents(out, events)
	return nil
}

func showStats(out io.Writer, db *database.HistoryDB, days int, jsonOutput bool) error {
	stats, err := db.GetEventStats(days)
	if err != nil {
		return fmt.Errorf("get statistics: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, stats)
	}

	fmt.Fprintf(out, "Operation Statistics (Last %d days)\n", days)
	fmt.Fprintf(out, "Period: %s to %s\n\n", stats.StartDate.Format(dateLayout), stats.EndDate.Format(dateLayout))
	fmt.Fprintf(out, "Deleted:  %d\n", stats.TotalDeleted)
	fmt.Fprintf(out, "Edited:   %d\n", stats.TotalEdited)
	fmt.Fprintf(out, "Skipped:  %d\n", stats.TotalSkipped)
	fmt.Fprintf(out, "Dry run:  %d\n", stats.TotalDryRun)
	fmt.Fprintf(out, "Errors:   %d\n", stats.TotalErrors)
	fmt.Fprintf(out, "Freed:    %s\n", formatBytes(stats.BytesFreed))

	printCounts(out, "By Action Type:", stats.ByActionType)
	printCounts(out, "By Module:", stats.ByModule)
	return nil
}

func printCounts(out io.Writer, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(out, "\n%s\n", title)
	for _, k := range keys {
		fmt.Fprintf(out, "  %-15s %d\n", k, counts[k])
	}
}

func showDatabaseStats(out io.Writer, db *database.HistoryDB, jsonOutput bool) error {
	stats, err := db.GetDatabaseStats()
	if err != nil {
		return fmt.Errorf("get database stats: %w", err)
	}
	if jsonOutput {
		return writeJSON(out, stats)
	}

	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(out, "%-20s %v\n", k, stats[k])
	}
	return nil
}

func prune(out io.Writer, db *database.HistoryDB, days int) error {
	n, err := db.DeleteOldRecords(days)
	if err != nil {
		return fmt.Errorf("prune history: %w", err)
	}
	if err := db.Vacuum(); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	fmt.Fprintf(out, "Deleted %d records older than %d days\n", n, days)
	return nil
}

func printEvents(out io.Writer, events []database.Event) {
	if len(events) == 0 {
		fmt.Fprintln(out, "No records found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTimestamp\tAction\tType\tModule\tDriver\tObject\tSize\tPath")
	_, _ = fmt.Fprintln(w, "--\t---------\t------\t----\t------\t------\t------\t----\t----")

	for _, e := range events {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.ActionType,
			dash(e.Module), dash(e.Driver), e.ObjectType, formatBytes(e.Size), e.Path)
	}
	_ = w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
