package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"confprog/internal/filter"
	"confprog/internal/program"
)

var (
	flagSessionsFind     string
	flagSessionsRoom     string
	flagSessionsSpeaker  string
	flagSessionsKind     string
	flagSessionsFrom     string
	flagSessionsTo       string
	flagSessionsWeekends bool
	flagSessionsFormat   string
)

func newSessionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sessions",
		Short: "List stored sessions",
		RunE:  runSessions,
	}

	cmd.Flags().StringVar(&flagSessionsFind, "find", "", "Match title or description (case-insensitive substring)")
	cmd.Flags().StringVar(&flagSessionsRoom, "room", "", "Match room name")
	cmd.Flags().StringVar(&flagSessionsSpeaker, "speaker", "", "Match speaker name")
	cmd.Flags().StringVar(&flagSessionsKind, "kind", "", "Filter by kind: session or workshop")
	cmd.Flags().StringVar(&flagSessionsFrom, "from", "", "Earliest start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&flagSessionsTo, "to", "", "Latest start date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&flagSessionsWeekends, "weekends", false, "Only sessions starting on a weekend")
	cmd.Flags().StringVar(&flagSessionsFormat, "format", "table", "Output format: table, csv, or json")

	return cmd
}

func runSessions(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := ParseFormat(flagSessionsFormat)
	if err != nil {
		return err
	}

	p, err := loadProgram(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	f, err := sessionsFilter(p)
	if err != nil {
		return err
	}

	return WriteSessions(os.Stdout, p, f.Apply(p), format)
}

func sessionsFilter(p *program.Program) (*filter.Filter, error) {
	f := filter.New()
	f.Find = flagSessionsFind
	if flagSessionsRoom != "" {
		f.Rooms = []string{flagSessionsRoom}
	}
	if flagSessionsSpeaker != "" {
		f.Speakers = []string{flagSessionsSpeaker}
	}
	if flagSessionsKind != "" {
		f.Kinds = []string{flagSessionsKind}
	}
	f.WeekendsOnly = flagSessionsWeekends

	loc := time.UTC
	if l, err := time.LoadLocation(p.Timezone); err == nil {
		loc = l
	}
	if flagSessionsFrom != "" {
		day, err := time.ParseInLocation("2006-01-02", flagSessionsFrom, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --from date: %w", err)
		}
		f.From = &day
	}
	if flagSessionsTo != "" {
		day, err := time.ParseInLocation("2006-01-02", flagSessionsTo, loc)
		if err != nil {
			return nil, fmt.Errorf("invalid --to date: %w", err)
		}
		// Inclusive day bound: anything starting before the next midnight.
		end := day.AddDate(0, 0, 1).Add(-time.Second)
		f.To = &end
	}
	return f, nil
}
