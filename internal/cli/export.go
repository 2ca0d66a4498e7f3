package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"confprog/internal/calendar"
	"confprog/internal/program"
)

var (
	flagExportSession string
	flagExportOut     string
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export stored sessions as an iCalendar file",
		RunE:  runExport,
	}
	cmd.Flags().StringVar(&flagExportSession, "session", "", "Export only the session with this source id")
	cmd.Flags().StringVar(&flagExportOut, "out", "", "Output file (default stdout)")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	p, err := loadProgram(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	sessions := p.Sessions
	if flagExportSession != "" {
		s := p.Session(flagExportSession)
		if s == nil {
			return fmt.Errorf("session not found: %s", flagExportSession)
		}
		sessions = []*program.Session{s}
	}

	ics := calendar.GenerateICS(p, sessions)

	if flagExportOut == "" {
		fmt.Fprint(os.Stdout, ics)
		return nil
	}
	if err := os.WriteFile(flagExportOut, []byte(ics), 0644); err != nil {
		return fmt.Errorf("writing calendar: %w", err)
	}
	fmt.Printf("Exported %d sessions to %s\n", len(sessions), flagExportOut)
	return nil
}
