package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var flagSpeakersFormat string

func newSpeakersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "speakers",
		Short: "List stored speakers",
		RunE:  runSpeakers,
	}
	cmd.Flags().StringVar(&flagSpeakersFormat, "format", "table", "Output format: table, csv, or json")
	return cmd
}

func runSpeakers(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, err := ParseFormat(flagSpeakersFormat)
	if err != nil {
		return err
	}

	p, err := loadProgram(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	return WriteSpeakers(os.Stdout, p, format)
}
