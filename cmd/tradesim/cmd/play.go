package cmd

import (
	"fmt"

	"github.com/rustyeddy/tradesim/tui"
	"github.com/spf13/cobra"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play an interactive session in the terminal",
	Long: `Start the interactive trading session.

Keys:
  up/down  select a stock
  b / s    buy or sell the selected stock (enter the share count, enter submits, esc cancels)
  n        advance to the next day
  a        show or hide analytics
  e        export CSV files to export.dir
  q        quit

Logs go to tradesim.log unless --log-file is set.`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) (err error) {
	s, err := newSession(cmd, "tradesim.log")
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	m := tui.New(s.engine, tui.DirExporter(s.cfg.Export.Dir))
	if err := tui.Run(m); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Session %s ended on day %d.\n", s.runID, s.engine.Day())
	return nil
}
