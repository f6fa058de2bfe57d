package neoclock

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dasdy/neoclock/db"
	"github.com/spf13/cobra"
)

var (
	historyJournal string
	historyLimit   int
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// historyCmd represents the history command.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled control messages",
	RunE: func(cmd *cobra.Command, _ []string) error {
		storage, err := db.ConnectDB(historyJournal)
		if err != nil {
			return err
		}
		defer storage.Close()

		entries, err := storage.Recent(historyLimit)
		if err != nil {
			return err
		}

		total, err := storage.Count()
		if err != nil {
			return err
		}

		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("#", "TIME", "TYPE", "WIDGET", "MESSAGE").
			StyleFunc(func(row, _ int) lipgloss.Style {
				if row == table.HeaderRow {
					return headerStyle
				}

				return cellStyle
			})

		for _, e := range entries {
			body, err := e.Envelope.Encode()
			if err != nil {
				return err
			}

			t.Row(strconv.FormatInt(e.ID, 10), e.At.Local().Format(time.DateTime),
				e.Envelope.Type, strconv.Itoa(e.Envelope.ID), string(body))
		}

		fmt.Fprintln(cmd.OutOrStdout(), t.Render())
		fmt.Fprintf(cmd.OutOrStdout(), "%d of %d messages\n", len(entries), total)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historyJournal, "journal", "./neoclock.sqlite", "Journal file written by run --journal")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of messages to show")
}
