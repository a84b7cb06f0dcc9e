package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/minescope/bedrockver/pkg/bedrock"
)

// listCommand creates the list command for printing every known version.
func (c *CLI) listCommand() *cobra.Command {
	var (
		preview bool
		jsonOut bool
		fetch   fetchFlags
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every version offered for download",
		Long: `List every dedicated server version currently offered for download,
oldest first.

The stable channel is listed by default; pass --preview to list the
preview channel instead. Use --json for machine-readable output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := fetch.resolveOptions(cmd)
			if err != nil {
				return err
			}
			ctx := withLogger(cmd.Context(), c.Logger)
			return c.runList(ctx, opts, preview, jsonOut)
		},
	}

	fetch.register(cmd)
	cmd.Flags().BoolVar(&preview, "preview", false, "list the preview channel instead of stable")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "emit the version list as JSON")

	return cmd
}

// runList fetches the requested channel and prints each version.
func (c *CLI) runList(ctx context.Context, opts bedrock.Options, preview, jsonOut bool) error {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)
	client := c.newClient(opts)

	spinner := newSpinner(ctx, "Fetching version list...")
	watchFetch(spinner, "Fetching version list")
	spinner.Start()

	var records []bedrock.Record
	var err error
	if preview {
		records, err = client.AllPreview(ctx)
	} else {
		records, err = client.AllStable(ctx)
	}
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Version list fetch failed")
		return err
	}
	spinner.Stop()

	if jsonOut {
		return printJSON(os.Stdout, records)
	}

	prog.done(fmt.Sprintf("Fetched %d %s versions", len(records), channelName(preview)))

	if len(records) == 0 {
		printWarning("No %s versions found", channelName(preview))
		return nil
	}

	fmt.Println(renderVersionTable(records))
	return nil
}

// renderVersionTable renders records as a bordered table, oldest first.
func renderVersionTable(records []bedrock.Record) string {
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{r.Short(), strconv.Itoa(r.Build), channelName(r.Preview)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Version", "Build", "Channel").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			switch col {
			case 0:
				return StyleHighlight
			case 1:
				return StyleNumber
			default:
				if row >= 0 && row < len(records) && records[row].Preview {
					return StyleWarning
				}
				return StyleSuccess
			}
		})

	return t.Render()
}
