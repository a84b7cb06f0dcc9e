package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/minescope/bedrockver/pkg/bedrock"
)

// runLatest fetches the requested channel and prints its latest version.
// Plain output is just the version string so scripts can consume it directly;
// --json emits the full channel report instead.
func (c *CLI) runLatest(ctx context.Context, opts bedrock.Options, preview, jsonOut bool) error {
	logger := loggerFromContext(ctx)
	client := c.newClient(opts)

	checking := fmt.Sprintf("Checking %s channel", channelName(preview))
	spinner := newSpinner(ctx, checking+"...")
	watchFetch(spinner, checking)
	spinner.Start()

	report, err := client.Report(ctx, preview)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
			return ctx.Err()
		}
		spinner.StopWithError("Version check failed")
		return err
	}
	spinner.Stop()

	logger.Debug("version check complete",
		"channel", channelName(preview),
		"latest", report.Latest,
		"count", len(report.List))

	if jsonOut {
		return printJSON(os.Stdout, report)
	}
	fmt.Println(report.Latest)
	return nil
}

// printJSON writes v to w as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
