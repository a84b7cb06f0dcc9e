// Package pkg provides the core libraries for Bedrock server version checking.
//
// # Overview
//
// Bedrockver queries the public download-links endpoint for the Minecraft
// Bedrock dedicated server, extracts version identifiers from the returned
// links, and reports the latest stable and preview releases. The pkg
// directory is organized into four areas:
//
//  1. [bedrock] - Domain logic (fetch client, version extraction, ranking)
//  2. [errors] - Coded errors shared by the library, CLI, and HTTP server
//  3. [buildinfo] - Build metadata injected at link time
//  4. [observability] - Optional instrumentation hooks
//
// # Architecture
//
// The typical data flow through bedrockver:
//
//	Download-links endpoint (JSON)
//	         ↓
//	    [bedrock] Client.Fetch (bounded retries, per-attempt timeout)
//	         ↓
//	    [bedrock] Extract (filter, parse, dedupe, sort)
//	         ↓
//	    Report / latest version string
//
// # Quick Start
//
// Fetch the latest stable version:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/minescope/bedrockver/pkg/bedrock"
//	)
//
//	client := bedrock.NewClient(bedrock.DefaultOptions())
//	version, err := client.LatestStable(context.Background())
//	if err != nil {
//	    return err
//	}
//	fmt.Println(version)
//
// Build a full channel report instead:
//
//	report, err := client.Report(ctx, false)
//	// report.Latest = "1.21.44", report.List = ascending records
//
// # Main Packages
//
// [bedrock] - The domain core. Client performs the single network request
// with bounded retries and a per-attempt deadline; Extract is a pure
// transform from the raw payload to deduplicated, classified, ascending
// version records. The two halves are separable so extraction stays
// testable without network access.
//
// [errors] - Error codes (NETWORK_ERROR, NOT_FOUND, INVALID_CHANNEL, ...)
// with wrapping and user-facing message helpers, plus input validation for
// channels and endpoint overrides.
//
// [buildinfo] - Version, commit, and build date variables stamped via
// ldflags, shared by the CLI --version output and the API health endpoint.
//
// [observability] - Hook interfaces (fetch attempts, extraction counts,
// served requests) with no-op defaults, so embedders can attach metrics
// without the library importing a metrics stack.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...            # All tests
//	go test ./pkg/bedrock/...    # Specific package
//
// [bedrock]: https://pkg.go.dev/github.com/minescope/bedrockver/pkg/bedrock
// [errors]: https://pkg.go.dev/github.com/minescope/bedrockver/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/minescope/bedrockver/pkg/buildinfo
// [observability]: https://pkg.go.dev/github.com/minescope/bedrockver/pkg/observability
package pkg
