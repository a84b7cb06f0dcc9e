// Package bedrock reports released versions of the Minecraft Bedrock
// dedicated server.
//
// # Overview
//
// The package fetches the public download-links document, extracts the
// dedicated-server archive links, and turns them into ranked version
// records split across the stable and preview channels:
//
//	client := bedrock.NewClient(bedrock.DefaultOptions())
//	latest, err := client.LatestStable(ctx)   // "1.21.44"
//	all, err := client.AllStable(ctx)         // every stable release, ascending
//
// # Fetch Policy
//
// [Client] makes a single GET request per call with a bounded retry loop:
// every attempt gets its own deadline, every failure (transport error,
// non-2xx status, undecodable body) waits out the configured cooldown and
// retries until the attempt budget is spent. See [Options] for the knobs
// and [DefaultOptions] for the standard policy.
//
// # Pure Transforms
//
// Everything between the raw payload and the final answer is exposed as
// pure functions so it can be exercised without a network: [Extract] turns
// a decoded payload into records, [Partition] splits and sorts the
// channels, [Latest] picks the newest record, and [BuildReport] assembles
// the channel report served by the CLI and the HTTP API.
package bedrock
