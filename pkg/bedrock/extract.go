package bedrock

import (
	"strconv"
	"strings"
)

// Markers identifying dedicated-server archives among the download links.
const (
	archiveSuffix = ".zip"
	serverMarker  = "server-1"
	versionMarker = "server-"
	previewMarker = "preview"
)

// Extract pulls version records out of a decoded download-links payload.
//
// The expected shape is { "result": { "links": [ { "downloadType": ...,
// "downloadUrl": ... } ] } }; anything structurally off (missing result,
// links not a list, entries without URLs) contributes nothing rather than
// failing. Links that are not dedicated-server zip archives or whose
// version text is malformed are dropped. The first occurrence of a version
// string wins; later duplicates are dropped even when their channel
// classification differs.
func Extract(payload any) []Record {
	records, _ := extract(payload)
	return records
}

// extract additionally reports how many link entries were inspected.
func extract(payload any) ([]Record, int) {
	links := extractLinks(payload)
	records := make([]Record, 0, len(links))
	seen := make(map[string]bool, len(links))

	for _, link := range links {
		rec, ok := parseLink(extractString(link, "downloadType"), extractString(link, "downloadUrl"))
		if !ok || seen[rec.Version] {
			continue
		}
		seen[rec.Version] = true
		records = append(records, rec)
	}
	return records, len(links)
}

// parseLink classifies one download link. ok is false when the link does
// not point at a dedicated-server archive or its version text does not
// parse.
func parseLink(label, url string) (rec Record, ok bool) {
	if !strings.HasSuffix(url, archiveSuffix) || !strings.Contains(url, serverMarker) {
		return Record{}, false
	}

	// Version text sits between the last "server-" and the ".zip" suffix.
	idx := strings.LastIndex(url, versionMarker)
	candidate := strings.TrimSuffix(url[idx+len(versionMarker):], archiveSuffix)

	parts := strings.Split(candidate, ".")
	if len(parts) < 3 {
		return Record{}, false
	}
	nums := make([]int, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Record{}, false
		}
		nums[i] = n
	}

	rec = Record{
		Version: candidate,
		Major:   nums[0],
		Minor:   nums[1],
		Patch:   nums[2],
		Preview: strings.Contains(strings.ToLower(label), previewMarker),
	}
	if len(nums) > 3 {
		rec.Build = nums[3]
	}
	return rec, true
}

// extractLinks navigates payload down to the list of link entries.
// Returns nil when any level is missing or has the wrong shape.
func extractLinks(payload any) []any {
	root, ok := payload.(map[string]any)
	if !ok {
		return nil
	}
	result, ok := root["result"].(map[string]any)
	if !ok {
		return nil
	}
	links, ok := result["links"].([]any)
	if !ok {
		return nil
	}
	return links
}

// extractString reads a string field from a loosely typed JSON object.
// Returns "" for missing fields and non-string values.
func extractString(v any, field string) string {
	if m, ok := v.(map[string]any); ok {
		if s, ok := m[field].(string); ok {
			return s
		}
	}
	return ""
}
