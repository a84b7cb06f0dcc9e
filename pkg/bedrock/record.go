package bedrock

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/minescope/bedrockver/pkg/errors"
)

// Record is one release extracted from the download-links document.
// Version keeps the identifier exactly as it appears in the download URL;
// the numeric components drive ordering. Build is 0 when the URL carries
// only three components.
type Record struct {
	Version string `json:"version"`
	Major   int    `json:"major"`
	Minor   int    `json:"minor"`
	Patch   int    `json:"patch"`
	Build   int    `json:"build"`
	Preview bool   `json:"preview"`
}

// Compare orders records numerically by (major, minor, patch, build).
// It returns a negative number when r is older than other, zero when the
// components are equal, and a positive number when r is newer.
func (r Record) Compare(other Record) int {
	if c := cmp.Compare(r.Major, other.Major); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Minor, other.Minor); c != 0 {
		return c
	}
	if c := cmp.Compare(r.Patch, other.Patch); c != 0 {
		return c
	}
	return cmp.Compare(r.Build, other.Build)
}

// Short returns the three-component form "major.minor.patch".
// The build number is dropped, matching how releases are announced.
func (r Record) Short() string {
	return fmt.Sprintf("%d.%d.%d", r.Major, r.Minor, r.Patch)
}

// String returns the full version identifier.
func (r Record) String() string {
	return r.Version
}

// Sort orders records ascending, oldest release first.
func Sort(records []Record) {
	slices.SortFunc(records, Record.Compare)
}

// Partition splits records into the stable and preview channels, each
// sorted ascending. Both results are non-nil even when empty.
func Partition(records []Record) (stable, preview []Record) {
	stable = make([]Record, 0, len(records))
	preview = make([]Record, 0, len(records))
	for _, r := range records {
		if r.Preview {
			preview = append(preview, r)
		} else {
			stable = append(stable, r)
		}
	}
	Sort(stable)
	Sort(preview)
	return stable, preview
}

// Latest returns the newest record. ok is false when records is empty.
func Latest(records []Record) (latest Record, ok bool) {
	if len(records) == 0 {
		return Record{}, false
	}
	return slices.MaxFunc(records, Record.Compare), true
}

// Report is the document produced for one release channel, used by both
// the CLI's JSON output and the HTTP API.
type Report struct {
	Latest  string   `json:"latest"`
	List    []Record `json:"list"`
	Preview bool     `json:"preview"`
}

// BuildReport assembles the report for one channel from its records.
// The records are sorted in place. Returns a NOT_FOUND error when records
// is empty.
func BuildReport(records []Record, preview bool) (*Report, error) {
	latest, ok := Latest(records)
	if !ok {
		return nil, errNoVersions(preview)
	}
	Sort(records)
	return &Report{
		Latest:  latest.Short(),
		List:    records,
		Preview: preview,
	}, nil
}

func errNoVersions(preview bool) error {
	return errors.New(errors.ErrCodeNotFound, "no %s versions found", channelName(preview))
}

func channelName(preview bool) string {
	if preview {
		return errors.ChannelPreview
	}
	return errors.ChannelStable
}
