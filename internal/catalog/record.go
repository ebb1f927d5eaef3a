package catalog

import (
	"path/filepath"
)

// premiumDirName is the parent directory name that marks a premium record.
const premiumDirName = "premium"

// Record is an immutable view of one catalog row.
//
// SizeBytes and PerceptualHash are always populated; rows missing either are
// dropped at read time. Optional columns map to pointers so that an absent
// value is distinguishable from zero: aggregate filters must exclude records
// with a missing duration rather than count them as zero seconds.
type Record struct {
	ID              int64
	SourceModel     string
	Basename        string
	ParentDir       string
	SizeBytes       int64
	PerceptualHash  string
	DurationSeconds *float64

	// Passthrough technical metadata, carried for display only.
	VideoCodec  *string
	AudioCodec  *string
	VideoFormat *string
	Width       *int64
	Height      *int64
	BitRate     *int64
	FrameRate   *string
}

// Path returns the full filesystem path of the record.
func (r Record) Path() string {
	return filepath.Join(r.ParentDir, r.Basename)
}

// Premium reports whether the record lives directly inside a "premium"
// directory, the convention used as a keeper tie-break signal.
func (r Record) Premium() bool {
	return filepath.Base(r.ParentDir) == premiumDirName
}

// Duration returns the duration in seconds and whether it is known.
func (r Record) Duration() (float64, bool) {
	if r.DurationSeconds == nil {
		return 0, false
	}
	return *r.DurationSeconds, true
}
