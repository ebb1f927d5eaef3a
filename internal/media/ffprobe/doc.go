// Package ffprobe shells out to ffprobe and parses its JSON output.
//
// The similarity verifier uses it to decide whether a path can be opened as a
// video stream before extracting a frame for comparison.
package ffprobe
