// Package similarity verifies that files in a duplicate group actually look
// alike before anything is deleted.
//
// The check is a cheap proxy, not an exact comparison: for videos only the
// first decodable frame of each file is compared, using mean squared error
// against a configured threshold. Every failure mode (unreadable file,
// unsupported format, mixed content types) degrades to a "not matching"
// verdict so callers never delete on a broken comparison.
package similarity
