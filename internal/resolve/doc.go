// Package resolve drives the keep/delete decision for curated duplicate
// groups.
//
// The driver walks groups in descending aggregate-size order so the largest
// reclaim opportunities come first. It depends only on small interfaces for
// similarity verification, merge notification, operator decisions, and file
// removal, so each collaborator can be swapped in tests and at the CLI
// boundary (interactive vs automatic vs dry-run).
package resolve
