// Package textutil provides human-readable formatting for sizes and durations
// shown in operator-facing output.
package textutil
