// Package utils holds tiny helpers shared across layers. Nothing in here
// knows about the domain.
package utils

import "strconv"

// AtoiDefault parses s as an int, falling back to def when s is empty or
// not a valid integer.
//
// Example:
//
//	n := utils.AtoiDefault("3", 1)  // returns 3
//	n = utils.AtoiDefault("", 50)   // returns 50
//	n = utils.AtoiDefault("abc", 5) // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
