// Package cli implements the socialkit command line: generating a plan for a
// business description, printing the assembled prompt and showing the
// effective configuration.
package cli
