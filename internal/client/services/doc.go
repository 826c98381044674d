// Package services holds the use cases the CLI drives: capturing an entry
// from user input and reading the recent list back.
package services
