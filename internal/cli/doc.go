// Package cli is responsible for parsing command-line arguments, validating
// user input, and running the data files it finds. It translates flags into a
// Config and failures into process exit codes.
package cli
