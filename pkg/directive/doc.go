// Package directive extracts generation settings from the comment lines of a
// data file. A directive line looks like
//
//	# ymlgen:<directive> <value>
//
// Directive lines are removed from the body before the data is parsed.
package directive
