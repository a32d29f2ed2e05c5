package pongo

import (
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/flosch/pongo2/v6"
	"github.com/microcosm-cc/bluemonday"
)

var (
	filtersOnce sync.Once
	ugcPolicy   *bluemonday.Policy
	stripPolicy *bluemonday.Policy
)

// registerFilters installs the code generation filters once per process.
// Filters pongo2 already knows under the same name are left alone.
func registerFilters() {
	filtersOnce.Do(func() {
		ugcPolicy = bluemonday.UGCPolicy()
		stripPolicy = bluemonday.StrictPolicy()

		filters := map[string]pongo2.FilterFunction{
			"trim":       stringFilter(strings.TrimSpace),
			"upperfirst": stringFilter(func(s string) string { return mapFirst(s, unicode.ToUpper) }),
			"lowerfirst": stringFilter(func(s string) string { return mapFirst(s, unicode.ToLower) }),
			"quote":      stringFilter(strconv.Quote),
			"plaintext": stringFilter(func(s string) string {
				return strings.TrimSpace(stripPolicy.Sanitize(s))
			}),
			"sanitize": filterSanitize,
		}
		for name, fn := range filters {
			if !pongo2.FilterExists(name) {
				_ = pongo2.RegisterFilter(name, fn)
			}
		}
	})
}

func stringFilter(fn func(string) string) pongo2.FilterFunction {
	return func(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		return pongo2.AsValue(fn(in.String())), nil
	}
}

// filterSanitize keeps user supplied markup safe to embed in HTML output.
// The result is marked safe so autoescape does not escape it twice.
func filterSanitize(in *pongo2.Value, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
	return pongo2.AsSafeValue(ugcPolicy.Sanitize(in.String())), nil
}

// mapFirst applies fn to the first non space rune of s.
func mapFirst(s string, fn func(rune) rune) string {
	for i, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		return s[:i] + string(fn(r)) + s[i+utf8.RuneLen(r):]
	}
	return s
}
