// Package template turns template files into generators. A generator named
// "component" resolves to the template "component.tpl" rendered with the
// current data, raw data, entry key, data file path and extras in scope.
package template
