// Package source describes where merge documents come from and decodes them
// into data trees. JSON, YAML and HCL payloads are supported.
package source
