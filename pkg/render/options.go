package render

// AutoTrim selects how whitespace around generated text is trimmed.
type AutoTrim string

const (
	// AutoTrimNone writes everything verbatim.
	AutoTrimNone AutoTrim = ""
	// AutoTrimAll trims every computed value of a Template call. Literal
	// fragments are never trimmed.
	AutoTrimAll AutoTrim = "all"
	// AutoTrimStartEnd trims the leading and trailing whitespace of the whole
	// rendered artifact.
	AutoTrimStartEnd AutoTrim = "start-end"
)

// Options is the per render pass options record. A single record is shared by
// every context writing into the same Sink.
type Options struct {
	AutoTrim AutoTrim
}

// Option mutates Options. Options are applied on top of the current record, so
// fields an Option does not touch keep their value.
type Option func(*Options)

// WithAutoTrim sets the auto trim mode.
func WithAutoTrim(mode AutoTrim) Option {
	return func(o *Options) {
		o.AutoTrim = mode
	}
}
