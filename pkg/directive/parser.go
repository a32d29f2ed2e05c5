package directive

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// Option configures a Parser.
type Option func(*Parser)

// WithMarker overrides the marker token (default "ymlgen").
func WithMarker(marker string) Option {
	return func(p *Parser) {
		if trimmed := strings.TrimSpace(marker); trimmed != "" {
			p.marker = trimmed
		}
	}
}

// WithMergeReader sets the reader used to resolve merge directives.
func WithMergeReader(reader MergeReader) Option {
	return func(p *Parser) {
		p.reader = reader
	}
}

// WithUnknown installs the hook consulted for unrecognised directives.
func WithUnknown(fn UnknownFunc) Option {
	return func(p *Parser) {
		p.unknown = fn
	}
}

// Parser reads directive lines from data files.
type Parser struct {
	marker  string
	pattern *regexp.Regexp
	reader  MergeReader
	unknown UnknownFunc
}

// New constructs a Parser applying any provided options.
func New(options ...Option) *Parser {
	p := &Parser{marker: DefaultMarker}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	p.pattern = regexp.MustCompile(`(?m)^[ \t]*#[ \t]+` + regexp.QuoteMeta(p.marker) + `:(\S+)[ \t]+([^\n]+)$`)
	return p
}

// Marker returns the marker token the parser recognises.
func (p *Parser) Marker() string {
	return p.marker
}

// IsDataFile reports whether content, ignoring leading whitespace and a byte
// order mark, starts with the marker comment.
func (p *Parser) IsDataFile(content string) bool {
	trimmed := strings.TrimLeftFunc(content, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	})
	return strings.HasPrefix(trimmed, "# "+p.marker)
}

// IsDataFile reports whether content is a data file for the default marker.
func IsDataFile(content string) bool {
	return New().IsDataFile(content)
}

// Parse scans content for directive lines. dir is the directory merge
// references are resolved against.
func (p *Parser) Parse(ctx context.Context, dir, content string) (Set, error) {
	var (
		set           Set
		defaultOutput string
		defaultName   string
		defaultSelect string
		body          strings.Builder
		last          int
	)

	for _, loc := range p.pattern.FindAllStringSubmatchIndex(content, -1) {
		body.WriteString(content[last:loc[0]])
		last = loc[1]

		name := content[loc[2]:loc[3]]
		value := strings.TrimSpace(content[loc[4]:loc[5]])
		line := strings.Count(content[:loc[0]], "\n") + 1

		switch KindOf(name) {
		case KindOutput:
			defaultOutput = value
		case KindSelect:
			defaultSelect = value
		case KindGenerator:
			if !isInlineObject(value) {
				defaultName = value
				continue
			}
			spec, err := parseInlineGenerator(value)
			if err != nil {
				return Set{}, fmt.Errorf("line %d: %w", line, err)
			}
			set.Specs = append(set.Specs, spec)
		case KindMerge:
			merged, err := p.readMerge(ctx, dir, value)
			if err != nil {
				return Set{}, fmt.Errorf("line %d: %w", line, err)
			}
			set.MergeData = append(set.MergeData, merged)
		case KindSuccess:
			set.Hooks.OnSuccess = value
		case KindFail:
			set.Hooks.OnFail = value
		case KindDone:
			set.Hooks.OnDone = value
		default:
			if p.unknown != nil && p.unknown(name, value) {
				continue
			}
			return Set{}, fmt.Errorf("line %d: %w %q", line, ErrUnrecognizedDirective, name)
		}
	}
	body.WriteString(content[last:])
	set.Body = body.String()

	if defaultName != "" {
		if defaultOutput == "" {
			return Set{}, ErrMissingOutput
		}
		set.Specs = append(set.Specs, Spec{
			Name:   defaultName,
			Output: defaultOutput,
			Select: defaultSelect,
		})
	}

	if len(set.Specs) == 0 {
		return Set{}, ErrNoGenerators
	}
	for _, spec := range set.Specs {
		if !strings.Contains(spec.Output, "*") {
			return Set{}, fmt.Errorf("%w: generator %q output %q", ErrInvalidOutput, spec.Name, spec.Output)
		}
	}
	return set, nil
}

func (p *Parser) readMerge(ctx context.Context, dir, ref string) (any, error) {
	if p.reader == nil {
		return nil, fmt.Errorf("directive: merge %q: no merge reader configured", ref)
	}
	value, err := p.reader.ReadMergeSource(ctx, dir, ref)
	if err != nil {
		return nil, fmt.Errorf("directive: merge %q: %w", ref, err)
	}
	return value, nil
}

func isInlineObject(value string) bool {
	return strings.HasPrefix(value, "{") && strings.HasSuffix(value, "}")
}

func parseInlineGenerator(value string) (Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal([]byte(value), &spec); err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrInvalidGenerator, err)
	}
	spec.Name = strings.TrimSpace(spec.Name)
	spec.Output = strings.TrimSpace(spec.Output)
	spec.Select = strings.TrimSpace(spec.Select)
	if spec.Name == "" {
		return Spec{}, fmt.Errorf("%w: name is required in %s", ErrInvalidGenerator, value)
	}
	if spec.Output == "" {
		return Spec{}, fmt.Errorf("%w: output is required in %s", ErrInvalidGenerator, value)
	}
	return spec, nil
}

func containsDoubleStar(pattern string) bool {
	return strings.Contains(pattern, "**")
}
