package directive

// Kind enumerates the built in directives.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindOutput
	KindGenerator
	KindSelect
	KindMerge
	KindSuccess
	KindFail
	KindDone
)

// KindOf maps a directive name to its Kind. Names are case sensitive.
func KindOf(name string) Kind {
	switch name {
	case "output":
		return KindOutput
	case "generator":
		return KindGenerator
	case "select":
		return KindSelect
	case "merge", "import":
		return KindMerge
	case "success":
		return KindSuccess
	case "fail":
		return KindFail
	case "done":
		return KindDone
	default:
		return KindUnknown
	}
}

func (k Kind) String() string {
	switch k {
	case KindOutput:
		return "output"
	case KindGenerator:
		return "generator"
	case KindSelect:
		return "select"
	case KindMerge:
		return "merge"
	case KindSuccess:
		return "success"
	case KindFail:
		return "fail"
	case KindDone:
		return "done"
	default:
		return "unknown"
	}
}
