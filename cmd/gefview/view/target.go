package view

// Target is what a view subcommand shows
type Target int

const (
	TargetUnknown Target = iota
	TargetRegs
	TargetBacktrace
)

// String returns the canonical subcommand name
func (t Target) String() string {
	switch t {
	case TargetRegs:
		return "regs"
	case TargetBacktrace:
		return "backtrace"
	default:
		return "unknown"
	}
}

// Supported reports whether the target has a live view
func (t Target) Supported() bool {
	return t == TargetRegs
}

// ParseTarget maps a subcommand name to a Target
func ParseTarget(name string) Target {
	switch name {
	case "regs":
		return TargetRegs
	case "bt", "backtrace":
		return TargetBacktrace
	default:
		return TargetUnknown
	}
}
