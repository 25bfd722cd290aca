package resolve

import "strings"

// Kind classifies the special value syntaxes. Detection checks prefixes in a
// fixed precedence; the first match wins.
type Kind int

const (
	// KindNone marks an ordinary value passed through unchanged.
	KindNone Kind = iota
	// KindCommand marks "!command" values executed through the shell.
	KindCommand
	// KindFileURI marks "file://path" external includes.
	KindFileURI
	// KindInclude marks "@path" repo-root-relative includes.
	KindInclude
	// KindTemplate marks "$text" nested template expansions.
	KindTemplate
)

// DetectKind classifies a string value by its prefix.
func DetectKind(value string) Kind {
	switch {
	case strings.HasPrefix(value, "!"):
		return KindCommand
	case strings.HasPrefix(value, "file://"):
		return KindFileURI
	case strings.HasPrefix(value, "@"):
		return KindInclude
	case strings.HasPrefix(value, "$"):
		return KindTemplate
	default:
		return KindNone
	}
}
