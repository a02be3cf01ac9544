package schema

import (
	"fmt"
	"strings"
)

// Kind classifies a validation issue.
type Kind string

const (
	// MissingField means a required key is absent (or null).
	MissingField Kind = "MissingField"
	// TypeMismatch means a key is present but its value has the wrong kind.
	TypeMismatch Kind = "TypeMismatch"
	// UnknownValue means the value has the right kind but is not in the
	// allowed set (unknown explainer, device, load mode, ...).
	UnknownValue Kind = "UnknownValue"
)

// Issue is a single validation problem, addressed by the dotted path of the
// offending key.
type Issue struct {
	Path   string
	Kind   Kind
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s: %s", i.Path, i.Kind, i.Detail)
}

// Error accumulates every issue found in one document.
type Error struct {
	Issues []Issue
}

func (e *Error) Error() string {
	lines := make([]string, len(e.Issues))
	for n, issue := range e.Issues {
		lines[n] = issue.String()
	}
	return fmt.Sprintf("invalid experiment configuration:\n- %s", strings.Join(lines, "\n- "))
}

// ByPath returns the issues recorded against one key path.
func (e *Error) ByPath(path string) []Issue {
	var out []Issue
	for _, issue := range e.Issues {
		if issue.Path == path {
			out = append(out, issue)
		}
	}
	return out
}
