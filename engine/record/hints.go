package record

import "strings"

// terminalNameHints mark elements that behave like distribution terminals
// (air diffusers, grilles, registers) even when exported under generic proxy
// types. IFC2x3 exporters in particular hide terminals behind
// IfcBuildingElementProxy.
var terminalNameHints = []string{"diffuser", "air terminal", "grille", "register", "outlet"}

// TerminalLike reports whether an element name suggests a distribution
// terminal. Matching is case-insensitive and also considers the family
// prefix before a ':' separator used by some authoring tools.
func TerminalLike(name string) bool {
	nl := strings.ToLower(name)
	for _, h := range terminalNameHints {
		if strings.Contains(nl, h) {
			return true
		}
	}
	return false
}

// FamilyPrefix returns the authoring-tool family portion of a name, the text
// before the first ':' separator, trimmed. The full name is returned when no
// separator is present.
func FamilyPrefix(name string) string {
	if i := strings.IndexByte(name, ':'); i >= 0 {
		return strings.TrimSpace(name[:i])
	}
	return strings.TrimSpace(name)
}
