package render

import (
	"fmt"
	"path/filepath"
	"strings"
)

// ScopeFor derives the scope for a template from its position below the
// templates root: the directories between root and file joined by dots.
// Templates directly under the root have no scope.
func ScopeFor(templatePath, templatesRoot string) (string, error) {
	rel, err := filepath.Rel(templatesRoot, templatePath)
	if err != nil {
		return "", fmt.Errorf("render: scope for %s: %w", templatePath, err)
	}
	if strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("render: template %s is outside root %s", templatePath, templatesRoot)
	}
	dir := filepath.Dir(rel)
	if dir == "." {
		return "", nil
	}
	return strings.ReplaceAll(filepath.ToSlash(dir), "/", "."), nil
}
