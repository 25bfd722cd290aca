package config

import (
	"path/filepath"
	"regexp"
)

// namespacePattern matches source file names that carry a namespace prefix:
// "KOS-main.yaml" nests its keys under "KOS". Files that do not match merge
// at the top level.
var namespacePattern = regexp.MustCompile(`^([A-Za-z0-9]+)-.+\.(ya?ml|toml)$`)

// NamespaceFor extracts the namespace from a source file path, returning the
// empty string when the file name does not follow the PREFIX-description
// convention.
func NamespaceFor(path string) string {
	match := namespacePattern.FindStringSubmatch(filepath.Base(path))
	if match == nil {
		return ""
	}
	return match[1]
}
