package resolve

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// readFileURI resolves a "file://" include. Absolute paths read directly;
// relative paths resolve against the working directory, never the repo root.
func (r *Resolver) readFileURI(value string) (string, error) {
	raw := strings.TrimPrefix(value, "file://")
	if unescaped, err := url.PathUnescape(raw); err == nil {
		raw = unescaped
	}
	path := raw
	if !filepath.IsAbs(path) {
		path = filepath.Join(r.workdir, path)
	}
	return readTextFile(path)
}

// readRepoInclude resolves an "@" include against the repo root. "@path" and
// "@/path" are equivalent: the leading slash is stripped, not treated as a
// filesystem-absolute path.
func (r *Resolver) readRepoInclude(value string) (string, error) {
	rel := strings.TrimLeft(strings.TrimPrefix(value, "@"), "/")
	if r.repoRoot == "" {
		return "", fmt.Errorf("resolve: include %q: repo root is not set", value)
	}
	return readTextFile(filepath.Join(r.repoRoot, rel))
}

// readTextFile returns file content verbatim. Included text is never
// re-scanned for special syntax, which bounds recursion depth.
func readTextFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("resolve: read include %s: %w", path, err)
	}
	return string(data), nil
}
