// Package assets locates optional profile icons across an ordered list of roots.
package assets

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/jonathan/assessment-reports/internal/logging"
)

// AllowedExtensions lists the image formats an icon may use.
var AllowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Resolver probes candidate roots in order. Lookups hit the filesystem every time;
// nothing is cached between calls.
type Resolver struct {
	roots []string
	log   *logging.Logger
}

// NewResolver creates a Resolver over the given roots. Empty roots are skipped.
func NewResolver(roots []string, log *logging.Logger) *Resolver {
	clean := make([]string, 0, len(roots))
	for _, r := range roots {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, r)
		}
	}
	return &Resolver{roots: clean, log: logging.OrNop(log)}
}

// Roots returns the configured search roots in probe order.
func (r *Resolver) Roots() []string {
	return append([]string(nil), r.roots...)
}

// Resolve returns the first candidate path that is a non-empty regular file with an
// allowed image extension. ok is false when nothing qualifies.
func (r *Resolver) Resolve(ref string) (path string, ok bool) {
	name := cleanRef(ref)
	if name == "" {
		return "", false
	}
	if !AllowedExtensions[strings.ToLower(filepath.Ext(name))] {
		r.log.Debug("icon has unsupported extension", "icon", ref)
		return "", false
	}

	names := []string{name}
	if base := filepath.Base(name); base != name {
		names = append(names, base)
	}
	for _, root := range r.roots {
		for _, n := range names {
			candidate := filepath.Join(root, n)
			info, err := os.Stat(candidate)
			if err != nil || !info.Mode().IsRegular() || info.Size() == 0 {
				continue
			}
			return candidate, true
		}
	}
	r.log.Debug("icon not found", "icon", ref, "roots", r.roots)
	return "", false
}

// cleanRef reduces a reference to a relative path that cannot escape its root.
// References may carry a leading slash or an "/uploads/" style prefix from the web tier.
func cleanRef(ref string) string {
	ref = strings.TrimSpace(strings.ReplaceAll(ref, "\\", "/"))
	if ref == "" {
		return ""
	}
	cleaned := filepath.Clean("/" + ref)
	cleaned = strings.TrimPrefix(cleaned, string(filepath.Separator))
	if cleaned == "" || cleaned == "." {
		return ""
	}
	return cleaned
}
