package errors

import (
	"strings"
	"unicode"
)

// ValidatePackageName checks that name is safe to use as a fragment file name.
// Candidate names come straight from build-file text, so anything that could
// escape the kind directory is rejected:
//   - No empty names
//   - No control characters
//   - No path separators or traversal names (".", "..")
//   - Maximum length of 256 characters
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 256 {
		return New(ErrCodeInvalidPackage, "package name too long (max 256 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	if name == "." || name == ".." {
		return New(ErrCodeInvalidPackage, "package name cannot be %q", name)
	}

	if strings.ContainsAny(name, "/\\") {
		return New(ErrCodeInvalidPackage, "package name contains path separators: %q", name)
	}

	return nil
}

// ValidateURLTemplate checks that a metadata URL template uses http(s)
// and contains the {name} placeholder.
func ValidateURLTemplate(tmpl string) error {
	if tmpl == "" {
		return New(ErrCodeInvalidConfig, "URL template cannot be empty")
	}

	if !strings.HasPrefix(tmpl, "http://") && !strings.HasPrefix(tmpl, "https://") {
		return New(ErrCodeInvalidConfig, "URL template must use http or https scheme")
	}

	if !strings.Contains(tmpl, "{name}") {
		return New(ErrCodeInvalidConfig, "URL template must contain {name}")
	}

	return nil
}
