package errors

import (
	"os"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName rejects names that are empty, too long, or contain
// control characters or path traversal sequences.
func ValidatePackageName(name string) error {
	if name == "" {
		return New(ErrCodeInvalidPackage, "package name cannot be empty")
	}

	if len(name) > 214 {
		return New(ErrCodeInvalidPackage, "package name too long (max 214 characters)")
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPackage, "package name contains invalid control characters")
		}
	}

	for _, pattern := range []string{"..", "//", "\\"} {
		if strings.Contains(name, pattern) {
			return New(ErrCodeInvalidPackage, "package name contains invalid characters: %q", pattern)
		}
	}

	return nil
}

// npmPackageNameRegex matches npm package names, scoped or not. Upper case
// is accepted because legacy packages on the registry still use it.
var npmPackageNameRegex = regexp.MustCompile(`^(@[A-Za-z0-9-~][A-Za-z0-9-._~]*/)?[A-Za-z0-9-~][A-Za-z0-9-._~]*$`)

// ValidateNpmPackageName validates an npm package name.
func ValidateNpmPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}
	if !npmPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid npm package name: %q", name)
	}
	return nil
}

// ValidateProjectDir checks that path names an existing directory.
func ValidateProjectDir(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "project path cannot be empty")
	}
	if strings.ContainsRune(path, '\x00') {
		return New(ErrCodeInvalidPath, "project path contains invalid characters")
	}
	info, err := os.Stat(path)
	if err != nil {
		return Wrap(ErrCodeInvalidPath, err, "project %s", path)
	}
	if !info.IsDir() {
		return New(ErrCodeInvalidPath, "project %s is not a directory", path)
	}
	return nil
}
