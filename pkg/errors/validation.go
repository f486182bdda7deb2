package errors

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

// ValidatePackageName validates a package name for safety and correctness.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters
//   - Maximum length of 256 characters
//
// Cargo-specific validation is done by ValidateCargoPackageName.
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

	return nil
}

// cargoPackageNameRegex matches the names cargo accepts in a manifest: a
// letter or underscore followed by letters, digits, '-' or '_'.
var cargoPackageNameRegex = regexp.MustCompile(`^[\p{L}_][\p{L}\p{N}_-]*$`)

// ValidateCargoPackageName validates a Cargo package name.
func ValidateCargoPackageName(name string) error {
	if err := ValidatePackageName(name); err != nil {
		return err
	}

	if !cargoPackageNameRegex.MatchString(name) {
		return New(ErrCodeInvalidPackage, "invalid package name: %q", name)
	}

	return nil
}

// ValidatePackageQuery validates a root package query of the form
// "name" or "name:version". The name must be a valid Cargo package name;
// whether the version is a valid semantic version is decided by the caller.
func ValidatePackageQuery(query string) error {
	name, version, hasVersion := strings.Cut(query, ":")
	if err := ValidateCargoPackageName(name); err != nil {
		return err
	}
	if hasVersion && version == "" {
		return New(ErrCodeInvalidPackage, "package query %q has an empty version", query)
	}
	if strings.Contains(version, ":") {
		return New(ErrCodeInvalidPackage, "package query %q has more than one `:`", query)
	}
	return nil
}

// ValidateManifestPath validates a --manifest-path argument.
// Cargo only accepts paths that name a Cargo.toml file.
func ValidateManifestPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidInput, "manifest path cannot be empty")
	}

	for _, r := range path {
		if r == '\x00' {
			return New(ErrCodeInvalidInput, "manifest path contains invalid characters")
		}
	}

	if filepath.Base(path) != "Cargo.toml" {
		return New(ErrCodeInvalidInput, "the manifest-path must be a path to a Cargo.toml file: %s", path)
	}

	return nil
}
