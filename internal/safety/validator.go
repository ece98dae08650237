package safety

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"hdf-eco-tool/internal/toolerr"
)

var (
	ErrInvalidPath    = errors.New("invalid path")
	ErrProtectedPath  = errors.New("protected path")
	ErrRootTarget     = errors.New("target is the tree root")
	ErrOutsideAllowed = errors.New("outside root_dir")
	ErrTraversal      = errors.New("path traversal detected")
	ErrSymlinkEscape  = errors.New("symlink escape detected")
)

// Validator enforces the safety contract for every delete and edit of a tree
type Validator struct {
	// Roots holds root_dir both as given and with symlinks resolved
	Roots          []string
	ProtectedPaths []string
	// Pinned paths may not be deleted themselves, their contents may
	Pinned []string
}

// NewValidator creates a validator confining targets to root. protected are
// paths never deleted in addition to the system directories.
func NewValidator(root string, protected []string) *Validator {
	return &Validator{
		Roots:          normalizeRoots([]string{root}),
		ProtectedPaths: defaultProtected(protected),
	}
}

// Pin refuses deletion of paths while still allowing deletes beneath them
func (v *Validator) Pin(paths ...string) {
	v.Pinned = append(v.Pinned, normalizeRoots(paths)...)
}

// ValidateDeleteTarget authorizes removal of path. path is the raw,
// uncleaned target so ".." segments are still visible.
func (v *Validator) ValidateDeleteTarget(path string) error {
	return v.validate(path, true)
}

// ValidateEditTarget authorizes an in-place rewrite of path. Configured
// protected paths may be edited, only system directories are refused.
func (v *Validator) ValidateEditTarget(path string) error {
	return v.validate(path, false)
}

func (v *Validator) validate(path string, deleting bool) error {
	if err := v.check(path, deleting); err != nil {
		return toolerr.Wrap(toolerr.SafetyViolation, err, "refusing %s", path)
	}
	return nil
}

func (v *Validator) check(path string, deleting bool) error {
	// 1. Normalize path to absolute, cleaned form
	p, err := NormalizePath(path)
	if err != nil {
		return err
	}

	// 2. Block protected paths
	protected := systemProtected
	if deleting {
		protected = v.ProtectedPaths
	}
	if IsProtectedPath(p, protected) {
		return ErrProtectedPath
	}
	if deleting {
		for _, pin := range v.Pinned {
			if p == pin {
				return ErrProtectedPath
			}
		}
	}

	// 3. The root itself is never a target
	for _, r := range v.Roots {
		if p == r {
			return ErrRootTarget
		}
	}

	// 4. Ensure within root_dir
	if !IsWithinAllowedRoots(p, v.Roots) {
		return ErrOutsideAllowed
	}

	// 5. Detect path traversal in raw input
	if DetectTraversal(path) {
		return ErrTraversal
	}

	// 6. Detect symlink escape
	escaped, err := DetectSymlinkEscape(p, v.Roots)
	if err != nil {
		// a target that does not exist is a no-op for every operation
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	if escaped {
		return ErrSymlinkEscape
	}

	return nil
}

// NormalizePath converts path to absolute, cleaned form
func NormalizePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", ErrInvalidPath
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", ErrInvalidPath
	}
	return filepath.Clean(abs), nil
}

// DetectTraversal blocks any ".." segment in raw input
func DetectTraversal(raw string) bool {
	parts := strings.Split(filepath.ToSlash(raw), "/")
	for _, p := range parts {
		if p == ".." {
			return true
		}
	}
	return false
}

// IsWithinAllowedRoots checks if path is within any allowed root
func IsWithinAllowedRoots(path string, allowedRoots []string) bool {
	p := filepath.Clean(path)
	for _, r := range allowedRoots {
		if hasPathPrefix(p, r) {
			return true
		}
	}
	return false
}

// DetectSymlinkEscape resolves symlinks and checks if resolved path escapes allowed roots
func DetectSymlinkEscape(cleanAbs string, allowedRoots []string) (bool, error) {
	resolved, err := filepath.EvalSymlinks(cleanAbs)
	if err != nil {
		return false, err
	}
	resolvedAbs, err := filepath.Abs(resolved)
	if err != nil {
		return false, err
	}
	if !IsWithinAllowedRoots(filepath.Clean(resolvedAbs), allowedRoots) {
		return true, nil
	}
	return false, nil
}

// IsProtectedPath checks if path equals or lies under a protected path
func IsProtectedPath(path string, protected []string) bool {
	p := filepath.Clean(path)

	// Hard block: "/" exact
	if p == string(os.PathSeparator) {
		return true
	}

	for _, prot := range protected {
		prot = filepath.Clean(prot)
		if p == prot || hasPathPrefix(p, prot) {
			return true
		}
	}
	return false
}

// hasPathPrefix checks if path has the given prefix. "/" only prefixes itself.
func hasPathPrefix(path, prefix string) bool {
	path = filepath.Clean(path)
	prefix = filepath.Clean(prefix)

	if prefix == string(os.PathSeparator) {
		return path == "/"
	}
	if path == prefix {
		return true
	}
	return strings.HasPrefix(path, prefix+string(os.PathSeparator))
}

// normalizeRoots converts roots to absolute, cleaned paths and adds the
// symlink-resolved form of each root that differs from it.
func normalizeRoots(roots []string) []string {
	out := make([]string, 0, len(roots)*2)
	for _, r := range roots {
		if strings.TrimSpace(r) == "" {
			continue
		}
		abs, err := filepath.Abs(r)
		if err != nil {
			continue
		}
		abs = filepath.Clean(abs)
		out = append(out, abs)
		if resolved, err := filepath.EvalSymlinks(abs); err == nil && resolved != abs {
			out = append(out, filepath.Clean(resolved))
		}
	}
	return out
}

var systemProtected = []string{
	"/",
	"/etc",
	"/bin",
	"/usr",
	"/boot",
	"/lib",
	"/lib64",
	"/sbin",
}

// defaultProtected returns the system paths plus any extras
func defaultProtected(extra []string) []string {
	base := append([]string(nil), systemProtected...)
	return append(base, extra...)
}
