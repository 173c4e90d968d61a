package filesystem

import (
	"strings"

	"github.com/objectfs/s3fs/pkg/fserrors"
)

// normalizePath converts arbitrary relative or absolute slash-delimited input
// into the canonical absolute form: leading "/", no trailing "/" (except for
// the root itself), no empty or "." segments, ".." resolved. The function is
// pure and idempotent. It fails when the path contains a NUL byte or when
// ".." resolves above the root.
func normalizePath(p string) (string, error) {
	if strings.ContainsRune(p, 0) {
		return "", fserrors.InvalidPath(p, "path contains an invalid character")
	}

	var stack []string
	for _, seg := range strings.Split(p, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(stack) == 0 {
				return "", fserrors.InvalidPath(p, "path resolves above filesystem root")
			}
			stack = stack[:len(stack)-1]
		default:
			stack = append(stack, seg)
		}
	}
	return "/" + strings.Join(stack, "/"), nil
}

// parentPath returns the parent of a normalized path. The root is its own
// parent.
func parentPath(p string) string {
	if p == "/" {
		return "/"
	}
	idx := strings.LastIndexByte(p, '/')
	if idx <= 0 {
		return "/"
	}
	return p[:idx]
}

// baseName returns the last element of a normalized path, or "" for the root.
func baseName(p string) string {
	if p == "/" {
		return ""
	}
	return p[strings.LastIndexByte(p, '/')+1:]
}

// key converts a normalized path to the store key for a file object: the
// configured root prefix plus the relative path, delimiter-joined, with no
// leading or trailing delimiter.
func (fs *FS) key(normalized string) string {
	rel := strings.TrimPrefix(normalized, "/")
	k := fs.prefix + rel
	if fs.delimiter != "/" {
		k = strings.ReplaceAll(k, "/", fs.delimiter)
	}
	return strings.TrimSuffix(k, fs.delimiter)
}

// dirKey converts a normalized path to the store key for a directory marker:
// the file key with exactly one trailing delimiter. The root maps to the bare
// prefix, which is "" for an unprefixed filesystem.
func (fs *FS) dirKey(normalized string) string {
	k := fs.key(normalized)
	if k == "" {
		return ""
	}
	return k + fs.delimiter
}

// pathFromKey converts a store key back to a filesystem path, stripping the
// root prefix and any trailing delimiter exactly once.
func (fs *FS) pathFromKey(key string) string {
	k := key
	if fs.delimiter != "/" {
		k = strings.ReplaceAll(k, fs.delimiter, "/")
	}
	k = strings.TrimSuffix(k, "/")
	if k == strings.TrimSuffix(fs.prefix, "/") {
		return "/"
	}
	return "/" + strings.TrimPrefix(k, fs.prefix)
}
