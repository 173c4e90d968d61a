package filesystem

import (
	"context"
	"strings"
	"time"

	"github.com/objectfs/s3fs/pkg/fserrors"
	"github.com/objectfs/s3fs/pkg/types"
)

// DirIter iterates over the immediate children of one directory. Pages are
// fetched from the store lazily as the iterator advances; each Scandir call
// starts a fresh listing, so no state survives between calls.
//
// Usage follows the scanner pattern:
//
//	it, err := fs.Scandir(ctx, "/photos")
//	for it.Next() {
//		entry := it.Entry()
//	}
//	if err := it.Err(); err != nil { ... }
type DirIter struct {
	fs      *FS
	ctx     context.Context
	prefix  string // directory key used as the list prefix
	token   string
	buf     []types.DirEntry
	idx     int
	current types.DirEntry
	seen    map[string]struct{}
	done    bool
	err     error
}

// Next advances to the next entry. It returns false when the listing is
// exhausted or a store error occurred; check Err afterwards.
func (it *DirIter) Next() bool {
	for {
		if it.err != nil {
			return false
		}
		if it.idx < len(it.buf) {
			it.current = it.buf[it.idx]
			it.idx++
			return true
		}
		if it.done {
			return false
		}
		it.fetchPage()
	}
}

// Entry returns the entry produced by the last successful Next call.
func (it *DirIter) Entry() types.DirEntry {
	return it.current
}

// Err returns the first store error encountered, if any.
func (it *DirIter) Err() error {
	return it.err
}

// fetchPage pulls one page from the store and folds it into child entries.
// Common prefixes become directory entries; objects directly under the
// prefix become file entries; the directory's own marker is excluded.
func (it *DirIter) fetchPage() {
	page, err := it.fs.backend.ListObjects(it.ctx, &types.ListQuery{
		Prefix:            it.prefix,
		Delimiter:         it.fs.delimiter,
		ContinuationToken: it.token,
	})
	if err != nil {
		it.err = err
		return
	}

	it.buf = it.buf[:0]
	it.idx = 0

	for _, cp := range page.CommonPrefixes {
		name := strings.TrimSuffix(strings.TrimPrefix(cp, it.prefix), it.fs.delimiter)
		if name == "" {
			continue
		}
		if _, dup := it.seen[name]; dup {
			continue
		}
		it.seen[name] = struct{}{}
		it.buf = append(it.buf, types.DirEntry{Name: name, IsDir: true})
	}
	for _, obj := range page.Objects {
		name := strings.TrimPrefix(obj.Key, it.prefix)
		if name == "" {
			// The directory's own marker object.
			continue
		}
		if strings.HasSuffix(name, it.fs.delimiter) {
			// A marker listed alongside a common prefix for the same
			// child directory; the prefix entry already covers it.
			trimmed := strings.TrimSuffix(name, it.fs.delimiter)
			if _, dup := it.seen[trimmed]; dup {
				continue
			}
			it.seen[trimmed] = struct{}{}
			it.buf = append(it.buf, types.DirEntry{Name: trimmed, IsDir: true})
			continue
		}
		it.buf = append(it.buf, types.DirEntry{
			Name:    name,
			Size:    obj.Size,
			ModTime: obj.LastModified,
			ETag:    obj.ETag,
		})
	}

	if page.Truncated && page.ContinuationToken != "" {
		it.token = page.ContinuationToken
	} else {
		it.done = true
	}
}

// Scandir returns a lazy iterator over the immediate children of path.
// Fails with ResourceNotFound when the path is missing and with
// DirectoryExpected when it is a file.
func (fs *FS) Scandir(ctx context.Context, path string) (it *DirIter, err error) {
	defer fs.observe("scandir", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	switch node, err := fs.classify(ctx, normalized); {
	case err != nil:
		return nil, err
	case node == types.NodeMissing:
		return nil, fserrors.NotFound(path).WithOp("scandir")
	case node == types.NodeFile:
		return nil, fserrors.DirectoryExpected(path).WithOp("scandir")
	}

	return &DirIter{
		fs:     fs,
		ctx:    ctx,
		prefix: fs.dirKey(normalized),
		seen:   make(map[string]struct{}),
	}, nil
}

// ReadDir collects the immediate children of path into a slice.
func (fs *FS) ReadDir(ctx context.Context, path string) ([]types.DirEntry, error) {
	it, err := fs.Scandir(ctx, path)
	if err != nil {
		return nil, err
	}
	var entries []types.DirEntry
	for it.Next() {
		entries = append(entries, it.Entry())
	}
	return entries, it.Err()
}

// ListDir returns the names of the immediate children of path.
func (fs *FS) ListDir(ctx context.Context, path string) ([]string, error) {
	entries, err := fs.ReadDir(ctx, path)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name)
	}
	return names, nil
}
