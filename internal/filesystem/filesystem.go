package filesystem

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/objectfs/s3fs/internal/metrics"
	"github.com/objectfs/s3fs/pkg/fserrors"
	"github.com/objectfs/s3fs/pkg/types"
)

// FS presents a single bucket (optionally below a root prefix) as a
// hierarchical filesystem. All configuration is fixed at construction; the
// instance holds no mutable state and is safe for concurrent use.
type FS struct {
	backend      types.Backend
	prefix       string // normalized root prefix in key form: "" or "a/b/"
	delimiter    string
	strict       bool
	uploadArgs   *types.UploadArgs
	downloadArgs *types.DownloadArgs
	logger       *slog.Logger
	metrics      *metrics.Collector
}

// Options configures a filesystem instance.
type Options struct {
	// RootPrefix confines the filesystem to a subtree of the bucket's key
	// namespace. Empty means the bucket root.
	RootPrefix string

	// Delimiter is the key separator character, "/" by default.
	Delimiter string

	// Strict enables destination-type validation on writes. Disabling it
	// skips the extra store round trips before uploads.
	Strict bool

	// UploadArgs and DownloadArgs are instance-level defaults merged with
	// per-call overrides, call-level values winning key by key.
	UploadArgs   *types.UploadArgs
	DownloadArgs *types.DownloadArgs

	Logger  *slog.Logger
	Metrics *metrics.Collector
}

// DefaultOptions returns the options used when New receives nil.
func DefaultOptions() *Options {
	return &Options{
		Delimiter: "/",
		Strict:    true,
	}
}

// New creates a filesystem over the given storage backend.
func New(backend types.Backend, opts *Options) (*FS, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	delimiter := opts.Delimiter
	if delimiter == "" {
		delimiter = "/"
	}

	prefix := ""
	if opts.RootPrefix != "" {
		normalized, err := normalizePath(opts.RootPrefix)
		if err != nil {
			return nil, err
		}
		if normalized != "/" {
			prefix = strings.TrimPrefix(normalized, "/") + "/"
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &FS{
		backend:      backend,
		prefix:       prefix,
		delimiter:    delimiter,
		strict:       opts.Strict,
		uploadArgs:   opts.UploadArgs,
		downloadArgs: opts.DownloadArgs,
		logger:       logger,
		metrics:      opts.Metrics,
	}, nil
}

// Classify determines what occupies a path: a file object, a directory
// (marker or implied by descendants), or nothing. The root is always a
// directory.
func (fs *FS) Classify(ctx context.Context, path string) (types.NodeType, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return types.NodeMissing, err
	}
	return fs.classify(ctx, normalized)
}

// classify runs on an already-normalized path.
func (fs *FS) classify(ctx context.Context, normalized string) (types.NodeType, error) {
	if normalized == "/" {
		return types.NodeDirectory, nil
	}

	_, err := fs.backend.HeadObject(ctx, fs.key(normalized))
	if err == nil {
		return types.NodeFile, nil
	}
	if !fserrors.IsNotFound(err) {
		return types.NodeMissing, err
	}

	// No file object. One limited list call covers both the marker object
	// and any descendant: either proves the directory exists.
	page, err := fs.backend.ListObjects(ctx, &types.ListQuery{
		Prefix:  fs.dirKey(normalized),
		MaxKeys: 1,
	})
	if err != nil {
		return types.NodeMissing, err
	}
	if len(page.Objects) > 0 || len(page.CommonPrefixes) > 0 {
		return types.NodeDirectory, nil
	}
	return types.NodeMissing, nil
}

// Exists reports whether a file or directory occupies the path.
func (fs *FS) Exists(ctx context.Context, path string) (bool, error) {
	node, err := fs.Classify(ctx, path)
	if err != nil {
		return false, err
	}
	return node != types.NodeMissing, nil
}

// IsDir reports whether the path classifies as a directory.
func (fs *FS) IsDir(ctx context.Context, path string) (bool, error) {
	node, err := fs.Classify(ctx, path)
	if err != nil {
		return false, err
	}
	return node == types.NodeDirectory, nil
}

// IsEmpty reports whether a directory has no children. The directory's own
// marker object does not count as a child.
func (fs *FS) IsEmpty(ctx context.Context, path string) (bool, error) {
	normalized, err := normalizePath(path)
	if err != nil {
		return false, err
	}
	dirKey := fs.dirKey(normalized)
	page, err := fs.backend.ListObjects(ctx, &types.ListQuery{
		Prefix:  dirKey,
		MaxKeys: 2,
	})
	if err != nil {
		return false, err
	}
	for _, obj := range page.Objects {
		if obj.Key != dirKey {
			return false, nil
		}
	}
	return len(page.CommonPrefixes) == 0, nil
}

// Mkdir creates a directory by writing a zero-byte marker object. The parent
// must already exist; intermediate directories are not created implicitly.
func (fs *FS) Mkdir(ctx context.Context, path string) error {
	return fs.makedir(ctx, path, false)
}

// MkdirRecreate is Mkdir except that an existing directory is not an error.
func (fs *FS) MkdirRecreate(ctx context.Context, path string) error {
	return fs.makedir(ctx, path, true)
}

func (fs *FS) makedir(ctx context.Context, path string, recreate bool) (err error) {
	defer fs.observe("mkdir", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return err
	}
	if normalized == "/" {
		if recreate {
			return nil
		}
		return fserrors.DirectoryExists(path).WithOp("mkdir")
	}

	parent, err := fs.classify(ctx, parentPath(normalized))
	if err != nil {
		return err
	}
	if parent != types.NodeDirectory {
		return fserrors.NotFound(path).WithOp("mkdir").
			WithMessage("parent directory does not exist")
	}

	switch node, err := fs.classify(ctx, normalized); {
	case err != nil:
		return err
	case node == types.NodeFile:
		return fserrors.DirectoryExpected(path).WithOp("mkdir")
	case node == types.NodeDirectory:
		if recreate {
			return nil
		}
		return fserrors.DirectoryExists(path).WithOp("mkdir")
	}

	fs.logger.Debug("creating directory marker", "path", normalized)
	return fs.backend.PutObject(ctx, fs.dirKey(normalized), bytes.NewReader(nil), nil)
}

// Rmdir removes an empty directory. A directory that lost its marker but has
// no children is treated as already empty, not as missing.
func (fs *FS) Rmdir(ctx context.Context, path string) (err error) {
	defer fs.observe("rmdir", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return err
	}
	if normalized == "/" {
		return fserrors.InvalidPath(path, "cannot remove the root directory").WithOp("rmdir")
	}

	switch node, err := fs.classify(ctx, normalized); {
	case err != nil:
		return err
	case node == types.NodeFile:
		return fserrors.DirectoryExpected(path).WithOp("rmdir")
	case node == types.NodeMissing:
		// A marker-less empty directory is indistinguishable from an
		// absent one in a flat store. When the parent chain exists the
		// path is treated as already empty; only a missing parent makes
		// this a true not-found.
		parent, err := fs.classify(ctx, parentPath(normalized))
		if err != nil {
			return err
		}
		if parent != types.NodeDirectory {
			return fserrors.NotFound(path).WithOp("rmdir")
		}
	}

	empty, err := fs.IsEmpty(ctx, normalized)
	if err != nil {
		return err
	}
	if !empty {
		return fserrors.DirectoryNotEmpty(path).WithOp("rmdir")
	}

	// Absence of the marker is fine: deleting a missing key succeeds.
	fs.logger.Debug("removing directory marker", "path", normalized)
	return fs.backend.DeleteObject(ctx, fs.dirKey(normalized))
}

// Remove deletes a file object.
func (fs *FS) Remove(ctx context.Context, path string) (err error) {
	defer fs.observe("remove", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return err
	}
	if fs.strict {
		switch node, err := fs.classify(ctx, normalized); {
		case err != nil:
			return err
		case node == types.NodeMissing:
			return fserrors.NotFound(path).WithOp("remove")
		case node == types.NodeDirectory:
			return fserrors.FileExpected(path).WithOp("remove")
		}
	}
	return fs.backend.DeleteObject(ctx, fs.key(normalized))
}

// Copy copies a file with a server-side copy. The destination's parent must
// exist; an existing destination fails unless overwrite is set.
func (fs *FS) Copy(ctx context.Context, src, dst string, overwrite bool) (err error) {
	defer fs.observe("copy", time.Now(), &err)

	srcNorm, err := normalizePath(src)
	if err != nil {
		return err
	}
	dstNorm, err := normalizePath(dst)
	if err != nil {
		return err
	}

	if !overwrite {
		exists, err := fs.Exists(ctx, dstNorm)
		if err != nil {
			return err
		}
		if exists {
			return fserrors.FileExists(dst).WithOp("copy").
				WithMessage("destination exists")
		}
	}

	if fs.strict {
		parent, err := fs.classify(ctx, parentPath(dstNorm))
		if err != nil {
			return err
		}
		if parent != types.NodeDirectory {
			return fserrors.NotFound(dst).WithOp("copy").
				WithMessage("parent directory does not exist")
		}
	}

	err = fs.backend.CopyObject(ctx, fs.key(srcNorm), fs.key(dstNorm), fs.uploadArgs)
	if fserrors.IsNotFound(err) {
		// The source key has no file object; report a clearer error when
		// the path is actually a directory.
		if node, cerr := fs.classify(ctx, srcNorm); cerr == nil && node == types.NodeDirectory {
			return fserrors.FileExpected(src).WithOp("copy")
		}
		return fserrors.NotFound(src).WithOp("copy")
	}
	return err
}

// Move moves a file by copy-then-delete. A failure between the two steps
// leaves both objects in place and is surfaced to the caller; there is no
// rollback.
func (fs *FS) Move(ctx context.Context, src, dst string, overwrite bool) (err error) {
	defer fs.observe("move", time.Now(), &err)

	if err := fs.Copy(ctx, src, dst, overwrite); err != nil {
		return err
	}
	srcNorm, err := normalizePath(src)
	if err != nil {
		return err
	}
	return fs.backend.DeleteObject(ctx, fs.key(srcNorm))
}

// Stat returns the info record for a path. Beyond the always-present basic
// and details namespaces, callers may request the raw "s3" attribute
// namespace and the "urls" namespace with a presigned download link.
func (fs *FS) Stat(ctx context.Context, path string, namespaces ...string) (info *types.Info, err error) {
	defer fs.observe("stat", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	if normalized == "/" {
		return &types.Info{Name: "", IsDir: true}, nil
	}

	obj, isDir, err := fs.headNode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	return fs.buildInfo(ctx, normalized, obj, isDir, namespaces)
}

// headNode locates the object backing a path: the file object, the directory
// marker, or a synthetic record for a marker-less directory implied by
// descendants. Fails with ResourceNotFound when nothing matches.
func (fs *FS) headNode(ctx context.Context, normalized string) (*types.ObjectInfo, bool, error) {
	obj, err := fs.backend.HeadObject(ctx, fs.key(normalized))
	if err == nil {
		return obj, false, nil
	}
	if !fserrors.IsNotFound(err) {
		return nil, false, err
	}

	dirKey := fs.dirKey(normalized)
	obj, err = fs.backend.HeadObject(ctx, dirKey)
	if err == nil {
		return obj, true, nil
	}
	if !fserrors.IsNotFound(err) {
		return nil, false, err
	}

	page, err := fs.backend.ListObjects(ctx, &types.ListQuery{
		Prefix:  dirKey,
		MaxKeys: 1,
	})
	if err != nil {
		return nil, false, err
	}
	if len(page.Objects) > 0 || len(page.CommonPrefixes) > 0 {
		return &types.ObjectInfo{Key: dirKey}, true, nil
	}
	return nil, false, fserrors.NotFound(fs.pathFromKey(dirKey))
}

// SetInfo validates that the path exists. Object attributes are immutable in
// the store once written, so there is nothing to write back; settable
// metadata is applied at commit time through upload arguments instead.
func (fs *FS) SetInfo(ctx context.Context, path string, _ *types.Info) error {
	_, err := fs.Stat(ctx, path)
	return err
}

// URL returns a time-limited signed download URL for a file. A zero expiry
// uses one hour.
func (fs *FS) URL(ctx context.Context, path string, expires time.Duration) (u string, err error) {
	defer fs.observe("url", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return "", err
	}
	if normalized == "/" {
		return "", fserrors.NoURL(path).WithOp("url")
	}
	if expires <= 0 {
		expires = time.Hour
	}
	return fs.backend.PresignGetObject(ctx, fs.key(normalized), expires)
}

// ReadFile fetches the full contents of a file.
func (fs *FS) ReadFile(ctx context.Context, path string) (data []byte, err error) {
	defer fs.observe("read_file", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return nil, err
	}
	if fs.strict {
		switch node, err := fs.classify(ctx, normalized); {
		case err != nil:
			return nil, err
		case node == types.NodeMissing:
			return nil, fserrors.NotFound(path).WithOp("read_file")
		case node == types.NodeDirectory:
			return nil, fserrors.FileExpected(path).WithOp("read_file")
		}
	}

	body, err := fs.backend.GetObject(ctx, fs.key(normalized), nil, fs.downloadArgs)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err = io.ReadAll(body)
	if err != nil {
		return nil, fserrors.OperationFailed(path, err).WithOp("read_file")
	}
	return data, nil
}

// WriteFile writes data as a single object, replacing any existing file.
// Per-call upload arguments override the instance defaults key by key.
func (fs *FS) WriteFile(ctx context.Context, path string, data []byte, overrides ...*types.UploadArgs) (err error) {
	defer fs.observe("write_file", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return err
	}
	if fs.strict {
		if err := fs.checkWriteTarget(ctx, normalized, path, "write_file"); err != nil {
			return err
		}
	}
	return fs.backend.PutObject(ctx, fs.key(normalized), bytes.NewReader(data),
		fs.mergeUploadArgs(overrides))
}

// checkWriteTarget enforces the strict-mode invariants before a file write:
// the parent must be a directory and the path must not be one.
func (fs *FS) checkWriteTarget(ctx context.Context, normalized, path, op string) error {
	parent, err := fs.classify(ctx, parentPath(normalized))
	if err != nil {
		return err
	}
	if parent != types.NodeDirectory {
		return fserrors.NotFound(path).WithOp(op).
			WithMessage("parent directory does not exist")
	}
	node, err := fs.classify(ctx, normalized)
	if err != nil {
		return err
	}
	if node == types.NodeDirectory {
		return fserrors.FileExpected(path).WithOp(op)
	}
	return nil
}

// mergeUploadArgs folds per-call overrides onto the instance defaults.
func (fs *FS) mergeUploadArgs(overrides []*types.UploadArgs) *types.UploadArgs {
	merged := fs.uploadArgs
	for _, o := range overrides {
		merged = merged.Merge(o)
	}
	return merged
}

// observe records one operation with the metrics collector, if configured.
func (fs *FS) observe(op string, start time.Time, err *error) {
	fs.metrics.Observe(op, time.Since(start), *err)
}
