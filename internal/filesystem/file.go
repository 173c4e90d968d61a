package filesystem

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"sync"
	"time"

	"github.com/objectfs/s3fs/pkg/fserrors"
	"github.com/objectfs/s3fs/pkg/types"
)

// File is a seekable, buffered handle over a single object. Reads fetch the
// object lazily; writes accumulate in a local buffer and are committed to the
// store as one object when the handle is closed. Nothing reaches the store
// before Close, so a handle's writes are all-or-nothing.
//
// A File is safe for concurrent use by multiple goroutines, though the usual
// caveats about interleaved reads and writes on a shared cursor apply.
type File struct {
	fs   *FS
	ctx  context.Context
	path string
	key  string

	readable bool
	writable bool

	mu     sync.Mutex
	buf    []byte
	pos    int64
	size   int64 // remote object size, valid until the buffer is loaded
	loaded bool  // buf holds the full object (or the staged new content)
	dirty  bool
	closed bool

	uploadArgs   *types.UploadArgs
	downloadArgs *types.DownloadArgs
}

var errNegativeSeek = errors.New("seek to a negative position")

// Open opens a file handle. The flag semantics follow os.OpenFile:
//
//	os.O_RDONLY                        read
//	os.O_WRONLY|os.O_CREATE|os.O_TRUNC write (truncate)
//	os.O_WRONLY|os.O_CREATE|os.O_APPEND append
//	os.O_RDWR                          update (object must exist)
//	os.O_RDWR|os.O_CREATE              update, created when missing
//
// os.O_EXCL makes creation fail if the path already holds a file. Per-call
// upload arguments override the instance defaults at commit time.
func (fs *FS) Open(ctx context.Context, path string, flag int, overrides ...*types.UploadArgs) (f *File, err error) {
	defer fs.observe("open", time.Now(), &err)

	normalized, err := normalizePath(path)
	if err != nil {
		return nil, err
	}

	access := flag & (os.O_RDONLY | os.O_WRONLY | os.O_RDWR)
	create := flag&os.O_CREATE != 0
	truncate := flag&os.O_TRUNC != 0
	appendTo := flag&os.O_APPEND != 0
	exclusive := flag&os.O_EXCL != 0

	file := &File{
		fs:           fs,
		ctx:          ctx,
		path:         normalized,
		key:          fs.key(normalized),
		readable:     access != os.O_WRONLY,
		writable:     access != os.O_RDONLY,
		uploadArgs:   fs.mergeUploadArgs(overrides),
		downloadArgs: fs.downloadArgs,
	}

	if create {
		if fs.strict {
			parent, err := fs.classify(ctx, parentPath(normalized))
			if err != nil {
				return nil, err
			}
			if parent != types.NodeDirectory {
				return nil, fserrors.NotFound(path).WithOp("open").
					WithMessage("parent directory does not exist")
			}
			switch node, err := fs.classify(ctx, normalized); {
			case err != nil:
				return nil, err
			case node == types.NodeFile && exclusive:
				return nil, fserrors.FileExists(path).WithOp("open")
			case node == types.NodeDirectory:
				return nil, fserrors.FileExpected(path).WithOp("open")
			}
		}

		switch {
		case truncate:
			// Fresh content; never fetch the old object.
			file.loaded = true
			file.dirty = true
		default:
			// Update or append over whatever exists. A missing object
			// just means starting empty.
			if err := file.fetch(); err != nil && !fserrors.IsNotFound(err) {
				return nil, err
			}
			file.loaded = true
			if appendTo {
				file.pos = int64(len(file.buf))
			}
		}
		return file, nil
	}

	// Non-creating modes require a pre-existing file object.
	if fs.strict {
		switch node, err := fs.classify(ctx, normalized); {
		case err != nil:
			return nil, err
		case node == types.NodeMissing:
			return nil, fserrors.NotFound(path).WithOp("open")
		case node == types.NodeDirectory:
			return nil, fserrors.FileExpected(path).WithOp("open")
		}
	}

	if file.writable {
		// Update mode mutates in place, so the whole object is staged
		// up front.
		if err := file.fetch(); err != nil {
			return nil, err
		}
		file.loaded = true
		if appendTo {
			file.pos = int64(len(file.buf))
		}
		return file, nil
	}

	// Read-only: defer the fetch until the first read, but resolve the
	// size now so Seek(io.SeekEnd) works before any data arrives.
	obj, err := fs.backend.HeadObject(ctx, file.key)
	if err != nil {
		return nil, err
	}
	file.size = obj.Size
	return file, nil
}

// fetch downloads the full object into the staging buffer.
func (f *File) fetch() error {
	w := newWriteAtBuffer()
	n, err := f.fs.backend.Download(f.ctx, f.key, w, f.downloadArgs)
	if err != nil {
		return err
	}
	f.buf = w.Bytes()[:n]
	return nil
}

// load ensures the staging buffer holds the object, fetching it on first use.
func (f *File) load() error {
	if f.loaded {
		return nil
	}
	if err := f.fetch(); err != nil {
		return err
	}
	f.loaded = true
	return nil
}

// Read reads from the staged object at the current position.
func (f *File) Read(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, os.ErrClosed
	}
	if !f.readable {
		return 0, fserrors.OperationFailed(f.path, errors.New("not open for reading"))
	}
	if err := f.load(); err != nil {
		return 0, err
	}
	if f.pos >= int64(len(f.buf)) {
		return 0, io.EOF
	}
	n := copy(p, f.buf[f.pos:])
	f.pos += int64(n)
	return n, nil
}

// ReadAt reads len(p) bytes starting at off. When the object is not yet
// staged it issues a single ranged fetch instead of downloading everything.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, os.ErrClosed
	}
	if !f.readable {
		return 0, fserrors.OperationFailed(f.path, errors.New("not open for reading"))
	}
	if off < 0 {
		return 0, errNegativeSeek
	}

	if f.loaded {
		if off >= int64(len(f.buf)) {
			return 0, io.EOF
		}
		n := copy(p, f.buf[off:])
		if n < len(p) {
			return n, io.EOF
		}
		return n, nil
	}

	body, err := f.fs.backend.GetObject(f.ctx, f.key,
		&types.Range{Offset: off, Length: int64(len(p))}, f.downloadArgs)
	if err != nil {
		return 0, err
	}
	defer body.Close()
	n, err := io.ReadFull(body, p)
	if err == io.ErrUnexpectedEOF {
		err = io.EOF
	}
	return n, err
}

// Write writes into the staging buffer at the current position, extending it
// as needed. Nothing is sent to the store until Close.
func (f *File) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, os.ErrClosed
	}
	if !f.writable {
		return 0, fserrors.OperationFailed(f.path, errors.New("not open for writing"))
	}
	if err := f.load(); err != nil {
		return 0, err
	}

	end := f.pos + int64(len(p))
	if end > int64(len(f.buf)) {
		grown := make([]byte, end)
		copy(grown, f.buf)
		f.buf = grown
	}
	copy(f.buf[f.pos:end], p)
	f.pos = end
	f.dirty = true
	return len(p), nil
}

// Seek repositions the cursor. Seeking is always cheap: it never triggers a
// fetch by itself.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return 0, os.ErrClosed
	}

	var base int64
	switch whence {
	case io.SeekStart:
		base = 0
	case io.SeekCurrent:
		base = f.pos
	case io.SeekEnd:
		if f.loaded {
			base = int64(len(f.buf))
		} else {
			base = f.size
		}
	default:
		return 0, errors.New("invalid whence")
	}

	pos := base + offset
	if pos < 0 {
		return 0, errNegativeSeek
	}
	f.pos = pos
	return pos, nil
}

// Truncate resizes the staging buffer.
func (f *File) Truncate(size int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return os.ErrClosed
	}
	if !f.writable {
		return fserrors.OperationFailed(f.path, errors.New("not open for writing"))
	}
	if size < 0 {
		return errNegativeSeek
	}
	if err := f.load(); err != nil {
		return err
	}

	switch {
	case size <= int64(len(f.buf)):
		f.buf = f.buf[:size]
	default:
		grown := make([]byte, size)
		copy(grown, f.buf)
		f.buf = grown
	}
	f.dirty = true
	return nil
}

// Close commits the staging buffer as one object if the handle is dirty and
// then invalidates the handle. Close is idempotent: the commit is attempted
// exactly once, and later calls are no-ops even if the commit failed.
func (f *File) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	if !f.dirty {
		return nil
	}
	f.fs.logger.Debug("committing file", "path", f.path, "size", len(f.buf))
	return f.fs.backend.PutObject(f.ctx, f.key, bytes.NewReader(f.buf), f.uploadArgs)
}

// Name returns the normalized path the handle was opened with.
func (f *File) Name() string {
	return f.path
}

// Size returns the staged size for loaded handles, or the remote object size
// observed at open time.
func (f *File) Size() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded {
		return int64(len(f.buf))
	}
	return f.size
}

// writeAtBuffer is a growable in-memory io.WriterAt used to stage concurrent
// ranged downloads.
type writeAtBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func newWriteAtBuffer() *writeAtBuffer {
	return &writeAtBuffer{}
}

func (w *writeAtBuffer) WriteAt(p []byte, off int64) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	end := off + int64(len(p))
	if end > int64(len(w.buf)) {
		grown := make([]byte, end)
		copy(grown, w.buf)
		w.buf = grown
	}
	copy(w.buf[off:end], p)
	return len(p), nil
}

func (w *writeAtBuffer) Bytes() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf
}
