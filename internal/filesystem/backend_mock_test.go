package filesystem

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/objectfs/s3fs/pkg/fserrors"
	"github.com/objectfs/s3fs/pkg/types"
)

// memBackend is an in-memory Backend with store-accurate listing semantics:
// lexicographic key order, delimiter folding into common prefixes, and
// token-based pagination. Call counters let tests assert how many round
// trips an operation cost.
type memBackend struct {
	mu       sync.Mutex
	objects  map[string]*memObject
	revision int
	pageSize int // caps entries per list page when > 0

	putCalls    int
	getCalls    int
	headCalls   int
	listCalls   int
	deleteCalls int
	copyCalls   int
}

type memObject struct {
	data []byte
	info types.ObjectInfo
}

func newMemBackend() *memBackend {
	return &memBackend{objects: make(map[string]*memObject)}
}

// seed stores an object directly, bypassing the call counters.
func (b *memBackend) seed(key string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.store(key, data, nil)
}

// store writes an object under the lock.
func (b *memBackend) store(key string, data []byte, args *types.UploadArgs) {
	b.revision++
	obj := &memObject{
		data: append([]byte(nil), data...),
		info: types.ObjectInfo{
			Key:          key,
			Size:         int64(len(data)),
			LastModified: time.Now().UTC(),
			ETag:         fmt.Sprintf("\"rev-%d\"", b.revision),
		},
	}
	if args != nil {
		obj.info.ContentType = args.ContentType
		obj.info.ContentEncoding = args.ContentEncoding
		obj.info.CacheControl = args.CacheControl
		obj.info.StorageClass = args.StorageClass
		obj.info.ServerSideEncryption = args.ServerSideEncryption
		if len(args.Metadata) > 0 {
			obj.info.Metadata = make(map[string]string, len(args.Metadata))
			for k, v := range args.Metadata {
				obj.info.Metadata[k] = v
			}
		}
	}
	b.objects[key] = obj
}

// data returns a copy of an object's contents, or nil when absent.
func (b *memBackend) data(key string) []byte {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.objects[key]
	if !ok {
		return nil
	}
	return append([]byte(nil), obj.data...)
}

// has reports whether a key holds an object.
func (b *memBackend) has(key string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok
}

func (b *memBackend) PutObject(_ context.Context, key string, body io.Reader, args *types.UploadArgs) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return fserrors.OperationFailed(key, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.putCalls++
	b.store(key, data, args)
	return nil
}

func (b *memBackend) GetObject(_ context.Context, key string, rng *types.Range, _ *types.DownloadArgs) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.getCalls++

	obj, ok := b.objects[key]
	if !ok {
		return nil, fserrors.NotFound(key)
	}
	data := obj.data
	if rng != nil {
		size := int64(len(data))
		if rng.Offset > size {
			return nil, fserrors.OperationFailed(key, fmt.Errorf("range offset %d beyond size %d", rng.Offset, size))
		}
		end := size
		if rng.Length >= 0 && rng.Offset+rng.Length < size {
			end = rng.Offset + rng.Length
		}
		data = data[rng.Offset:end]
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memBackend) Download(_ context.Context, key string, w io.WriterAt, _ *types.DownloadArgs) (int64, error) {
	b.mu.Lock()
	b.getCalls++
	obj, ok := b.objects[key]
	if !ok {
		b.mu.Unlock()
		return 0, fserrors.NotFound(key)
	}
	data := append([]byte(nil), obj.data...)
	b.mu.Unlock()

	n, err := w.WriteAt(data, 0)
	return int64(n), err
}

func (b *memBackend) HeadObject(_ context.Context, key string) (*types.ObjectInfo, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.headCalls++

	obj, ok := b.objects[key]
	if !ok {
		return nil, fserrors.NotFound(key)
	}
	info := obj.info
	return &info, nil
}

func (b *memBackend) DeleteObject(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleteCalls++
	delete(b.objects, key)
	return nil
}

func (b *memBackend) ListObjects(_ context.Context, query *types.ListQuery) (*types.ListPage, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listCalls++

	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, query.Prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	// Fold into the combined, key-ordered entry sequence the store exposes:
	// grouped common prefixes interleaved with direct objects.
	type listEntry struct {
		sortKey      string
		obj          *types.ObjectInfo
		commonPrefix string
	}
	var entries []listEntry
	folded := make(map[string]struct{})
	for _, k := range keys {
		rest := strings.TrimPrefix(k, query.Prefix)
		if query.Delimiter != "" {
			if idx := strings.Index(rest, query.Delimiter); idx >= 0 {
				cp := query.Prefix + rest[:idx+1]
				if _, ok := folded[cp]; ok {
					continue
				}
				folded[cp] = struct{}{}
				entries = append(entries, listEntry{sortKey: cp, commonPrefix: cp})
				continue
			}
		}
		info := b.objects[k].info
		entries = append(entries, listEntry{sortKey: k, obj: &info})
	}

	start := len(entries)
	if query.ContinuationToken == "" {
		start = 0
	} else {
		for i, e := range entries {
			if e.sortKey >= query.ContinuationToken {
				start = i
				break
			}
		}
	}

	max := int(query.MaxKeys)
	if max <= 0 {
		max = 1000
	}
	if b.pageSize > 0 && b.pageSize < max {
		max = b.pageSize
	}

	page := &types.ListPage{}
	i := start
	for ; i < len(entries) && i-start < max; i++ {
		if entries[i].obj != nil {
			page.Objects = append(page.Objects, *entries[i].obj)
		} else {
			page.CommonPrefixes = append(page.CommonPrefixes, entries[i].commonPrefix)
		}
	}
	if i < len(entries) {
		page.Truncated = true
		page.ContinuationToken = entries[i].sortKey
	}
	return page, nil
}

func (b *memBackend) CopyObject(_ context.Context, srcKey, dstKey string, args *types.UploadArgs) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.copyCalls++

	src, ok := b.objects[srcKey]
	if !ok {
		return fserrors.NotFound(srcKey)
	}
	if args != nil {
		b.store(dstKey, src.data, args)
		return nil
	}
	b.revision++
	info := src.info
	info.Key = dstKey
	info.ETag = fmt.Sprintf("\"rev-%d\"", b.revision)
	b.objects[dstKey] = &memObject{data: append([]byte(nil), src.data...), info: info}
	return nil
}

func (b *memBackend) PresignGetObject(_ context.Context, key string, expires time.Duration) (string, error) {
	return fmt.Sprintf("https://mem.invalid/%s?X-Expires=%d", key, int64(expires.Seconds())), nil
}
