package filesystem

import (
	"context"
	"strconv"
	"time"

	"github.com/objectfs/s3fs/pkg/types"
)

// buildInfo translates store-native object metadata into the generic info
// record, populating optional namespaces on request.
func (fs *FS) buildInfo(ctx context.Context, normalized string, obj *types.ObjectInfo, isDir bool, namespaces []string) (*types.Info, error) {
	info := &types.Info{
		Name:     baseName(normalized),
		IsDir:    isDir,
		Modified: obj.LastModified,
	}
	if !isDir {
		info.Size = obj.Size
	}

	if hasNamespace(namespaces, types.NamespaceS3) {
		info.S3 = rawAttributes(obj)
	}
	if hasNamespace(namespaces, types.NamespaceURLs) && !isDir {
		url, err := fs.backend.PresignGetObject(ctx, obj.Key, time.Hour)
		if err != nil {
			return nil, err
		}
		info.DownloadURL = url
	}
	return info, nil
}

// rawAttributes flattens an ObjectInfo into the store-specific attribute
// namespace, keyed by attribute name. User-defined tags are exposed under a
// "metadata." prefix. Empty attributes are omitted.
func rawAttributes(obj *types.ObjectInfo) map[string]string {
	attrs := map[string]string{
		"key":            obj.Key,
		"content_length": strconv.FormatInt(obj.Size, 10),
	}
	if !obj.LastModified.IsZero() {
		attrs["last_modified"] = obj.LastModified.UTC().Format(time.RFC3339)
	}
	set := func(name, value string) {
		if value != "" {
			attrs[name] = value
		}
	}
	set("e_tag", obj.ETag)
	set("content_type", obj.ContentType)
	set("content_encoding", obj.ContentEncoding)
	set("cache_control", obj.CacheControl)
	set("storage_class", obj.StorageClass)
	set("version_id", obj.VersionID)
	set("server_side_encryption", obj.ServerSideEncryption)
	for k, v := range obj.Metadata {
		attrs["metadata."+k] = v
	}
	return attrs
}

func hasNamespace(namespaces []string, want string) bool {
	for _, ns := range namespaces {
		if ns == want {
			return true
		}
	}
	return false
}
