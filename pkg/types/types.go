package types

import "time"

// NodeType classifies what occupies a filesystem path at a point in time.
// Exactly one of the three holds for any path, subject to store consistency.
type NodeType uint8

const (
	NodeMissing NodeType = iota
	NodeFile
	NodeDirectory
)

// String returns a human-readable name for the node type.
func (t NodeType) String() string {
	switch t {
	case NodeFile:
		return "file"
	case NodeDirectory:
		return "directory"
	default:
		return "missing"
	}
}

// ObjectInfo represents store-native metadata about a single object.
type ObjectInfo struct {
	Key                  string            `json:"key"`
	Size                 int64             `json:"size"`
	LastModified         time.Time         `json:"last_modified"`
	ETag                 string            `json:"etag"`
	ContentType          string            `json:"content_type"`
	ContentEncoding      string            `json:"content_encoding,omitempty"`
	CacheControl         string            `json:"cache_control,omitempty"`
	StorageClass         string            `json:"storage_class,omitempty"`
	VersionID            string            `json:"version_id,omitempty"`
	ServerSideEncryption string            `json:"server_side_encryption,omitempty"`
	Metadata             map[string]string `json:"metadata,omitempty"`
}

// DirEntry represents one immediate child of a directory.
type DirEntry struct {
	Name    string    `json:"name"`
	IsDir   bool      `json:"is_dir"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mod_time"`
	ETag    string    `json:"etag,omitempty"`
}

// Range represents a byte range within an object. Length < 0 means
// "to the end of the object".
type Range struct {
	Offset int64 `json:"offset"`
	Length int64 `json:"length"`
}

// ListQuery describes one page request against the store's flat namespace.
type ListQuery struct {
	Prefix            string
	Delimiter         string
	ContinuationToken string
	MaxKeys           int32
}

// ListPage is one page of results from a prefix listing. CommonPrefixes
// hold the implied one-level subdirectory groupings when a delimiter was
// supplied.
type ListPage struct {
	Objects           []ObjectInfo
	CommonPrefixes    []string
	ContinuationToken string
	Truncated         bool
}

// Info namespaces selectable on Stat calls. Basic is always populated.
const (
	NamespaceBasic   = "basic"
	NamespaceDetails = "details"
	NamespaceS3      = "s3"
	NamespaceURLs    = "urls"
)

// Info is the generic filesystem info record exposed to callers.
type Info struct {
	// Basic namespace.
	Name  string `json:"name"`
	IsDir bool   `json:"is_dir"`

	// Details namespace.
	Size     int64     `json:"size"`
	Modified time.Time `json:"modified"`

	// S3 namespace: raw store attributes keyed by attribute name,
	// populated only when requested.
	S3 map[string]string `json:"s3,omitempty"`

	// URLs namespace: a time-limited download URL, populated only when
	// requested.
	DownloadURL string `json:"download_url,omitempty"`
}

// Type returns the node type described by the info record.
func (i *Info) Type() NodeType {
	if i.IsDir {
		return NodeDirectory
	}
	return NodeFile
}
