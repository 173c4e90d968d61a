package types

// UploadArgs carries the settable subset of object metadata applied when an
// object is committed to the store. Filesystem-instance defaults are merged
// with per-call overrides, call-level values winning key by key.
type UploadArgs struct {
	ContentType          string            `yaml:"content_type" json:"content_type,omitempty"`
	ContentEncoding      string            `yaml:"content_encoding" json:"content_encoding,omitempty"`
	ContentDisposition   string            `yaml:"content_disposition" json:"content_disposition,omitempty"`
	CacheControl         string            `yaml:"cache_control" json:"cache_control,omitempty"`
	ACL                  string            `yaml:"acl" json:"acl,omitempty"`
	StorageClass         string            `yaml:"storage_class" json:"storage_class,omitempty"`
	ServerSideEncryption string            `yaml:"server_side_encryption" json:"server_side_encryption,omitempty"`
	SSEKMSKeyID          string            `yaml:"sse_kms_key_id" json:"sse_kms_key_id,omitempty"`
	Metadata             map[string]string `yaml:"metadata" json:"metadata,omitempty"`
}

// Merge returns a copy of the arguments with every non-zero field of override
// taking precedence. Metadata maps are merged key by key.
func (a *UploadArgs) Merge(override *UploadArgs) *UploadArgs {
	merged := UploadArgs{}
	if a != nil {
		merged = *a
		if a.Metadata != nil {
			merged.Metadata = make(map[string]string, len(a.Metadata))
			for k, v := range a.Metadata {
				merged.Metadata[k] = v
			}
		}
	}
	if override == nil {
		return &merged
	}
	if override.ContentType != "" {
		merged.ContentType = override.ContentType
	}
	if override.ContentEncoding != "" {
		merged.ContentEncoding = override.ContentEncoding
	}
	if override.ContentDisposition != "" {
		merged.ContentDisposition = override.ContentDisposition
	}
	if override.CacheControl != "" {
		merged.CacheControl = override.CacheControl
	}
	if override.ACL != "" {
		merged.ACL = override.ACL
	}
	if override.StorageClass != "" {
		merged.StorageClass = override.StorageClass
	}
	if override.ServerSideEncryption != "" {
		merged.ServerSideEncryption = override.ServerSideEncryption
	}
	if override.SSEKMSKeyID != "" {
		merged.SSEKMSKeyID = override.SSEKMSKeyID
	}
	if len(override.Metadata) > 0 {
		if merged.Metadata == nil {
			merged.Metadata = make(map[string]string, len(override.Metadata))
		}
		for k, v := range override.Metadata {
			merged.Metadata[k] = v
		}
	}
	return &merged
}

// DownloadArgs carries per-call options applied when fetching an object.
type DownloadArgs struct {
	VersionID string `yaml:"version_id" json:"version_id,omitempty"`
}

// Merge returns a copy of the arguments with every non-zero field of override
// taking precedence.
func (a *DownloadArgs) Merge(override *DownloadArgs) *DownloadArgs {
	merged := DownloadArgs{}
	if a != nil {
		merged = *a
	}
	if override == nil {
		return &merged
	}
	if override.VersionID != "" {
		merged.VersionID = override.VersionID
	}
	return &merged
}
