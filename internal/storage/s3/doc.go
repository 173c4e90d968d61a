/*
Package s3 implements the types.Backend storage interface over Amazon S3
using the AWS SDK for Go v2.

The client wraps the raw S3 API with the small capability set the filesystem
core consumes: single-object put/get/head/delete, paged prefix listing with a
hierarchy delimiter, server-side copy, and presigned download URLs. Whole
object transfers go through the feature/s3/manager Uploader and Downloader so
large objects use concurrent multipart transfer without the core knowing.

All store-native failures are translated into the pkg/fserrors taxonomy at
this layer; callers above never observe SDK error types.
*/
package s3
