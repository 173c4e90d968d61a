package s3

import (
	"errors"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/objectfs/s3fs/pkg/fserrors"
)

// translateError maps an SDK error to the filesystem error taxonomy. The
// original error is preserved as the cause for diagnostics. Errors that are
// already taxonomy errors pass through unchanged.
func translateError(op, key string, err error) error {
	if err == nil {
		return nil
	}

	var fsErr *fserrors.Error
	if errors.As(err, &fsErr) {
		return err
	}

	var noSuchKey *s3types.NoSuchKey
	var notFound *s3types.NotFound
	var noSuchBucket *s3types.NoSuchBucket
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) || errors.As(err, &noSuchBucket) {
		return fserrors.NotFound(key).WithOp(op).WithCause(err)
	}

	var respErr *awshttp.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.HTTPStatusCode() {
		case 404:
			return fserrors.NotFound(key).WithOp(op).WithCause(err)
		case 403:
			return fserrors.PermissionDenied(key).WithOp(op).WithCause(err)
		}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fserrors.NotFound(key).WithOp(op).WithCause(err)
		case "AccessDenied", "Forbidden":
			return fserrors.PermissionDenied(key).WithOp(op).WithCause(err)
		}
	}

	// Cancellation, timeouts and transport failures all surface as a
	// generic operation failure carrying the underlying cause.
	return fserrors.OperationFailed(key, err).WithOp(op)
}
