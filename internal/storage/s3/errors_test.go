package s3

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/objectfs/s3fs/pkg/fserrors"
)

func responseError(status int) error {
	return &awshttp.ResponseError{
		ResponseError: &smithyhttp.ResponseError{
			Response: &smithyhttp.Response{Response: &http.Response{StatusCode: status}},
			Err:      errors.New("http error"),
		},
	}
}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want fserrors.Kind
	}{
		{name: "no such key", err: &s3types.NoSuchKey{}, want: fserrors.KindResourceNotFound},
		{name: "not found", err: &s3types.NotFound{}, want: fserrors.KindResourceNotFound},
		{name: "no such bucket", err: &s3types.NoSuchBucket{}, want: fserrors.KindResourceNotFound},
		{name: "wrapped no such key", err: fmt.Errorf("head: %w", &s3types.NoSuchKey{}), want: fserrors.KindResourceNotFound},
		{name: "http 404", err: responseError(404), want: fserrors.KindResourceNotFound},
		{name: "http 403", err: responseError(403), want: fserrors.KindPermissionDenied},
		{name: "api code NoSuchKey", err: &smithy.GenericAPIError{Code: "NoSuchKey"}, want: fserrors.KindResourceNotFound},
		{name: "api code AccessDenied", err: &smithy.GenericAPIError{Code: "AccessDenied"}, want: fserrors.KindPermissionDenied},
		{name: "api code unknown", err: &smithy.GenericAPIError{Code: "SlowDown"}, want: fserrors.KindOperationFailed},
		{name: "plain error", err: errors.New("connection reset"), want: fserrors.KindOperationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			translated := translateError("test", "some/key", tt.err)
			assert.Equal(t, tt.want, fserrors.KindOf(translated))

			var fsErr *fserrors.Error
			require.ErrorAs(t, translated, &fsErr)
			assert.Equal(t, "test", fsErr.Op)
			assert.Equal(t, "some/key", fsErr.Path)
			assert.ErrorIs(t, translated, tt.err, "original error preserved as cause")
		})
	}
}

func TestTranslateErrorNil(t *testing.T) {
	assert.NoError(t, translateError("test", "key", nil))
}

func TestTranslateErrorPassthrough(t *testing.T) {
	original := fserrors.NotFound("/a/b").WithOp("head")
	translated := translateError("list", "other", original)
	assert.Same(t, original, translated, "taxonomy errors are not rewrapped")
}
