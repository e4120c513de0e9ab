package schema

import (
	"bytes"
	"context"
	"errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfcanvas/canvas/internal/registry"
)

func TestVersionPath(t *testing.T) {
	assert.Equal(t, "5_92_0", VersionToPath("5.92.0"))
	assert.Equal(t, "5.92.0", PathToVersion("5_92_0"))
	assert.Equal(t, "provider_schema_5_92_0.json", DocumentName("5.92.0"))

	v, ok := versionFromName("provider_schema_5_92_0.json")
	assert.True(t, ok)
	assert.Equal(t, "5.92.0", v)
	_, ok = versionFromName("provider_schema_.json")
	assert.False(t, ok)
	_, ok = versionFromName("other.json")
	assert.False(t, ok)
}

func TestCompareVersions(t *testing.T) {
	versions := []string{"5.10.0", "latest", "5.9.1", "4.67.0", "5.100.0", "beta"}
	SortVersions(versions)
	assert.Equal(t, []string{"beta", "latest", "4.67.0", "5.9.1", "5.10.0", "5.100.0"}, versions)
	assert.Equal(t, 0, CompareVersions("5.1.0", "5.1.0"))
}

type fakeS3 struct {
	objects map[string]string
}

func (f *fakeS3) ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	out := &s3.ListObjectsV2Output{}
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			out.Contents = append(out.Contents, types.Object{Key: aws.String(k)})
		}
	}
	return out, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	body, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte(body)))}, nil
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"schemas/aws/provider_schema_5_92_0.json": lambdaDoc,
		"schemas/aws/provider_schema_5_1_0.json":  lambdaDoc,
		"schemas/other/provider_schema_9_0_0.json": lambdaDoc,
	}}
	src := NewS3SourceWithClient(client, "bucket", "/schemas/aws/")

	versions, err := src.Versions(context.Background())
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"5.92.0", "5.1.0"}, versions)

	_, err = src.Open(context.Background(), "9.9.9")
	assert.True(t, errors.Is(err, fs.ErrNotExist))

	c := NewCatalog(src)
	st := c.Reload(testCtx(), "")
	assert.Equal(t, "5.92.0", st.Version)
	assert.False(t, st.Fallback)
	assert.NotEmpty(t, c.Properties(registry.LambdaFunction))
}
