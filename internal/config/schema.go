package config

import (
	"context"
	"os"

	"github.com/tfcanvas/canvas/internal/schema"
)

// SchemaSource opens the configured document source. It returns nil when
// neither a bucket nor a directory is set.
func (c *Config) SchemaSource(ctx context.Context) (schema.Source, error) {
	switch {
	case c.Schema.S3Bucket != "":
		src, err := schema.NewS3Source(ctx, c.Schema.S3Bucket, c.Schema.S3Prefix, c.Schema.S3Region, c.Schema.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return src, nil
	case c.Schema.Dir != "":
		return schema.NewFSSource(os.DirFS(c.Schema.Dir), "."), nil
	}
	return nil, nil
}

// Catalog builds a catalog over the configured source and loads the
// configured version. Without a source the built-in table is used.
func (c *Config) Catalog(ctx context.Context) (*schema.Catalog, error) {
	src, err := c.SchemaSource(ctx)
	if err != nil {
		return nil, err
	}
	cat := schema.NewCatalog(src)
	if src != nil {
		cat.Reload(ctx, c.Schema.Version)
	}
	return cat, nil
}
