package store

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const archiveDir = "archive"

// archiveShard compresses a shard into archive/{family}-{date}.jsonl.zst
// before retention removes the original.
func (s *Store) archiveShard(family, shardPath string) error {
	dir := filepath.Join(s.root, archiveDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create archive dir: %w", err)
	}

	src, err := os.Open(shardPath)
	if err != nil {
		return fmt.Errorf("open shard for archive: %w", err)
	}
	defer src.Close()

	destPath := filepath.Join(dir, family+"-"+filepath.Base(shardPath)+".zst")
	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return fmt.Errorf("create zstd encoder: %w", err)
	}

	if _, err := io.Copy(encoder, src); err != nil {
		encoder.Close()
		return fmt.Errorf("compress shard: %w", err)
	}

	if err := encoder.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	return nil
}
