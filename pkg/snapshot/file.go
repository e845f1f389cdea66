package snapshot

import (
	"context"
	"fmt"
	"os"

	"github.com/harrisonrobin/tasktrack/pkg/model"
	"github.com/harrisonrobin/tasktrack/pkg/util"
)

// FileAdapter keeps the snapshot in a single file encoded by Codec.
type FileAdapter struct {
	Path  string
	Codec Codec
}

// NewFile returns a file-backed adapter. A nil codec means JSON.
func NewFile(path string, codec Codec) *FileAdapter {
	if codec == nil {
		codec = JSONCodec{}
	}
	return &FileAdapter{Path: path, Codec: codec}
}

func (f *FileAdapter) Load(ctx context.Context) (map[string]model.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read snapshot %s: %w", f.Path, err)
	}

	var doc document
	if err := f.Codec.Decode(data, &doc); err != nil {
		return nil, err
	}
	if doc.Version < 1 {
		return nil, fmt.Errorf("failed to decode snapshot %s: missing or invalid version %d", f.Path, doc.Version)
	}
	if doc.Version > documentVersion {
		return nil, fmt.Errorf("snapshot version %d is newer than supported version %d", doc.Version, documentVersion)
	}
	if doc.Tasks == nil {
		doc.Tasks = make(map[string]model.Task)
	}
	if err := validate(doc.Tasks); err != nil {
		return nil, fmt.Errorf("invalid snapshot %s: %w", f.Path, err)
	}
	return doc.Tasks, nil
}

// Save replaces the snapshot file. ctx is checked before encoding and again
// before the old file is replaced; the write itself is not interrupted.
func (f *FileAdapter) Save(ctx context.Context, tasks map[string]model.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := f.Codec.Encode(document{Version: documentVersion, Tasks: tasks})
	if err != nil {
		return err
	}

	// Last chance to abandon before the old snapshot is replaced.
	if err := ctx.Err(); err != nil {
		return err
	}
	return util.WriteFileAtomic(f.Path, data, 0600)
}
