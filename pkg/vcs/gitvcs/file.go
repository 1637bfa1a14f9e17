package gitvcs

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/yaklabco/lifespan/pkg/vcs"
)

var (
	_ vcs.File         = (*blobFile)(nil)
	_ vcs.TextProvider = (*blobFile)(nil)
)

// blobFile is a path at one revision backed by a git blob.
type blobFile struct {
	path     string
	revision string
	blob     *object.Blob
	repo     *Repo

	once sync.Once
	text *vcs.Text
	err  error
}

func (r *Repo) file(path, revision string, blob *object.Blob) *blobFile {
	return &blobFile{path: path, revision: revision, blob: blob, repo: r}
}

func (f *blobFile) Path() string { return f.path }

func (f *blobFile) Revision() string { return f.revision }

func (f *blobFile) Content(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	return f.repo.content(f.blob)
}

func (f *blobFile) Text(ctx context.Context) (*vcs.Text, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	f.once.Do(func() {
		var content []byte
		content, f.err = f.repo.content(f.blob)
		if f.err == nil {
			f.text = vcs.NewText(content)
		}
	})
	return f.text, f.err
}

func (f *blobFile) String() string {
	return f.path + "@" + f.revision
}
