// Package gitvcs exposes the first-parent history of a git repository as a
// vcs.Repository. Rename detection is delegated to go-git's tree diff.
package gitvcs

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/yaklabco/lifespan/pkg/vcs"
)

// Compile-time interface check.
var _ vcs.Repository = (*Repo)(nil)

// Options bounds the walked history.
type Options struct {
	// From is the oldest revision to visit. Empty means the root commit.
	From string

	// To is the newest revision to visit. Empty means HEAD.
	To string
}

// Repo is a git-backed vcs.Repository.
type Repo struct {
	repo *git.Repository
	opts Options

	mu    sync.Mutex
	step  int
	blobs map[plumbing.Hash]*cachedBlob
}

// cachedBlob is blob content tagged with the last walk step that read it.
type cachedBlob struct {
	data []byte
	used int
}

// Open opens the repository containing path.
func Open(path string, opts Options) (*Repo, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository %s: %w", path, err)
	}
	return New(repo, opts), nil
}

// New wraps an already opened go-git repository.
func New(repo *git.Repository, opts Options) *Repo {
	return &Repo{
		repo:  repo,
		opts:  opts,
		blobs: make(map[plumbing.Hash]*cachedBlob),
	}
}

// Walk implements vcs.Repository. It visits the first-parent chain from
// Options.From to Options.To, oldest first, with ordinals starting at 1.
// The first visited revision has no predecessor and all its files are added.
func (r *Repo) Walk(ctx context.Context, fn func(*vcs.RevisionRange) error) error {
	commits, err := r.history()
	if err != nil {
		return err
	}

	var prevTree *object.Tree
	var prevID string
	for idx, commit := range commits {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("walk cancelled: %w", err)
		}

		tree, err := commit.Tree()
		if err != nil {
			return fmt.Errorf("tree of %s: %w", commit.Hash, err)
		}

		id := commit.Hash.String()
		changes, err := r.fileChanges(ctx, prevTree, tree, prevID, id)
		if err != nil {
			return fmt.Errorf("diff %s: %w", id, err)
		}

		r.advance(idx + 1)

		rr := &vcs.RevisionRange{
			Ordinal:     idx + 1,
			Revision:    id,
			Predecessor: prevID,
			FileChanges: changes,
			Commits:     []vcs.Commit{toCommit(commit)},
		}
		if err := fn(rr); err != nil {
			if errors.Is(err, vcs.SkipAll) {
				return nil
			}
			return err
		}

		prevTree = tree
		prevID = id
	}

	return nil
}

// Files implements vcs.Repository.
func (r *Repo) Files(ctx context.Context, revision string) ([]vcs.File, error) {
	commit, err := r.resolve(revision)
	if err != nil {
		return nil, err
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("tree of %s: %w", revision, err)
	}

	id := commit.Hash.String()
	var files []vcs.File
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		files = append(files, r.file(f.Name, id, &f.Blob))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list files of %s: %w", revision, err)
	}

	slices.SortFunc(files, func(a, b vcs.File) int {
		return strings.Compare(a.Path(), b.Path())
	})
	return files, nil
}

// history returns the first-parent chain between the configured bounds, oldest first.
func (r *Repo) history() ([]*object.Commit, error) {
	head, err := r.resolve(r.opts.To)
	if err != nil {
		return nil, err
	}

	var stop plumbing.Hash
	if r.opts.From != "" {
		from, err := r.resolve(r.opts.From)
		if err != nil {
			return nil, err
		}
		stop = from.Hash
	}

	var chain []*object.Commit
	for commit := head; ; {
		chain = append(chain, commit)
		if commit.Hash == stop || commit.NumParents() == 0 {
			break
		}
		parent, err := commit.Parent(0)
		if err != nil {
			return nil, fmt.Errorf("parent of %s: %w", commit.Hash, err)
		}
		commit = parent
	}

	if !stop.IsZero() && chain[len(chain)-1].Hash != stop {
		return nil, fmt.Errorf("revision %s is not a first-parent ancestor of %s", r.opts.From, head.Hash)
	}

	slices.Reverse(chain)
	return chain, nil
}

func (r *Repo) resolve(revision string) (*object.Commit, error) {
	if revision == "" {
		revision = "HEAD"
	}
	hash, err := r.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", revision, err)
	}
	commit, err := r.repo.CommitObject(*hash)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", revision, err)
	}
	return commit, nil
}

func (r *Repo) fileChanges(ctx context.Context, from, to *object.Tree, fromID, toID string) ([]*vcs.FileChange, error) {
	changes, err := object.DiffTreeWithOptions(ctx, from, to, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, err
	}

	out := make([]*vcs.FileChange, 0, len(changes))
	for _, change := range changes {
		oldFile, newFile, err := change.Files()
		if err != nil {
			return nil, fmt.Errorf("files of %s: %w", change, err)
		}

		var oldSide, newSide vcs.File
		if oldFile != nil {
			oldSide = r.file(change.From.Name, fromID, &oldFile.Blob)
		}
		if newFile != nil {
			newSide = r.file(change.To.Name, toID, &newFile.Blob)
		}
		if oldSide == nil && newSide == nil {
			continue
		}
		out = append(out, vcs.NewFileChange(oldSide, newSide))
	}

	slices.SortStableFunc(out, func(a, b *vcs.FileChange) int {
		return strings.Compare(changeKey(a), changeKey(b))
	})
	return out, nil
}

func changeKey(c *vcs.FileChange) string {
	if c.New != nil {
		return c.New.Path()
	}
	return c.Old.Path()
}

func toCommit(c *object.Commit) vcs.Commit {
	message, _, _ := strings.Cut(c.Message, "\n")
	return vcs.Commit{
		ID:      c.Hash.String(),
		Author:  c.Author.Name,
		Message: strings.TrimSpace(message),
		Time:    c.Author.When,
	}
}

// advance moves the cache to a new walk step. Only blobs read during the
// previous step can still be needed, as predecessor contents.
func (r *Repo) advance(step int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.step = step
	for hash, cached := range r.blobs {
		if cached.used < step-1 {
			delete(r.blobs, hash)
		}
	}
}

// content returns the blob bytes. Blobs are cached until two walk steps
// have passed without reading them.
func (r *Repo) content(blob *object.Blob) ([]byte, error) {
	r.mu.Lock()
	cached, ok := r.blobs[blob.Hash]
	if ok {
		cached.used = r.step
	}
	r.mu.Unlock()
	if ok {
		return cached.data, nil
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("open blob %s: %w", blob.Hash, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob %s: %w", blob.Hash, err)
	}

	r.mu.Lock()
	r.blobs[blob.Hash] = &cachedBlob{data: data, used: r.step}
	r.mu.Unlock()

	return data, nil
}
