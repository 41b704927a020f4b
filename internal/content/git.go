package content

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// FromGit indexes the markdown files committed on branch of the repository at
// repoPath, limited to dir when set. An empty branch reads HEAD. The working
// tree is never touched.
func FromGit(ctx context.Context, repoPath, branch, dir string) (*Index, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return nil, gitError(err, "open repository", repoPath, branch)
	}

	var ref *plumbing.Reference
	if branch == "" {
		ref, err = repo.Head()
	} else {
		ref, err = repo.Reference(plumbing.NewBranchReferenceName(branch), true)
	}
	if err != nil {
		return nil, gitError(err, "resolve branch", repoPath, branch)
	}

	commit, err := repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, gitError(err, "get commit object", repoPath, branch)
	}
	tree, err := commit.Tree()
	if err != nil {
		return nil, gitError(err, "get tree", repoPath, branch)
	}
	if dir = strings.Trim(dir, "/"); dir != "" && dir != "." {
		tree, err = tree.Tree(dir)
		if err != nil {
			return nil, gitError(err, "find docs directory "+dir, repoPath, branch)
		}
	}

	idx := newIndex(fmt.Sprintf("%s@%s", repoPath, ref.Name().Short()))
	err = tree.Files().ForEach(func(f *object.File) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !isMarkdown(f.Name) || hiddenPath(f.Name) {
			return nil
		}
		data, err := f.Contents()
		if err != nil {
			return err
		}
		doc, err := parseDocument(RouteFor(f.Name), f.Name, []byte(data))
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryContent, "parse document").
				WithContext("file", f.Name).
				Build()
		}
		idx.add(doc)
		return nil
	})
	if err != nil {
		if derrors.IsClassified(err) {
			return nil, err
		}
		return nil, gitError(err, "read tree", repoPath, branch)
	}
	idx.seal()
	return idx, nil
}

func hiddenPath(name string) bool {
	for _, seg := range strings.Split(path.Dir(name), "/") {
		if skipDir(seg) {
			return true
		}
	}
	return false
}

func gitError(err error, op, repoPath, branch string) error {
	return derrors.WrapError(err, derrors.CategoryGit, op).
		WithContext("repo", repoPath).
		WithContext("branch", branch).
		Build()
}
