package content

import (
	"io/fs"
	"os"
	"path"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// FromDir indexes the markdown files under dir.
func FromDir(dir string) (*Index, error) {
	idx, err := FromFS(os.DirFS(dir), ".")
	if err != nil {
		return nil, err
	}
	idx.source = dir
	return idx, nil
}

// FromFS indexes the markdown files under root in fsys. Hidden directories
// and node_modules are skipped.
func FromFS(fsys fs.FS, root string) (*Index, error) {
	root = path.Clean(root)
	idx := newIndex(root)
	err := fs.WalkDir(fsys, root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != root && skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !isMarkdown(d.Name()) {
			return nil
		}
		rel := p
		if root != "." {
			rel = p[len(root)+1:]
		}
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return err
		}
		doc, err := parseDocument(RouteFor(rel), rel, data)
		if err != nil {
			return derrors.WrapError(err, derrors.CategoryContent, "parse document").
				WithContext("file", rel).
				Build()
		}
		idx.add(doc)
		return nil
	})
	if err != nil {
		if derrors.IsClassified(err) {
			return nil, err
		}
		return nil, derrors.WrapError(err, derrors.CategoryFileSystem, "index content directory").
			WithContext("root", root).
			Build()
	}
	idx.seal()
	return idx, nil
}
