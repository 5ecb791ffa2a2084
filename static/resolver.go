package static

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"strings"

	"github.com/freekieb7/coyote/http"
)

var ErrInvalidRoot = errors.New("static: invalid resource root")

// Resolver serves resources loaded once from a read-only file system. The
// loaded table is never modified afterwards, so a Resolver is safe for
// concurrent use.
type Resolver struct {
	resources map[string]*http.Body
}

// NewResolver loads every regular file below root in fsys. Keys are the
// slash-separated paths relative to root.
func NewResolver(fsys fs.FS, root string, logger *slog.Logger) (*Resolver, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if root == "" {
		root = "."
	}
	if !fs.ValidPath(root) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRoot, root)
	}

	sub, err := fs.Sub(fsys, root)
	if err != nil {
		return nil, fmt.Errorf("static: opening %q: %w", root, err)
	}

	resources := make(map[string]*http.Body)
	err = fs.WalkDir(sub, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}

		content, err := fs.ReadFile(sub, name)
		if err != nil {
			return fmt.Errorf("static: reading %q: %w", name, err)
		}

		resources[name] = http.BytesBody(http.ContentTypeByExtension(name), content)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("static resources loaded", "root", root, "count", len(resources))

	return &Resolver{resources: resources}, nil
}

// Resolve returns the body of the resource addressed by a request path such
// as "/index.html". Paths that are not a plain relative key below the root,
// directories and unknown files yield http.ErrResourceNotFound.
func (r *Resolver) Resolve(path string) (*http.Body, error) {
	key := strings.TrimPrefix(path, "/")
	if !fs.ValidPath(key) || key == "." {
		return nil, fmt.Errorf("%w: %s", http.ErrResourceNotFound, path)
	}

	body, found := r.resources[key]
	if !found {
		return nil, fmt.Errorf("%w: %s", http.ErrResourceNotFound, path)
	}
	return body, nil
}

func (r *Resolver) Len() int {
	return len(r.resources)
}

// Paths lists the request paths the resolver can serve, sorted.
func (r *Resolver) Paths() []string {
	paths := make([]string, 0, len(r.resources))
	for key := range r.resources {
		paths = append(paths, "/"+key)
	}
	slices.Sort(paths)
	return paths
}
