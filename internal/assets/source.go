// Package assets reads the static tutorial asset tree (categories, course
// outlines, topic metadata, quizzes and markdown bodies) from a Source.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/p-n-ai/pai-tutorials/internal/platform/cache"
)

// Source reads raw asset documents by slash-separated name.
type Source interface {
	Read(ctx context.Context, name string) ([]byte, error)
}

// DirSource reads assets from a directory on disk.
type DirSource struct {
	root string
}

// NewDirSource creates a source rooted at dir.
func NewDirSource(dir string) (*DirSource, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("asset dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("asset dir %s is not a directory", dir)
	}
	return &DirSource{root: dir}, nil
}

// Root returns the directory the source reads from.
func (s *DirSource) Root() string {
	return s.root
}

func (s *DirSource) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(name) {
		return nil, &AssetNotFoundError{Name: name}
	}

	data, err := os.ReadFile(filepath.Join(s.root, filepath.FromSlash(name)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &AssetNotFoundError{Name: name}
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// Walk calls fn with the name of every file under the root, in lexical order.
func (s *DirSource) Walk(fn func(name string) error) error {
	return filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != s.root {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}
		return fn(filepath.ToSlash(rel))
	})
}

// RedisSource reads assets stored as Redis/Dragonfly string keys.
type RedisSource struct {
	cache  *cache.Cache
	prefix string
}

// NewRedisSource creates a source reading keys named prefix+asset name.
func NewRedisSource(c *cache.Cache, prefix string) *RedisSource {
	return &RedisSource{cache: c, prefix: prefix}
}

// Key returns the Redis key of an asset.
func (s *RedisSource) Key(name string) string {
	return s.prefix + name
}

func (s *RedisSource) Read(ctx context.Context, name string) ([]byte, error) {
	data, found, err := s.cache.Get(ctx, s.Key(name))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	if !found {
		return nil, &AssetNotFoundError{Name: name}
	}
	return data, nil
}

// Write stores an asset document.
func (s *RedisSource) Write(ctx context.Context, name string, data []byte) error {
	return s.cache.Put(ctx, s.Key(name), data)
}

// HealthCheck verifies the backing store is reachable.
func (s *RedisSource) HealthCheck(ctx context.Context) error {
	return s.cache.HealthCheck(ctx)
}

// HealthCheck verifies the asset directory is still readable.
func (s *DirSource) HealthCheck(ctx context.Context) error {
	if _, err := os.Stat(s.root); err != nil {
		return fmt.Errorf("asset dir: %w", err)
	}
	return nil
}

// Mirror copies every file of src into dst and returns the number copied.
func Mirror(ctx context.Context, src *DirSource, dst *RedisSource) (int, error) {
	n := 0
	err := src.Walk(func(name string) error {
		data, err := src.Read(ctx, name)
		if err != nil {
			return err
		}
		if err := dst.Write(ctx, name, data); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}
