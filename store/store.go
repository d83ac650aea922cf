// Package store resolves parameter names to the pre-fitted model artifacts kept on local disk.
package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aouyang1/go-envmonitor/logging"
	"github.com/aouyang1/go-envmonitor/models"
	"github.com/sirupsen/logrus"
)

var (
	ErrModelNotFound  = errors.New("model artifact not found")
	ErrModelCorrupt   = errors.New("model artifact is corrupt")
	ErrUnknownKind    = errors.New("unknown model kind")
	ErrMissingSection = errors.New("artifact has no section for its model kind")
)

type Options struct {
	Naming Naming

	// Cache keeps decoded models between resolves. An entry is reused only while the artifact
	// keeps the same modification time and size.
	Cache  bool
	Logger logrus.FieldLogger
}

func NewDefaultOptions() *Options {
	return &Options{
		Naming: DefaultNaming,
		Cache:  true,
	}
}

type cacheEntry struct {
	modTime time.Time
	size    int64
	model   models.Forecaster
}

// Store is the model store accessor over a directory of artifacts.
type Store struct {
	dir string
	opt *Options
	log logrus.FieldLogger

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

func New(dir string, opt *Options) *Store {
	if opt == nil {
		opt = NewDefaultOptions()
	}
	log := opt.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		dir:     dir,
		opt:     opt,
		log:     log.WithField("component", "store"),
		entries: make(map[string]cacheEntry),
	}
}

func (s *Store) Dir() string {
	return s.dir
}

// Path returns the artifact location for a parameter.
func (s *Store) Path(parameter string) string {
	return filepath.Join(s.dir, s.opt.Naming.Key(parameter))
}

// Exists reports whether an artifact file exists for the parameter.
func (s *Store) Exists(parameter string) bool {
	_, err := s.stat(parameter)
	return err == nil
}

func (s *Store) stat(parameter string) (fs.FileInfo, error) {
	key := s.opt.Naming.Key(parameter)
	if strings.ContainsAny(key, `/\`) {
		return nil, fmt.Errorf("invalid artifact name %q, %w", key, ErrModelNotFound)
	}
	path := filepath.Join(s.dir, key)
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%q at %s, %w", parameter, path, ErrModelNotFound)
		}
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, %w", path, ErrModelNotFound)
	}
	return info, nil
}

// Resolve loads the model bound to parameter.
func (s *Store) Resolve(parameter string) (models.Forecaster, error) {
	info, err := s.stat(parameter)
	if err != nil {
		return nil, err
	}
	path := s.Path(parameter)

	if s.opt.Cache {
		s.mu.RLock()
		entry, exists := s.entries[path]
		s.mu.RUnlock()
		if exists && entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
			s.log.WithField("parameter", parameter).Debug("model cache hit")
			return entry.model, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%q at %s, %w", parameter, path, ErrModelNotFound)
		}
		return nil, err
	}

	model, err := Decode(data, parameter)
	if err != nil {
		return nil, fmt.Errorf("%s, %w", path, err)
	}
	s.log.WithFields(logrus.Fields{
		"parameter": parameter,
		"path":      path,
	}).Debug("loaded model artifact")

	if s.opt.Cache {
		s.mu.Lock()
		s.entries[path] = cacheEntry{
			modTime: info.ModTime(),
			size:    info.Size(),
			model:   model,
		}
		s.mu.Unlock()
	}
	return model, nil
}

// Save writes an artifact under the key of its parameter.
func (s *Store) Save(a *Artifact) error {
	if a.Parameter == "" {
		return fmt.Errorf("artifact has no parameter, %w", ErrModelCorrupt)
	}
	return WriteArtifact(s.Path(a.Parameter), a)
}
