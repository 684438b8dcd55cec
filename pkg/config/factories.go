package config

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/marmos91/unifs/pkg/metrics"
	"github.com/marmos91/unifs/pkg/vfs"
	"github.com/marmos91/unifs/pkg/vfs/altrootfs"
	"github.com/marmos91/unifs/pkg/vfs/badgerfs"
	"github.com/marmos91/unifs/pkg/vfs/memfs"
	"github.com/marmos91/unifs/pkg/vfs/metricsfs"
	"github.com/marmos91/unifs/pkg/vfs/osfs"
	"github.com/marmos91/unifs/pkg/vfs/readonlyfs"
	"github.com/marmos91/unifs/pkg/vfs/stackedfs"
	"github.com/marmos91/unifs/pkg/vfs/throttlefs"
)

// Stack is an assembled filesystem together with the cleanup for any
// backends that hold resources.
type Stack struct {
	FS      vfs.FileSystem
	closers []func() error
}

// Close releases every backend in the stack, returning the first error.
func (s *Stack) Close() error {
	var firstErr error
	for _, close := range s.closers {
		if err := close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.closers = nil
	return firstErr
}

// Build assembles the configured filesystem stack:
// backend, altroot, overlay mounts, throttling, metrics, read-only guard,
// innermost first.
func Build(cfg *Config) (*Stack, error) {
	stack := &Stack{}

	fs, err := createBackend(&cfg.Filesystem.BackendConfig, stack)
	if err != nil {
		_ = stack.Close()
		return nil, err
	}

	if cfg.Filesystem.Altroot != "" {
		fs, err = altrootfs.NewOrCreate(fs, cfg.Filesystem.Altroot)
		if err != nil {
			_ = stack.Close()
			return nil, fmt.Errorf("failed to apply altroot: %w", err)
		}
	}

	for i := range cfg.Mounts {
		overlay, err := createBackend(&cfg.Mounts[i].Overlay, stack)
		if err != nil {
			_ = stack.Close()
			return nil, fmt.Errorf("mounts[%d]: %w", i, err)
		}
		fs = stackedfs.New(fs, overlay, cfg.Mounts[i].MountPoint)
	}

	if cfg.Throttle.OpsPerSecond > 0 {
		fs = throttlefs.New(fs, cfg.Throttle.OpsPerSecond, cfg.Throttle.Burst)
	}

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		fs = metricsfs.New(fs, cfg.Filesystem.Type)
	}

	if cfg.Filesystem.ReadOnly {
		fs = readonlyfs.New(fs)
	}

	stack.FS = fs
	return stack, nil
}

// createBackend creates a filesystem backend based on configuration,
// decoding the type-specific section from the corresponding map.
func createBackend(cfg *BackendConfig, stack *Stack) (vfs.FileSystem, error) {
	switch cfg.Type {
	case "memory":
		return createMemoryBackend(cfg.Memory)
	case "os":
		return osfs.New(), nil
	case "badger":
		return createBadgerBackend(cfg.Badger, stack)
	default:
		return nil, fmt.Errorf("unknown filesystem backend type: %q", cfg.Type)
	}
}

// createMemoryBackend creates an in-memory filesystem, optionally seeded
// from a host directory.
func createMemoryBackend(options map[string]any) (vfs.FileSystem, error) {
	type MemoryBackendConfig struct {
		// SeedDir imports a host directory tree at startup
		SeedDir string `mapstructure:"seed_dir"`
	}

	var backendCfg MemoryBackendConfig
	if err := mapstructure.Decode(options, &backendCfg); err != nil {
		return nil, fmt.Errorf("failed to decode memory backend config: %w", err)
	}

	if backendCfg.SeedDir == "" {
		return memfs.New(), nil
	}

	fs, err := memfs.LoadFromDir(osfs.New(), backendCfg.SeedDir)
	if err != nil {
		return nil, fmt.Errorf("failed to seed memory backend from %s: %w", backendCfg.SeedDir, err)
	}
	return fs, nil
}

// createBadgerBackend creates a badger-backed filesystem and registers its
// Close with the stack.
func createBadgerBackend(options map[string]any, stack *Stack) (vfs.FileSystem, error) {
	type BadgerBackendConfig struct {
		// Path is the directory where BadgerDB stores its files
		Path string `mapstructure:"path"`

		// InMemory keeps the database in memory, losing contents on Close
		InMemory bool `mapstructure:"in_memory"`
	}

	var backendCfg BadgerBackendConfig
	if err := mapstructure.Decode(options, &backendCfg); err != nil {
		return nil, fmt.Errorf("failed to decode badger backend config: %w", err)
	}

	var fs *badgerfs.FS
	var err error
	if backendCfg.InMemory {
		fs, err = badgerfs.OpenInMemory()
	} else {
		if backendCfg.Path == "" {
			return nil, fmt.Errorf("badger backend: path is required")
		}
		fs, err = badgerfs.Open(backendCfg.Path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open badger backend: %w", err)
	}

	stack.closers = append(stack.closers, fs.Close)
	return fs, nil
}
