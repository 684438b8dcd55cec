package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/marmos91/unifs/internal/logger"
	"github.com/marmos91/unifs/pkg/config"
	"github.com/marmos91/unifs/pkg/vfs"
	"github.com/marmos91/unifs/pkg/vfs/memfs"
)

// seedDemoTree populates an empty filesystem with a small example tree so
// the listing has something to show.
func seedDemoTree(fs vfs.FileSystem) error {
	if err := fs.CreateDirAll("/docs"); err != nil {
		return fmt.Errorf("failed to create /docs: %w", err)
	}

	files := []struct {
		path    string
		content string
	}{
		{"/docs/readme.txt", "Welcome to unifs!\nThis tree was seeded because the filesystem was empty.\n"},
		{"/docs/notes.txt", "Stack order: backend, altroot, mounts, throttle, metrics, read-only.\n"},
	}
	for _, f := range files {
		if err := fs.Write(f.path, []byte(f.content)); err != nil {
			return fmt.Errorf("failed to write %s: %w", f.path, err)
		}
	}

	if err := fs.CreateDir("/images"); err != nil {
		return fmt.Errorf("failed to create /images: %w", err)
	}
	if err := fs.Write("/images/background.png", []byte("PNG placeholder")); err != nil {
		return fmt.Errorf("failed to write /images/background.png: %w", err)
	}

	if err := fs.HardLink("/docs/readme.txt", "/readme.txt"); err != nil {
		return fmt.Errorf("failed to link /readme.txt: %w", err)
	}

	return nil
}

// listTree prints the whole tree, one entry per line.
func listTree(fs vfs.FileSystem) error {
	return vfs.Walk(fs, "/", func(entry vfs.DirEntry) error {
		fileType, err := entry.FileType()
		if err != nil {
			return err
		}

		switch {
		case fileType.IsDir():
			fmt.Printf("d %s\n", entry.Path())
		case fileType.IsSymlink():
			fmt.Printf("l %s\n", entry.Path())
		default:
			meta, err := entry.Metadata()
			if err != nil {
				return err
			}
			fmt.Printf("f %s (%d bytes)\n", entry.Path(), meta.Len())
		}
		return nil
	})
}

// exportZip snapshots the whole tree into an in-memory filesystem and writes
// it out as a zip archive. Going through a snapshot makes the export work
// for any stack, not just the memory backend.
func exportZip(fs vfs.FileSystem, path string) error {
	snapshot, err := memfs.LoadFromDir(fs, "/")
	if err != nil {
		return fmt.Errorf("failed to snapshot filesystem: %w", err)
	}

	data, err := snapshot.Zip()
	if err != nil {
		return fmt.Errorf("failed to build zip archive: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write zip archive: %w", err)
	}
	return nil
}

func main() {
	configPath := flag.String("config", "", "Path to config file (default: "+config.GetDefaultConfigPath()+")")
	logLevel := flag.String("log-level", "", "Override log level (DEBUG, INFO, WARN, ERROR)")
	zipPath := flag.String("zip", "", "Export the filesystem as a zip archive to the given path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *logLevel != "" {
		cfg.Logging.Level = strings.ToUpper(*logLevel)
	}
	logger.SetLevel(cfg.Logging.Level)

	stack, err := config.Build(cfg)
	if err != nil {
		log.Fatalf("Failed to build filesystem stack: %v", err)
	}
	defer func() {
		if err := stack.Close(); err != nil {
			logger.Error("Failed to close filesystem stack: %v", err)
		}
	}()

	fs := stack.FS
	logger.Info("Filesystem stack ready (backend: %s)", cfg.Filesystem.Type)

	entries, err := fs.ReadDir("/")
	if err != nil {
		log.Fatalf("Failed to list root: %v", err)
	}
	if len(entries) == 0 && !cfg.Filesystem.ReadOnly {
		logger.Info("Filesystem is empty, seeding demo tree")
		if err := seedDemoTree(fs); err != nil {
			log.Fatalf("Failed to seed demo tree: %v", err)
		}
	}

	fmt.Println("unifs - stacked virtual filesystem")
	if err := listTree(fs); err != nil {
		log.Fatalf("Failed to list tree: %v", err)
	}

	if *zipPath != "" {
		if err := exportZip(fs, *zipPath); err != nil {
			log.Fatalf("Failed to export zip: %v", err)
		}
		logger.Info("Filesystem exported to %s", *zipPath)
	}
}
