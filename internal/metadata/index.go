package metadata

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/frederic-klein/whatrequires/internal/dist"
)

// DirIndex enumerates installed Python distributions found under one or more
// site-packages directories. Enumeration is read-only; order is not
// significant and callers must not rely on it.
type DirIndex struct {
	dirs []string
}

// NewDirIndex creates an index over the given site-packages directories.
func NewDirIndex(dirs ...string) *DirIndex {
	return &DirIndex{dirs: dirs}
}

// Distributions scans every directory and returns all readable distributions.
// Entries with unreadable or nameless metadata are skipped, not fatal:
// real-world environments routinely contain half-removed installs.
func (idx *DirIndex) Distributions() ([]dist.Distribution, error) {
	if len(idx.dirs) == 0 {
		return nil, fmt.Errorf("no site-packages directories configured")
	}

	var dists []dist.Distribution
	for _, dir := range idx.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("reading site-packages %s: %w", dir, err)
		}

		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			var d *dist.Distribution

			switch {
			case entry.IsDir() && strings.HasSuffix(entry.Name(), ".dist-info"):
				d = readDistInfo(path)
			case strings.HasSuffix(entry.Name(), ".egg-info"):
				d = readEggInfo(path, entry.IsDir())
			default:
				continue
			}

			if d != nil && d.Name != "" {
				dists = append(dists, *d)
			}
		}
	}
	return dists, nil
}

// readDistInfo parses a *.dist-info directory: Name, Version and Requires-Dist
// come from the METADATA header block, which ends at the first blank line.
func readDistInfo(dir string) *dist.Distribution {
	file, err := os.Open(filepath.Join(dir, "METADATA"))
	if err != nil {
		return nil
	}
	defer file.Close()

	d := &dist.Distribution{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = strings.TrimSpace(value)

		switch strings.ToLower(key) {
		case "name":
			d.Name = value
		case "version":
			d.Version = value
		case "requires-dist":
			if value != "" {
				d.Requires = append(d.Requires, value)
			}
		}
	}
	if scanner.Err() != nil {
		return nil
	}
	return d
}

// readEggInfo parses a legacy *.egg-info entry. A directory holds PKG-INFO
// plus an optional requires.txt; a bare file is the PKG-INFO itself.
func readEggInfo(path string, isDir bool) *dist.Distribution {
	pkgInfo := path
	if isDir {
		pkgInfo = filepath.Join(path, "PKG-INFO")
	}

	d := readPkgInfo(pkgInfo)
	if d == nil {
		return nil
	}
	if isDir {
		d.Requires = readRequiresTxt(filepath.Join(path, "requires.txt"))
	}
	return d
}

func readPkgInfo(path string) *dist.Distribution {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	d := &dist.Distribution{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		switch strings.ToLower(key) {
		case "name":
			d.Name = strings.TrimSpace(value)
		case "version":
			d.Version = strings.TrimSpace(value)
		}
	}
	return d
}

// readRequiresTxt reads a setuptools requires.txt. Sectioned entries belong
// to extras or conditional environments; they are rewritten with the
// equivalent PEP 508 marker, the same shape importlib.metadata exposes.
func readRequiresTxt(path string) []string {
	file, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer file.Close()

	var reqs []string
	marker := ""

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			marker = sectionMarker(line[1 : len(line)-1])
			continue
		}

		if marker != "" {
			line = line + "; " + marker
		}
		reqs = append(reqs, line)
	}
	return reqs
}

// sectionMarker converts a requires.txt section header like "security" or
// ":python_version < '3.8'" or "socks:sys_platform == 'win32'" into a marker.
func sectionMarker(section string) string {
	extra, cond, _ := strings.Cut(section, ":")
	extra = strings.TrimSpace(extra)
	cond = strings.TrimSpace(cond)

	var parts []string
	if cond != "" {
		parts = append(parts, cond)
	}
	if extra != "" {
		parts = append(parts, fmt.Sprintf("extra == %q", extra))
	}
	return strings.Join(parts, " and ")
}
