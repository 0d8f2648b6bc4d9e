package metadata

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// siteQuery asks the interpreter for its site-packages directories.
const siteQuery = `import json, site, sys
paths = list(site.getsitepackages())
paths.append(site.getusersitepackages())
json.dump(paths, sys.stdout)`

// DetectSitePackages locates the site-packages directories of the Python
// interpreter on PATH (override with WHATREQUIRES_PYTHON). Directories that
// do not exist are dropped.
func DetectSitePackages() ([]string, error) {
	python := os.Getenv("WHATREQUIRES_PYTHON")
	if python == "" {
		python = "python3"
	}

	out, err := exec.Command(python, "-c", siteQuery).Output()
	if err != nil {
		return nil, fmt.Errorf("querying %s for site-packages: %w", python, err)
	}

	var paths []string
	if err := json.Unmarshal(out, &paths); err != nil {
		return nil, fmt.Errorf("parsing site-packages listing: %w", err)
	}

	var dirs []string
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			dirs = append(dirs, p)
		}
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no site-packages directories found via %s", python)
	}
	return dirs, nil
}
