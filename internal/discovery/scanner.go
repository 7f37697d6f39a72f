// Package discovery finds projects on disk and records them.
package discovery

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/asteroid-belt/ccm/internal/models"
)

// Project types assigned by the scanner.
const (
	TypeDockerGroup = "docker_group"
	TypeDocker      = "docker"
	TypeNode        = "node"
	TypeWeb         = "web"
	TypeRust        = "rust"
	TypeGo          = "go"
	TypePython      = "python"
	TypeGeneral     = "general"
)

// knownFrameworks are matched as substrings of package.json dependency names.
var knownFrameworks = []string{
	"react", "vue", "angular", "nextjs", "nuxtjs", "gatsby", "svelte", "solid",
	"qwik", "tauri", "electron", "vite", "webpack", "rollup", "parcel", "esbuild",
	"typescript", "tailwindcss", "bootstrap", "material-ui", "ant-design",
	"chakra-ui", "shadcn/ui", "astro",
}

// ScanOptions controls a walk.
type ScanOptions struct {
	MarkerFiles    []string `json:"marker_files"`
	IgnorePatterns []string `json:"ignore_patterns"`
	MaxDepth       int      `json:"max_depth"`
}

// DefaultScanOptions returns the usual marker files and ignore prefixes.
func DefaultScanOptions() ScanOptions {
	return ScanOptions{
		MarkerFiles: []string{
			"package.json", "Cargo.toml", "go.mod", "pyproject.toml",
			"Dockerfile", "docker-compose.yml", "index.html",
		},
		IgnorePatterns: []string{".", "node_modules", "target", "dist", "vendor"},
		MaxDepth:       3,
	}
}

// Scanner walks a directory tree looking for projects.
type Scanner struct{}

// NewScanner creates a new scanner.
func NewScanner() *Scanner {
	return &Scanner{}
}

type queued struct {
	dir   string
	depth int
}

// Scan walks root breadth-first and returns one candidate per project
// directory. A project's sub-directories are not walked. Category is left
// empty.
func (s *Scanner) Scan(root string, opts ScanOptions) ([]models.CreateProjectRequest, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan %s: not a directory", root)
	}

	markers := make(map[string]bool, len(opts.MarkerFiles))
	for _, m := range opts.MarkerFiles {
		markers[m] = true
	}

	var found []models.CreateProjectRequest
	queue := []queued{{dir: root, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth > opts.MaxDepth {
			continue
		}
		if cur.depth > 0 && ignored(filepath.Base(cur.dir), opts.IgnorePatterns) {
			continue
		}

		// Unreadable directories are skipped.
		entries, err := os.ReadDir(cur.dir)
		if err != nil {
			continue
		}

		if hasDockerDir(cur.dir, entries) {
			found = append(found, candidate(cur.dir, TypeDockerGroup, "Docker group project"))
			continue
		}

		if projectType, ok := markerType(entries, markers); ok {
			found = append(found, candidate(cur.dir, projectType, projectType+" project"))
			continue
		}

		for _, e := range entries {
			if isDir(cur.dir, e) {
				queue = append(queue, queued{dir: filepath.Join(cur.dir, e.Name()), depth: cur.depth + 1})
			}
		}
	}

	return found, nil
}

func ignored(name string, patterns []string) bool {
	for _, p := range patterns {
		if strings.HasPrefix(name, p) {
			return true
		}
	}
	return false
}

// isDir follows symlinks.
func isDir(parent string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(parent, e.Name()))
	return err == nil && info.IsDir()
}

func hasDockerDir(dir string, entries []os.DirEntry) bool {
	for _, e := range entries {
		if e.Name() == "docker" && isDir(dir, e) {
			return true
		}
	}
	return false
}

// markerType returns the type for the first marker file in entries.
func markerType(entries []os.DirEntry, markers map[string]bool) (string, bool) {
	for _, e := range entries {
		if !markers[e.Name()] {
			continue
		}
		switch e.Name() {
		case "docker-compose.yml", "Dockerfile":
			return TypeDocker, true
		case "package.json":
			return TypeNode, true
		case "index.html":
			return TypeWeb, true
		case "Cargo.toml":
			return TypeRust, true
		case "go.mod":
			return TypeGo, true
		case "pyproject.toml":
			return TypePython, true
		default:
			return TypeGeneral, true
		}
	}
	return "", false
}

func candidate(dir, projectType, description string) models.CreateProjectRequest {
	frameworks := append(DetectFrameworks(dir), projectType)
	return models.CreateProjectRequest{
		Name:        filepath.Base(dir),
		Path:        dir,
		Frameworks:  dedupe(frameworks),
		ProjectType: projectType,
		Description: &description,
	}
}

// DetectFrameworks lists the known frameworks used by dir/package.json.
// A missing or unreadable manifest yields nothing.
func DetectFrameworks(dir string) []string {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil
	}
	var manifest struct {
		Dependencies    map[string]json.RawMessage `json:"dependencies"`
		DevDependencies map[string]json.RawMessage `json:"devDependencies"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return nil
	}

	var found []string
	for _, fw := range knownFrameworks {
		if usesFramework(manifest.Dependencies, fw) || usesFramework(manifest.DevDependencies, fw) {
			found = append(found, fw)
		}
	}
	return found
}

func usesFramework(deps map[string]json.RawMessage, fw string) bool {
	for name := range deps {
		if strings.Contains(name, fw) {
			return true
		}
	}
	return false
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
