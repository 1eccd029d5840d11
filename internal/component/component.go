package component

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"beakermatrix/pkg/logging"
)

// Kind tells how a component was recognized.
type Kind string

const (
	// KindModule is a Puppet module identified by its metadata.json.
	KindModule Kind = "module"
	// KindPackage is an RPM-packaged asset identified by its build/*.spec.
	KindPackage Kind = "package"
)

const (
	metadataFile = "metadata.json"
	buildDir     = "build"
	specGlob     = "*.spec"
)

// simpAuthor is the first field of a SIMP module's metadata.json name.
const simpAuthor = "simp"

// Component is a directory holding one SIMP component.
type Component struct {
	Name string `json:"name"`
	Dir  string `json:"dir"`
	Kind Kind   `json:"kind"`
}

type metadata struct {
	Name string `json:"name"`
}

// Detect reports whether dir holds a component.
//
// A directory with a metadata.json is a module when the name's author field
// is simp ("simp", "simp-foo" or "simp/foo") and is no component otherwise.
// A directory without one is a package when it has exactly one
// build/*.spec file. Unreadable metadata is an error.
func Detect(dir string) (Component, bool, error) {
	name, found, err := moduleName(dir)
	if err != nil {
		return Component{}, false, err
	}
	if found {
		if !isSIMPModule(name) {
			logging.Debug("Component", "Skipping %s: module %q is not a SIMP module", dir, name)
			return Component{}, false, nil
		}
		return Component{Name: name, Dir: dir, Kind: KindModule}, true, nil
	}

	specs, err := filepath.Glob(filepath.Join(dir, buildDir, specGlob))
	if err != nil {
		return Component{}, false, fmt.Errorf("failed to list spec files in %s: %w", dir, err)
	}
	if len(specs) == 1 {
		return Component{Name: filepath.Base(filepath.Clean(dir)), Dir: dir, Kind: KindPackage}, true, nil
	}
	if len(specs) > 1 {
		logging.Debug("Component", "Skipping %s: %d spec files in %s", dir, len(specs), buildDir)
	}
	return Component{}, false, nil
}

// moduleName returns the name in dir's metadata.json. found is false when
// there is no metadata.json.
func moduleName(dir string) (name string, found bool, err error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataFile))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read %s in %s: %w", metadataFile, dir, err)
	}

	var md metadata
	if err := json.Unmarshal(data, &md); err != nil {
		return "", false, fmt.Errorf("failed to parse %s in %s: %w", metadataFile, dir, err)
	}
	return md.Name, true, nil
}

func isSIMPModule(name string) bool {
	author, _, _ := strings.Cut(name, "-")
	author, _, _ = strings.Cut(author, "/")
	return author == simpAuthor
}

// Scan returns the components found in the immediate subdirectories of
// parent, sorted by directory. Hidden directories are skipped.
func Scan(parent string) ([]Component, error) {
	entries, err := os.ReadDir(parent)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", parent, err)
	}

	var found []Component
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(parent, entry.Name())
		c, ok, err := Detect(dir)
		if err != nil {
			logging.Warn("Component", "Skipping %s: %v", dir, err)
			continue
		}
		if ok {
			found = append(found, c)
		}
	}

	sort.Slice(found, func(i, j int) bool { return found[i].Dir < found[j].Dir })
	logging.Debug("Component", "Found %d components under %s", len(found), parent)
	return found, nil
}
