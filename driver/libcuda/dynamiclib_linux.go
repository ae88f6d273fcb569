//go:build linux

/*
 *	Copyright 2025 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package libcuda

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ebitengine/purego"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	reLdConfInclude = regexp.MustCompile(`^\s*include\s*(.*)$`)
	reLdConfComment = regexp.MustCompile(`^\s*#`)
	reLdConfPath    = regexp.MustCompile(`^\s*(.+?)\s*$`)
)

// searchPaths returns the directories (or files) where to look for the CUDA driver library.
//
// If GOCUDA_LIBRARY_PATH is set, only its entries are used.
func searchPaths() []string {
	if envPaths := os.Getenv(LibraryPathEnv); envPaths != "" {
		return splitPathList(envPaths)
	}
	paths := splitPathList(os.Getenv("LD_LIBRARY_PATH"))
	paths = loadLibraryPaths(paths, "/etc/ld.so.conf")
	// WSL keeps the driver in its own directory.
	return append(paths, "/usr/lib/wsl/lib")
}

// splitPathList splits a colon separated list of paths, dropping empty and relative entries.
func splitPathList(list string) []string {
	var paths []string
	for _, p := range strings.Split(list, ":") {
		if p == "" || !path.IsAbs(p) {
			continue
		}
		paths = append(paths, p)
	}
	return paths
}

// loadLibraryPaths appends the paths listed in an ld.so.conf formatted file, following its include directives.
func loadLibraryPaths(paths []string, fileWithIncludes string) []string {
	klog.V(2).Infof("Loading paths for libraries from %q", fileWithIncludes)
	file, err := os.Open(fileWithIncludes)
	if err != nil {
		klog.V(1).Infof("Failed to load paths for libraries from %q: %v", fileWithIncludes, err)
		return paths
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if parts := reLdConfInclude.FindStringSubmatch(line); len(parts) > 0 {
			pattern := parts[1]
			if !path.IsAbs(pattern) {
				// Relative includes are relative to the including file.
				pattern = path.Join(path.Dir(fileWithIncludes), pattern)
			}
			files, err := filepath.Glob(pattern)
			if err != nil {
				klog.Errorf("Failed to expand include entry %q in %q: %v", parts[1], fileWithIncludes, err)
				continue
			}
			for _, includeFile := range files {
				paths = loadLibraryPaths(paths, includeFile)
			}

		} else if reLdConfComment.MatchString(line) {
			continue

		} else if parts := reLdConfPath.FindStringSubmatch(line); len(parts) > 0 {
			paths = append(paths, parts[1])
		}
	}
	if err := scanner.Err(); err != nil {
		klog.Errorf("Error while loading paths for libraries from %q: %v", fileWithIncludes, err)
	}
	return paths
}

// candidates lists the library files to try, in order. The bare library names come last,
// leaving the search to the dynamic loader.
func candidates(paths []string) []string {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		for _, name := range LibraryNames {
			filePath := path.Join(p, name)
			if _, err := os.Stat(filePath); err == nil {
				files = append(files, filePath)
			}
		}
	}
	return append(files, LibraryNames...)
}

// loadDriver opens the first loadable CUDA driver library and binds its entry points.
func loadDriver() (*Driver, error) {
	var firstErr error
	for _, libPath := range candidates(searchPaths()) {
		klog.V(2).Infof("trying to load library %s", libPath)
		handle, err := purego.Dlopen(libPath, purego.RTLD_LAZY|purego.RTLD_GLOBAL)
		if err != nil {
			if firstErr == nil {
				firstErr = errors.Wrapf(err, "failed to dynamically load %q", libPath)
			}
			continue
		}
		d := &Driver{path: libPath, handle: handle}
		if err := d.bind(); err != nil {
			klog.Warningf("%v", err)
			if err2 := purego.Dlclose(handle); err2 != nil {
				klog.Warningf("Failed to close dynamic library %q: %v", libPath, err2)
			}
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return d, nil
	}
	return nil, errors.WithMessagef(firstErr, "CUDA driver library (%s) not found -- set %s to its location",
		strings.Join(LibraryNames, " or "), LibraryPathEnv)
}

// bind resolves every entry point in the library. It fails if any symbol is missing.
func (d *Driver) bind() error {
	for _, sym := range d.symbols() {
		ptr, err := purego.Dlsym(d.handle, sym.name)
		if err != nil {
			return errors.Wrapf(err, "library %q is missing symbol %q, it may be too old", d.path, sym.name)
		}
		purego.RegisterFunc(sym.fn, ptr)
	}
	return nil
}
