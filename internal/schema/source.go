package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/mod/semver"
)

// Source locates versioned provider schema documents.
type Source interface {
	// Versions lists the versions a document exists for, in no particular order.
	Versions(ctx context.Context) ([]string, error)
	// Open returns the document for version. A missing document is reported
	// with an error wrapping fs.ErrNotExist.
	Open(ctx context.Context, version string) (io.ReadCloser, error)
}

const (
	filePrefix = "provider_schema_"
	fileSuffix = ".json"
)

// VersionToPath normalises version separators to underscores: "5.92.0" -> "5_92_0".
func VersionToPath(version string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '-', '+', '/':
			return '_'
		}
		return r
	}, version)
}

// PathToVersion is the inverse of VersionToPath for dotted versions: "5_92_0" -> "5.92.0".
func PathToVersion(segment string) string {
	return strings.ReplaceAll(segment, "_", ".")
}

// DocumentName is the file/object name of the document for version.
func DocumentName(version string) string {
	return filePrefix + VersionToPath(version) + fileSuffix
}

func versionFromName(name string) (string, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return "", false
	}
	seg := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if seg == "" {
		return "", false
	}
	return PathToVersion(seg), true
}

// CompareVersions orders versions semantically when both parse as semver;
// semver versions sort above anything else, which sorts lexicographically.
func CompareVersions(a, b string) int {
	va, vb := "v"+a, "v"+b
	okA, okB := semver.IsValid(va), semver.IsValid(vb)
	switch {
	case okA && okB:
		return semver.Compare(va, vb)
	case okA:
		return 1
	case okB:
		return -1
	}
	return strings.Compare(a, b)
}

// SortVersions sorts versions ascending with CompareVersions.
func SortVersions(versions []string) {
	sort.SliceStable(versions, func(i, j int) bool {
		return CompareVersions(versions[i], versions[j]) < 0
	})
}

// FSSource reads documents from a directory of an fs.FS: a real directory via
// os.DirFS, a bundled embed.FS, or an fstest.MapFS in tests.
type FSSource struct {
	FS  fs.FS
	Dir string
}

// NewFSSource returns a source over dir inside fsys ("." for the root).
func NewFSSource(fsys fs.FS, dir string) *FSSource {
	if dir == "" {
		dir = "."
	}
	return &FSSource{FS: fsys, Dir: dir}
}

// Versions implements Source.
func (s *FSSource) Versions(ctx context.Context) ([]string, error) {
	entries, err := fs.ReadDir(s.FS, s.Dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("list schema directory %s: %w", s.Dir, err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if v, ok := versionFromName(e.Name()); ok {
			out = append(out, v)
		}
	}
	return out, nil
}

// Open implements Source.
func (s *FSSource) Open(ctx context.Context, version string) (io.ReadCloser, error) {
	f, err := s.FS.Open(path.Join(s.Dir, DocumentName(version)))
	if err != nil {
		return nil, fmt.Errorf("open schema %s: %w", version, err)
	}
	return f, nil
}
