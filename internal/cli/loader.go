package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shanehandley/servo/internal/pipeline"
)

// Loader error codes.
const (
	ErrCodeNotFound  = "E001" // path does not exist or is not usable
	ErrCodeNoFiles   = "E002" // no declaration units found
	ErrCodeReadError = "E003" // unit could not be read
	ErrCodeGeneric   = "E999"
)

// LoadError reports a failure to load declaration units, before the
// pipeline ever runs.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadUnits reads declaration units for the pipeline. path may be a
// single .webidl file or a directory, which is walked recursively.
// Units are ordered by path so diagnostics are reproducible no matter
// how the filesystem enumerates entries.
//
// The pipeline core performs no I/O; this loader is the external
// collaborator that feeds it already-read text.
func LoadUnits(path string) ([]pipeline.Unit, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing %s: %v", path, err)}
	}

	var files []string
	if info.IsDir() {
		err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.HasSuffix(p, ".webidl") {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error scanning %s: %v", path, err)}
		}
		if len(files) == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no .webidl files found in %s", path)}
		}
		sort.Strings(files)
	} else {
		files = []string{path}
	}

	units := make([]pipeline.Unit, 0, len(files))
	for _, f := range files {
		src, err := os.ReadFile(f)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeReadError, Message: fmt.Sprintf("reading %s: %v", f, err)}
		}
		units = append(units, pipeline.Unit{Name: filepath.Base(f), Source: string(src)})
	}
	return units, nil
}
