package pdf

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/MeKo-Tech/omr/internal/utils"
)

// ExpandInputs replaces every directory argument by the page images it
// directly contains, in file-name order. Files are passed through unchanged
// so that Open can reject unsupported ones with a clear message.
func ExpandInputs(args []string) ([]string, error) {
	var inputs []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			inputs = append(inputs, arg)
			continue
		}
		files, err := imagesInDirectory(arg)
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no page images in %s", arg)
		}
		inputs = append(inputs, files...)
	}
	return inputs, nil
}

// imagesInDirectory lists supported images in dir without descending.
func imagesInDirectory(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir {
				return filepath.SkipDir
			}
			return nil
		}
		if utils.IsSupportedImage(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
