package export

import (
	"io"
	"os"
	"path/filepath"

	"github.com/airenas/ibm1/internal/pkg/apperr"
	"github.com/airenas/ibm1/internal/pkg/cmdapp"
)

// WriterCloser keeps Writer interface and close function
type WriterCloser interface {
	io.Writer
	Close() error
}

// OpenFileFunc declares function to create temporary file in dir, returns writer and its name
type OpenFileFunc func(dir, pattern string) (WriterCloser, string, error)

// LocalFileSaver saves files on local disk. Every file is written to a temporary name
// first, the files are renamed only when all of them are complete
type LocalFileSaver struct {
	// Dir is the folder to save into
	Dir          string
	OpenFileFunc OpenFileFunc
	RenameFunc   func(from, to string) error
}

// NewLocalFileSaver creates LocalFileSaver instance
func NewLocalFileSaver(dir string) (*LocalFileSaver, error) {
	if dir == "" {
		dir = "."
	}
	cmdapp.Log.Infof("Init Local File Saver at: %s", dir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, apperr.WrapIO(err, "create dir", dir)
	}
	return &LocalFileSaver{Dir: dir, OpenFileFunc: createTemp, RenameFunc: os.Rename}, nil
}

// Save saves all files into Dir or none of them.
// On failure temporary files and already renamed files are removed
func (fs *LocalFileSaver) Save(files ...File) error {
	tmps := make([]string, 0, len(files))
	sizes := make([]int64, 0, len(files))
	for _, f := range files {
		tmp, size, err := fs.writeTemp(f)
		if err != nil {
			removeFiles(tmps)
			return err
		}
		tmps, sizes = append(tmps, tmp), append(sizes, size)
	}
	saved := make([]string, 0, len(files))
	for i, f := range files {
		fileName := filepath.Join(fs.Dir, f.Name)
		if err := fs.RenameFunc(tmps[i], fileName); err != nil {
			removeFiles(tmps[i:])
			removeFiles(saved)
			return apperr.WrapIO(err, "rename file", fileName)
		}
		saved = append(saved, fileName)
	}
	for i, fileName := range saved {
		cmdapp.Log.Infof("Saved file %s. Size = %d", fileName, sizes[i])
	}
	return nil
}

func (fs *LocalFileSaver) writeTemp(file File) (string, int64, error) {
	fileName := filepath.Join(fs.Dir, file.Name)
	f, tmp, err := fs.OpenFileFunc(fs.Dir, file.Name+".tmp-*")
	if err != nil {
		return "", 0, apperr.WrapIO(err, "create file", fileName)
	}
	savedBytes, err := io.Copy(f, file.Data)
	if cErr := f.Close(); err == nil {
		err = cErr
	}
	if err != nil {
		os.Remove(tmp)
		return "", 0, apperr.WrapIO(err, "save file", fileName)
	}
	return tmp, savedBytes, nil
}

func removeFiles(names []string) {
	for _, n := range names {
		if err := os.Remove(n); err != nil && !os.IsNotExist(err) {
			cmdapp.Log.Warnf("Can't remove %s: %v", n, err)
		}
	}
}

func createTemp(dir, pattern string) (WriterCloser, string, error) {
	f, err := os.CreateTemp(dir, pattern)
	if err != nil {
		return nil, "", err
	}
	return f, f.Name(), nil
}
