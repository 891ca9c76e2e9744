package stdlib

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

var (
	ErrPathEscape   = errors.New("stdlib/fs: path escape violation")
	ErrFileTooLarge = errors.New("stdlib/fs: file size limit exceeded")
)

// DefaultMaxSourceSize caps program files read through a Sandbox.
const DefaultMaxSourceSize = 1 << 20

// Sandbox reads program sources confined to a root directory.
type Sandbox struct {
	Root        string
	MaxFileSize int64
}

func NewSandbox(root string, maxFileSize int64) (*Sandbox, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxSourceSize
	}
	return &Sandbox{Root: abs, MaxFileSize: maxFileSize}, nil
}

// Resolve maps path, absolute or relative to Root, to a cleaned absolute
// path inside Root.
func (s *Sandbox) Resolve(path string) (string, error) {
	full := path
	if !filepath.IsAbs(full) {
		full = filepath.Join(s.Root, full)
	}
	full = filepath.Clean(full)

	rel, err := filepath.Rel(s.Root, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %s", ErrPathEscape, path)
	}
	return full, nil
}

// ReadFile returns the contents of a program file.
func (s *Sandbox) ReadFile(path string) ([]byte, error) {
	full, err := s.Resolve(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(full)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	// One extra byte tells an exact fit from an oversized file.
	data, err := io.ReadAll(io.LimitReader(f, s.MaxFileSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.MaxFileSize {
		return nil, fmt.Errorf("%w: %s", ErrFileTooLarge, path)
	}
	return data, nil
}
