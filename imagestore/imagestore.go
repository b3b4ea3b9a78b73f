package imagestore

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/corpix/stegano/codec"
	"github.com/corpix/stegano/errors"
	"github.com/corpix/stegano/log"
)

const EncodedPrefix = "encrypted_"

var (
	ErrImageLoadFailed = codec.ErrImageLoadFailed
	ErrImageNotFound   = errors.New("image file not found")
	ErrSaveFailed      = errors.New("failed to save image")
	ErrInvalidName     = errors.New("invalid image file name")

	AllowedExtensions = map[string]struct{}{
		"png":  {},
		"jpg":  {},
		"jpeg": {},
		"bmp":  {},
		"webp": {},
	}
)

type (
	Config struct {
		Directory string `yaml:"directory"`
	}
	Store struct {
		Config *Config
	}
)

func (c *Config) Default() {
	if c.Directory == "" {
		c.Directory = "uploads"
	}
}

func (c *Config) Validate() error {
	if c.Directory == "" {
		return errors.New("directory should not be empty")
	}
	return nil
}

//

func AllowedFile(name string) bool {
	n := strings.LastIndexByte(name, '.')
	if n < 0 {
		return false
	}
	_, ok := AllowedExtensions[strings.ToLower(name[n+1:])]
	return ok
}

// NewName returns a fresh upload name and the name of its encoded counterpart.
func NewName() (upload string, encoded string) {
	upload = uuid.New().String() + ".png"
	return upload, EncodedPrefix + upload
}

//

func Load(path string) (*codec.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(ErrImageNotFound, "path %q", path)
		}
		return nil, errors.Mark(errors.Wrapf(err, "failed to open %q", path), ErrImageLoadFailed)
	}
	defer f.Close()

	img, _, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "path %q", path)
	}
	return img, nil
}

func Save(path string, img *codec.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to create %q", path), ErrSaveFailed)
	}
	defer f.Close()

	err = Encode(f, img)
	if err != nil {
		return err
	}
	err = f.Close()
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to close %q", path), ErrSaveFailed)
	}
	return nil
}

//

// Path resolves name inside the store directory, names carrying
// directory components are rejected.
func (s *Store) Path(name string) (string, error) {
	if name == "" || name == "." || name == ".." ||
		filepath.Base(name) != name ||
		strings.ContainsAny(name, `/\`) {
		return "", errors.Wrapf(ErrInvalidName, "%q", name)
	}
	return filepath.Join(s.Config.Directory, name), nil
}

func (s *Store) Load(name string) (*codec.Image, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	return Load(path)
}

func (s *Store) Save(name string, img *codec.Image) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return Save(path, img)
}

// Put stores raw upload bytes as is.
func (s *Store) Put(name string, r io.Reader) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to create %q", path), ErrSaveFailed)
	}
	defer f.Close()

	_, err = io.Copy(f, r)
	if err != nil {
		return errors.Mark(errors.Wrapf(err, "failed to write %q", path), ErrSaveFailed)
	}
	return f.Close()
}

// Open returns the stored file with its info, directories are reported
// as missing images.
func (s *Store) Open(name string) (*os.File, os.FileInfo, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, errors.Wrapf(ErrImageNotFound, "name %q", name)
		}
		return nil, nil, errors.Wrapf(err, "failed to open %q", path)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, errors.Wrapf(err, "failed to stat %q", path)
	}
	if info.IsDir() {
		f.Close()
		return nil, nil, errors.Wrapf(ErrImageNotFound, "name %q is a directory", name)
	}
	return f, info, nil
}

// Remove deletes stored files, names which are already gone are skipped.
func (s *Store) Remove(names ...string) error {
	for _, name := range names {
		path, err := s.Path(name)
		if err != nil {
			return err
		}
		err = os.Remove(path)
		if err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "failed to remove %q", path)
		}
	}
	return nil
}

func New(c *Config) (*Store, error) {
	err := os.MkdirAll(c.Directory, 0o750)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create image directory %q", c.Directory)
	}
	log.Debug().Str("directory", c.Directory).Msg("image store ready")

	return &Store{Config: c}, nil
}
