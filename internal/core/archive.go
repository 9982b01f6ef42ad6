package core

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pkg/errors"
)

// Archiver packages skill folders into uncompressed tar streams held in
// memory.
type Archiver struct {
	// Excludes are doublestar patterns matched against slash-separated paths
	// relative to the archived folder.
	Excludes []string
}

// NewArchiver validates the exclude patterns.
func NewArchiver(excludes ...string) (*Archiver, error) {
	for _, p := range excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.Errorf("invalid exclude pattern %q", p)
		}
	}
	return &Archiver{Excludes: excludes}, nil
}

// ArchiveDir writes every file below dir into a tar stream. Entry names are
// relative to dir, so the folder's own name is not embedded. Directories are
// only written when empty. The output depends only on the tree contents. A
// symlinked dir is archived through its target; a tree with nothing to
// archive is an error.
func (a *Archiver) ArchiveDir(dir string) ([]byte, error) {
	root, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return nil, errors.Wrap(err, "archiving")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, errors.Wrap(err, "archiving")
	}
	if !info.IsDir() {
		return nil, errors.Errorf("archiving: %s is not a directory", dir)
	}

	var buf bytes.Buffer
	tw := tar.NewWriter(&buf)
	entries := 0

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		skip, err := a.excluded(rel)
		if err != nil {
			return err
		}
		if skip {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			children, err := os.ReadDir(path)
			if err != nil {
				return err
			}
			if len(children) > 0 {
				return nil
			}
			entries++
			return writeEntry(tw, path, rel+"/")
		}
		entries++
		return writeEntry(tw, path, rel)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "archiving %s", dir)
	}
	if entries == 0 {
		return nil, errors.Errorf("archiving %s: nothing to archive", dir)
	}
	if err := tw.Close(); err != nil {
		return nil, errors.Wrap(err, "finishing archive")
	}
	return buf.Bytes(), nil
}

func (a *Archiver) excluded(rel string) (bool, error) {
	for _, p := range a.Excludes {
		ok, err := doublestar.Match(p, rel)
		if err != nil {
			return false, errors.Wrapf(err, "exclude pattern %q", p)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

func writeEntry(tw *tar.Writer, path, name string) error {
	info, err := os.Lstat(path)
	if err != nil {
		return err
	}

	var link string
	switch mode := info.Mode(); {
	case mode&fs.ModeSymlink != 0:
		if link, err = os.Readlink(path); err != nil {
			return err
		}
	case mode.IsRegular(), mode.IsDir():
	default:
		// Sockets, devices and pipes have no place in a skill package.
		return nil
	}

	hdr, err := tar.FileInfoHeader(info, link)
	if err != nil {
		return err
	}
	hdr.Name = name
	hdr.Uid, hdr.Gid = 0, 0
	hdr.Uname, hdr.Gname = "", ""
	hdr.ModTime = hdr.ModTime.Truncate(time.Second)
	hdr.AccessTime, hdr.ChangeTime = time.Time{}, time.Time{}

	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = io.Copy(tw, f)
	return err
}

// ReadArchive returns the bytes of a pre-built archive after checking that it
// is a well-formed tar container, optionally gzip-compressed.
func ReadArchive(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	if err := ValidateTar(data); err != nil {
		return nil, &InvalidArchiveError{Path: path, Err: err}
	}
	return data, nil
}

// ValidateTar reads every entry of data. It fails on empty input, unreadable
// headers and truncated contents.
func ValidateTar(data []byte) error {
	var r io.Reader = bytes.NewReader(data)
	if len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return err
		}
		defer func() { _ = gz.Close() }()
		r = gz
	}

	tr := tar.NewReader(r)
	entries := 0
	for {
		_, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if _, err := io.Copy(io.Discard, tr); err != nil {
			return err
		}
		entries++
	}
	if entries == 0 {
		return errors.New("archive has no entries")
	}
	return nil
}

// ListTar returns the entry names of an uncompressed tar stream in order.
func ListTar(data []byte) ([]string, error) {
	tr := tar.NewReader(bytes.NewReader(data))
	var names []string
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, hdr.Name)
	}
}
