package source

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/webring/pkg/errors"
)

// FileSource loads a directory document from a local TOML or JSON file.
// The format is picked by file extension.
type FileSource struct {
	Path string
}

// NewFileSource creates a source for the given path.
func NewFileSource(path string) *FileSource {
	return &FileSource{Path: path}
}

// Load reads and parses the file.
func (s *FileSource) Load(_ context.Context) (*Document, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "directory file %s", s.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "reading %s", s.Path)
	}

	doc, err := Parse(data, filepath.Ext(s.Path))
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Parse decodes a directory document. ext selects the format (".toml" or
// ".json", case-insensitive).
func Parse(data []byte, ext string) (*Document, error) {
	var doc Document
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDirectory, err, "parsing TOML directory")
		}
	case ".json":
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDirectory, err, "parsing JSON directory")
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported directory format %q (want .toml or .json)", ext)
	}

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate checks every site entry for a usable name and link.
func (d *Document) Validate() error {
	for i, s := range d.Sites {
		if err := errors.ValidateSiteName(s.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDirectory, err, "site %d", i)
		}
		if err := errors.ValidateURL(s.Link); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDirectory, err, "site %q", s.Name)
		}
	}
	return nil
}
