// Package layoutfile reads and writes declarative layout profiles.
//
// A layout file names one profile and describes its pane tree:
//
//	name: review
//	description: source on the left, terminal below
//	layout:
//	  split:
//	    direction: vertical
//	    ratio: {first: 2, second: 1}
//	    first: {view: code}
//	    second: {view: terminal, focused: true}
//
// YAML, JSON and JSONC (JSON with comments and trailing commas) are read;
// YAML, JSON and CBOR are written. CBOR uses core deterministic encoding so
// equal layouts produce equal bytes.
package layoutfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/bnema/dumbtile/internal/domain/entity"
)

// Format is a layout file encoding.
type Format string

const (
	FormatYAML  Format = "yaml"
	FormatJSON  Format = "json"
	FormatJSONC Format = "jsonc"
	FormatCBOR  Format = "cbor"
)

// ErrUnknownFormat is returned for unsupported encodings or file extensions.
var ErrUnknownFormat = errors.New("unknown layout file format")

// File is one declarative profile.
type File struct {
	Name        string             `json:"name" yaml:"name" cbor:"1,keyasint"`
	Description string             `json:"description,omitempty" yaml:"description,omitempty" cbor:"2,keyasint,omitempty"`
	Layout      *entity.LayoutNode `json:"layout" yaml:"layout" cbor:"3,keyasint"`

	// Path is the file the profile was read from, if any.
	Path string `json:"-" yaml:"-" cbor:"-"`
}

var (
	encMode cbor.EncMode
	decMode cbor.DecMode
)

func init() {
	var err error

	encOptions := cbor.CoreDetEncOptions()
	encOptions.TextMarshaler = cbor.TextMarshalerTextString
	encMode, err = encOptions.EncMode()
	if err != nil {
		panic("layoutfile: CBOR encoder initialization failed: " + err.Error())
	}

	decMode, err = cbor.DecOptions{
		TextUnmarshaler: cbor.TextUnmarshalerTextString,
	}.DecMode()
	if err != nil {
		panic("layoutfile: CBOR decoder initialization failed: " + err.Error())
	}
}

// ParseFormat parses a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatYAML, FormatJSON, FormatJSONC, FormatCBOR:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("%w: %s has no extension", ErrUnknownFormat, path)
	}
	return ParseFormat(ext)
}

// NameFromPath strips the directory and extension from path.
// "profiles/review.yaml" returns "review".
func NameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Parse decodes data and validates the result. Unknown fields are rejected
// for the text formats.
func Parse(data []byte, format Format) (*File, error) {
	f, err := decode(data, format)
	if err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

func decode(data []byte, format Format) (*File, error) {
	var f File
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing yaml layout: %w", err)
		}
	case FormatJSON, FormatJSONC:
		if format == FormatJSONC {
			data = jsonc.ToJSON(data)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, fmt.Errorf("parsing json layout: %w", err)
		}
	case FormatCBOR:
		if err := decMode.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("parsing cbor layout: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return &f, nil
}

// ReadFile reads and parses a layout file, inferring the format from the
// extension. A file without a name takes its base name.
func ReadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	f, err := decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if strings.TrimSpace(f.Name) == "" {
		f.Name = NameFromPath(path)
	}
	if err := f.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	f.Path = path
	return f, nil
}

// Validate normalises the profile name and checks the tree.
func (f *File) Validate() error {
	f.Name = entity.NormalizeProfileName(f.Name)
	if f.Name == "" {
		return fmt.Errorf("%w: layout file has no name", entity.ErrInvalidOperation)
	}
	if err := f.Layout.Validate(); err != nil {
		return fmt.Errorf("profile %q: %w", f.Name, err)
	}
	return nil
}

// Marshal encodes f. JSONC output is plain JSON.
func Marshal(f *File, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return nil, fmt.Errorf("encoding yaml layout: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatJSON, FormatJSONC:
		data, err := json.MarshalIndent(f, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding json layout: %w", err)
		}
		return append(data, '\n'), nil
	case FormatCBOR:
		data, err := encMode.Marshal(f)
		if err != nil {
			return nil, fmt.Errorf("encoding cbor layout: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Encode writes f to w.
func Encode(w io.Writer, f *File, format Format) error {
	data, err := Marshal(f, format)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
