package schema

import (
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Source names where a stored schema or editor model lives.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind selects the loader strategy.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
)

// Format is the serialization a document is expected to use.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

type location struct {
	kind  SourceKind
	value string
}

func (l location) Kind() SourceKind { return l.kind }
func (l location) Location() string { return l.value }

// SourceFromFile points at a path on disk.
func SourceFromFile(p string) Source {
	return location{kind: SourceKindFile, value: filepath.Clean(p)}
}

// SourceFromFS points at a slash-separated name inside the loader's fs.FS.
func SourceFromFS(name string) Source {
	return location{kind: SourceKindFS, value: path.Clean(strings.TrimPrefix(name, "/"))}
}

// SourceFromURL points at a remote document. The URL is checked when the
// loader builds the request.
func SourceFromURL(raw string) Source {
	return location{kind: SourceKindURL, value: strings.TrimSpace(raw)}
}

// ParseSource maps a CLI argument onto a Source: http(s) URLs become URL
// sources, anything else a file path. Blank or malformed URLs yield nil.
func ParseSource(raw string) Source {
	value := strings.TrimSpace(raw)
	if value == "" {
		return nil
	}
	lower := strings.ToLower(value)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		parsed, err := url.ParseRequestURI(value)
		if err != nil || parsed.Host == "" {
			return nil
		}
		return SourceFromURL(value)
	}
	return SourceFromFile(value)
}

// FormatOf guesses the document format from the location's extension. URL
// query strings are ignored; anything not named .yaml/.yml is treated as JSON.
func FormatOf(src Source) Format {
	if src == nil {
		return FormatJSON
	}
	name := src.Location()
	if src.Kind() == SourceKindURL {
		if parsed, err := url.Parse(name); err == nil {
			name = parsed.Path
		}
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}
