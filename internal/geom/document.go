package geom

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const DocumentVersion = 1

// Document is the on-disk form of a drawing.
type Document struct {
	Version int       `json:"version"`
	Session string    `json:"session,omitempty"`
	Saved   time.Time `json:"saved"`
	View    *View     `json:"view,omitempty"`
	Shapes  []Shape   `json:"shapes"`
}

func DecodeDocument(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("document: %w", err)
	}
	return d, nil
}

func (d Document) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}

// SaveDocument writes d to path, replacing any existing file.
func SaveDocument(path string, d Document) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Encode(f); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}

// Importable reports whether LoadFile understands the file extension.
func Importable(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".geojson", ".wkt", ".csv", ".kml":
		return true
	}
	return false
}

// LoadFile reads shapes from path, dispatching on the extension. A .json file
// is tried as a drawing document first and as GeoJSON second. Imported shapes
// come back with id 0 so the caller can commit them as a batch.
func LoadFile(path string) ([]Shape, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var shapes []Shape
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, derr := DecodeDocument(f)
		if derr == nil && doc.Version > 0 {
			shapes = doc.Shapes
			break
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			return nil, err
		}
		shapes, err = DecodeGeoJSON(f)
	case ".geojson":
		shapes, err = DecodeGeoJSON(f)
	case ".wkt":
		var b []byte
		if b, err = io.ReadAll(f); err == nil {
			shapes, err = ParseWKT(string(b))
		}
	case ".csv":
		shapes, err = DecodeCSV(f)
	case ".kml":
		shapes, err = DecodeKML(f)
	default:
		return nil, fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupported)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	for i := range shapes {
		shapes[i].ID = 0
	}
	return shapes, nil
}
