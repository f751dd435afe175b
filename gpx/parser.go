package gpx

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
)

// Parse reads and parses a GPX file.
func Parse(path string) (*GPX, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gpx: %w", err)
	}
	defer f.Close()
	return ParseReader(f)
}

// ParseReader parses GPX from a reader, filling in defaults for documents
// that omit version or namespace attributes.
func ParseReader(r io.Reader) (*GPX, error) {
	var g GPX
	if err := xml.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}

	if g.XMLNS == "" {
		g.XMLNS = "http://www.topografix.com/GPX/1/1"
	}
	if g.Version == "" {
		g.Version = "1.1"
	}
	if g.Creator == "" {
		g.Creator = "glidetrack"
	}
	return &g, nil
}

// Write saves the document to a file.
func (g *GPX) Write(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create gpx: %w", err)
	}
	defer f.Close()
	return g.WriteTo(f)
}

// WriteTo writes the document, with XML header and indentation, to w.
func (g *GPX) WriteTo(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode gpx: %w", err)
	}
	return nil
}
