// Package gpx reads and writes GPX 1.1 track files and converts them into
// the engine's fix stream. Extension blocks from other tools are carried
// through untouched so edited files stay loadable elsewhere.
package gpx

import (
	"encoding/xml"
	"time"
)

// RawXML preserves nested extension blocks verbatim, so files annotated by
// Garmin, Strava and similar tools round-trip without loss.
type RawXML []byte

func (r RawXML) MarshalXML(e *xml.Encoder, start xml.StartElement) error {
	if len(r) == 0 {
		return nil
	}
	type inner struct {
		Content string `xml:",innerxml"`
	}
	return e.EncodeElement(inner{Content: string(r)}, start)
}

func (r *RawXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	type inner struct {
		Content string `xml:",innerxml"`
	}
	var data inner
	if err := d.DecodeElement(&data, &start); err != nil {
		return err
	}
	if len(data.Content) == 0 {
		*r = nil
		return nil
	}
	*r = append((*r)[:0], data.Content...)
	return nil
}

// Point is one GPX track point.
type Point struct {
	Lat        float64   `xml:"lat,attr"`
	Lon        float64   `xml:"lon,attr"`
	Elevation  float64   `xml:"ele,omitempty"`
	Time       time.Time `xml:"time,omitempty"`
	Extensions RawXML    `xml:"extensions,omitempty"`
}

// Segment is one contiguous run of track points.
type Segment struct {
	Points     []Point `xml:"trkpt"`
	Extensions RawXML  `xml:"extensions,omitempty"`
}

// Track is one named GPX track.
type Track struct {
	Name        string    `xml:"name,omitempty"`
	Description string    `xml:"desc,omitempty"`
	Segments    []Segment `xml:"trkseg"`
	Extensions  RawXML    `xml:"extensions,omitempty"`
}

// Metadata is the file-level GPX metadata block.
type Metadata struct {
	Name        string    `xml:"name,omitempty"`
	Description string    `xml:"desc,omitempty"`
	Time        time.Time `xml:"time,omitempty"`
	Extensions  RawXML    `xml:"extensions,omitempty"`
}

// GPX is a parsed GPX 1.1 document.
type GPX struct {
	XMLName xml.Name `xml:"gpx"`
	Version string   `xml:"version,attr"`
	Creator string   `xml:"creator,attr"`

	XMLNS    string `xml:"xmlns,attr,omitempty"`
	XMLNSXSI string `xml:"xmlns:xsi,attr,omitempty"`
	XSI      string `xml:"xsi:schemaLocation,attr,omitempty"`

	Metadata   Metadata `xml:"metadata,omitempty"`
	Tracks     []Track  `xml:"trk"`
	Extensions RawXML   `xml:"extensions,omitempty"`
}
