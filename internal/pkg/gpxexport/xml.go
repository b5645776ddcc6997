package gpxexport

import "encoding/xml"

type cdata struct {
	Text string `xml:",cdata"`
}

type gpxDoc struct {
	XMLName        xml.Name    `xml:"gpx"`
	Creator        string      `xml:"creator,attr"`
	Version        string      `xml:"version,attr"`
	Xmlns          string      `xml:"xmlns,attr"`
	XmlnsXsi       string      `xml:"xmlns:xsi,attr"`
	SchemaLocation string      `xml:"xsi:schemaLocation,attr"`
	Metadata       gpxMetadata `xml:"metadata"`
	Track          gpxTrack    `xml:"trk"`
}

type gpxMetadata struct {
	Name       cdata               `xml:"name"`
	Desc       *cdata              `xml:"desc,omitempty"`
	Time       string              `xml:"time"`
	Bounds     *gpxBounds          `xml:"bounds,omitempty"`
	Extensions *metadataExtensions `xml:"extensions,omitempty"`
}

type gpxBounds struct {
	MinLat string `xml:"minlat,attr"`
	MinLon string `xml:"minlon,attr"`
	MaxLat string `xml:"maxlat,attr"`
	MaxLon string `xml:"maxlon,attr"`
}

type metadataExtensions struct {
	Distance          string `xml:"distance"`
	EstimatedDuration int64  `xml:"estimated_duration"`
}

type gpxTrack struct {
	Name       cdata            `xml:"name"`
	Desc       *cdata           `xml:"desc,omitempty"`
	Extensions *trackExtensions `xml:"extensions,omitempty"`
	Segment    gpxSegment       `xml:"trkseg"`
}

type trackExtensions struct {
	Keywords string `xml:"keywords"`
}

type gpxSegment struct {
	Points []gpxPoint `xml:"trkpt"`
}

type gpxPoint struct {
	Lat        string           `xml:"lat,attr"`
	Lon        string           `xml:"lon,attr"`
	Time       string           `xml:"time"`
	Extensions *pointExtensions `xml:"extensions,omitempty"`
}

type pointExtensions struct {
	Speed string `xml:"speed"`
}
