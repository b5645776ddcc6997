// Package gpxexport renders routes as GPX 1.1 tracks and reads them back.
package gpxexport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/paulmach/orb"
	"github.com/tkrajina/gpxgo/gpx"

	"github.com/samirrijal/sketchroute/internal/core/domain"
	"github.com/samirrijal/sketchroute/internal/pkg/geospatial"
)

const (
	// trackDuration is the time span the synthesized timestamps cover.
	trackDuration = time.Hour
	// walkingSpeedKmh drives the estimated duration in the metadata.
	walkingSpeedKmh = 5.0

	timeLayout = "2006-01-02T15:04:05.000Z07:00"
)

// Defaults applied to empty Metadata fields.
const (
	DefaultName   = "Route generated from a drawing"
	DefaultAuthor = "sketchroute"
)

// DefaultKeywords are attached to tracks that carry none.
var DefaultKeywords = []string{"route", "drawing", "generated"}

// Metadata describes the document. Zero fields get defaults.
type Metadata struct {
	Name        string
	Description string
	Author      string
	Keywords    []string
	Bounds      *domain.Bounds
}

// Serializer builds GPX documents.
type Serializer struct {
	Now func() time.Time
}

// Serialize renders route with the wall clock.
func Serialize(route []domain.Coordinate, meta Metadata) (string, error) {
	return Serializer{}.Serialize(route, meta)
}

// Serialize renders route as a GPX 1.1 document with one track segment.
// Invalid coordinates are skipped; a route with none left is an error.
func (s Serializer) Serialize(route []domain.Coordinate, meta Metadata) (string, error) {
	if len(route) == 0 {
		return "", fmt.Errorf("%w: no coordinates", domain.ErrSerialization)
	}
	valid := domain.FilterValid(route)
	if len(valid) == 0 {
		return "", fmt.Errorf("%w: no valid coordinates among %d", domain.ErrSerialization, len(route))
	}
	if dropped := len(route) - len(valid); dropped > 0 {
		slog.Warn("gpx: skipping invalid coordinates", "count", dropped)
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	start := now().UTC()

	distanceKm := 0.0
	for i := 1; i < len(valid); i++ {
		distanceKm += segmentKm(valid[i-1], valid[i])
	}
	meta = withDefaults(meta, valid, distanceKm)

	doc := gpxDoc{
		Creator:        meta.Author,
		Version:        "1.1",
		Xmlns:          "http://www.topografix.com/GPX/1/1",
		XmlnsXsi:       "http://www.w3.org/2001/XMLSchema-instance",
		SchemaLocation: "http://www.topografix.com/GPX/1/1 http://www.topografix.com/GPX/1/1/gpx.xsd",
		Metadata: gpxMetadata{
			Name: cdata{meta.Name},
			Time: start.Format(timeLayout),
			Bounds: &gpxBounds{
				MinLat: fixed(meta.Bounds.MinLat),
				MinLon: fixed(meta.Bounds.MinLng),
				MaxLat: fixed(meta.Bounds.MaxLat),
				MaxLon: fixed(meta.Bounds.MaxLng),
			},
			Extensions: &metadataExtensions{
				Distance:          strconv.FormatFloat(distanceKm, 'f', 3, 64),
				EstimatedDuration: int64(distanceKm/walkingSpeedKmh*3600 + 0.5),
			},
		},
		Track: gpxTrack{
			Name: cdata{meta.Name},
		},
	}
	if meta.Description != "" {
		doc.Metadata.Desc = &cdata{meta.Description}
		doc.Track.Desc = &cdata{meta.Description}
	}
	if len(meta.Keywords) > 0 {
		doc.Track.Extensions = &trackExtensions{Keywords: joinKeywords(meta.Keywords)}
	}

	interval := trackDuration / time.Duration(len(valid))
	points := make([]gpxPoint, len(valid))
	for i, c := range valid {
		p := gpxPoint{
			Lat:  fixed(c.Lat),
			Lon:  fixed(c.Lng),
			Time: start.Add(time.Duration(i) * interval).Format(timeLayout),
		}
		if i > 0 && interval > 0 {
			if kmh := segmentKm(valid[i-1], c) / interval.Hours(); kmh > 0 {
				p.Extensions = &pointExtensions{Speed: strconv.FormatFloat(kmh, 'f', 2, 64)}
			}
		}
		points[i] = p
	}
	doc.Track.Segment.Points = points

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrSerialization, err)
	}

	if err := verify(buf.Bytes(), len(valid)); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RouteBounds returns the bounding box of route.
func RouteBounds(route []domain.Coordinate) domain.Bounds {
	ls := make(orb.LineString, len(route))
	for i, c := range route {
		ls[i] = orb.Point{c.Lng, c.Lat}
	}
	b := ls.Bound()
	return domain.Bounds{MinLat: b.Bottom(), MaxLat: b.Top(), MinLng: b.Left(), MaxLng: b.Right()}
}

func withDefaults(meta Metadata, route []domain.Coordinate, distanceKm float64) Metadata {
	if meta.Name == "" {
		meta.Name = DefaultName
	}
	if meta.Description == "" {
		meta.Description = fmt.Sprintf("Route of %.2f km generated automatically", distanceKm)
	}
	if meta.Author == "" {
		meta.Author = DefaultAuthor
	}
	if meta.Keywords == nil {
		meta.Keywords = DefaultKeywords
	}
	if meta.Bounds == nil {
		b := RouteBounds(route)
		meta.Bounds = &b
	}
	return meta
}

// verify re-parses the document and checks every point survived.
func verify(doc []byte, want int) error {
	g, err := gpx.ParseBytes(doc)
	if err != nil {
		return fmt.Errorf("%w: generated document does not parse: %v", domain.ErrSerialization, err)
	}
	if got := countPoints(g); got != want {
		return fmt.Errorf("%w: wrote %d track points, read back %d", domain.ErrSerialization, want, got)
	}
	return nil
}

func countPoints(g *gpx.GPX) int {
	n := 0
	for _, trk := range g.Tracks {
		for _, seg := range trk.Segments {
			n += len(seg.Points)
		}
	}
	return n
}

func segmentKm(a, b domain.Coordinate) float64 {
	return geospatial.HaversineKm(a.Lat, a.Lng, b.Lat, b.Lng)
}

func fixed(v float64) string {
	return strconv.FormatFloat(v, 'f', 7, 64)
}

func joinKeywords(kw []string) string {
	var b bytes.Buffer
	for i, k := range kw {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(k)
	}
	return b.String()
}
