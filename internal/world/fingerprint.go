package world

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/paulmach/orb"

	"github.com/samdwyer/tunneler/internal/polygon"
)

// Fingerprint hashes the junction's built geometry: its internal shape and,
// for every segment, the child offset, shape and centerline. Two junctions
// built from the same seed and configuration have the same fingerprint.
func Fingerprint(ctx context.Context, j *Junction) (uint64, error) {
	internal, err := j.InternalShape(ctx)
	if err != nil {
		return 0, err
	}
	segments, err := j.Segments(ctx)
	if err != nil {
		return 0, err
	}

	d := xxhash.New()
	buf := make([]byte, 0, 64)

	buf = writePolygon(d, buf, internal)
	for _, s := range segments {
		buf = writePoint(d, buf, s.ChildOffset)
		buf = writePolygon(d, buf, s.Shape)
		for _, cp := range s.CenterPoints {
			buf = writePoint(d, buf, cp.Point)
			buf = writeFloat(d, buf, cp.RelativeDistance)
		}
	}
	return d.Sum64(), nil
}

func writePolygon(d *xxhash.Digest, buf []byte, p polygon.Polygon) []byte {
	for i := 0; i < p.ContourCount(); i++ {
		c := p.Contour(i)
		buf = writeFloat(d, buf, float64(c.PointCount()))
		for _, pt := range c.Points() {
			buf = writePoint(d, buf, pt)
		}
	}
	return buf
}

func writePoint(d *xxhash.Digest, buf []byte, p orb.Point) []byte {
	buf = writeFloat(d, buf, p[0])
	return writeFloat(d, buf, p[1])
}

func writeFloat(d *xxhash.Digest, buf []byte, f float64) []byte {
	buf = binary.LittleEndian.AppendUint64(buf[:0], math.Float64bits(f))
	d.Write(buf)
	return buf
}
