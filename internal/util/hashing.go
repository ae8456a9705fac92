package util

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/go-sod/rango/internal/geom"
)

var hashBuffers = sync.Pool{
	New: func() interface{} { return bytes.NewBuffer(make([]byte, 0, 4096)) },
}

// HashPoints returns a hex sha256 over the points in the given order.
func HashPoints(points []geom.Point[float64]) string {
	buf := hashBuffers.Get().(*bytes.Buffer)
	defer func() {
		buf.Reset()
		hashBuffers.Put(buf)
	}()

	h := sha256.New()
	for _, p := range points {
		buf.Reset()
		buf.WriteString(strconv.FormatFloat(p.X, 'g', 16, 64))
		buf.WriteByte(',')
		buf.WriteString(strconv.FormatFloat(p.Y, 'g', 16, 64))
		buf.WriteByte(';')
		_, _ = h.Write(buf.Bytes())
	}
	return hex.EncodeToString(h.Sum(nil))
}
