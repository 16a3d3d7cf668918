package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"cadterm/internal/geom"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drawing() []geom.Shape {
	return []geom.Shape{
		geom.NewPoint(geom.Point{X: 0, Y: 0}),
		geom.NewLine(geom.Point{X: 0, Y: 0}, geom.Point{X: 100, Y: 50}),
		geom.NewPolyline([]geom.Point{{X: 10, Y: 10}, {X: 40, Y: 10}, {X: 40, Y: 40}}, true),
		geom.NewText(geom.Point{X: 20, Y: 30}, "room"),
	}
}

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PDF(&buf, drawing()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.pdf")
	require.NoError(t, PDFFile(path, drawing()))
	st, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, st.Size())
}

func TestPDFEmpty(t *testing.T) {
	var buf bytes.Buffer
	assert.ErrorIs(t, PDF(&buf, nil), ErrEmpty)
	assert.Zero(t, buf.Len())
}
