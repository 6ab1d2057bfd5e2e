package report

import (
	"bytes"
	"math"
	"path/filepath"
	"testing"

	"github.com/alexiusacademia/gopanel/internal/fem"
	"github.com/alexiusacademia/gopanel/internal/laminate"
	"github.com/alexiusacademia/gopanel/internal/panel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func crossPly(t *testing.T) (*laminate.Laminate, *laminate.Stress) {
	t.Helper()
	def := laminate.Definition{
		Name: "cross-ply",
		Plies: []laminate.PlyDef{
			{Material: "KMU4", Layers: 1, Angle: 0},
			{Material: "KMU4", Layers: 1, Angle: 90},
		},
		Symmetric: true,
	}
	lam, err := def.Build()
	require.NoError(t, err)
	s, err := lam.Stress([6]float64{1e4, 0, 0, 0, 0, 0})
	require.NoError(t, err)
	return lam, s
}

func TestLaminateTables(t *testing.T) {
	lam, s := crossPly(t)

	tables := LaminateTables(lam, s)
	require.Len(t, tables, 4)
	assert.Equal(t, "Plies", tables[1].Title)
	assert.Len(t, tables[1].Rows, 4)
	assert.Len(t, tables[2].Rows, 6)
	assert.Len(t, tables[3].Rows, 4)
	assert.Len(t, tables[3].Header, 11)

	assert.Len(t, LaminateTables(lam, nil), 3)
}

func TestFormatCell(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{1.5, "1.5"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "n/a"},
		{12, "12"},
		{"ply", "ply"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatCell(tt.in))
	}
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet3", sheetName("", 2))
	assert.Len(t, sheetName("a very long table title that excel would refuse", 0), maxSheetName)
}

func TestPanelWorkbook(t *testing.T) {
	a, err := panel.Demo(fem.Options{Workers: 2})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, PanelTables(a)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		"Panel", "Critical", "Laminate", "Plies", "ABD",
		"Critical Ply Stress", "Displacements", "Elements",
	}, f.GetSheetList())

	v, err := f.GetCellValue("Panel", "B6")
	require.NoError(t, err)
	assert.Equal(t, "121", v)

	rows, err := f.GetRows("Displacements")
	require.NoError(t, err)
	assert.Len(t, rows, 122)
	assert.Equal(t, "Node", rows[0][0])

	rows, err = f.GetRows("Elements")
	require.NoError(t, err)
	assert.Len(t, rows, 201)
}

func TestSaveWorkbook(t *testing.T) {
	lam, s := crossPly(t)
	path := filepath.Join(t.TempDir(), "laminate.xlsx")
	require.NoError(t, SaveWorkbook(path, LaminateTables(lam, s)))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Laminate", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Value", v)
}

func TestWritePDF(t *testing.T) {
	a, err := panel.Demo(fem.Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, PanelDocument(a)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))

	lam, s := crossPly(t)
	buf.Reset()
	require.NoError(t, WritePDF(&buf, LaminateDocument(lam, s)))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
