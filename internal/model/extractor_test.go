package model

import (
	"encoding/csv"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wildstyl3r/sasphere/internal/config"
)

func testParameters() *config.ModelParameters {
	p := &config.ModelParameters{
		Radius:          60,
		Sld:             1,
		SldSolvent:      6.3,
		Scale:           1,
		Background:      0.001,
		QMin:            0.001,
		QMax:            0.3,
		QPoints:         20,
		LogSpacing:      true,
		Q2DPoints:       5,
		RadiusPD:        0.1,
		RadiusPDType:    "gaussian",
		RadiusPDN:       11,
		RadiusPDNSigmas: 3,
	}
	p.SetOutputUnits([]string{"nm", "cm^-1"})
	p.SetThreads(2)
	return p
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestDataExtractorSave(t *testing.T) {
	p := testParameters()
	kernel, err := NewKernelFromConfig(p)
	require.NoError(t, err)
	q, err := p.QVector()
	require.NoError(t, err)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	df := NewDataFlags(fs)
	require.NoError(t, fs.Parse([]string{"-all"}))
	dir := t.TempDir()
	df.SetOutputPath(dir + "/")
	assert.Equal(t, dir, df.GetOutputPath())

	de := NewDataExtractor(kernel, p, q)
	require.NoError(t, de.Save("sphere", df))

	for _, suffix := range []string{"Iq", "Fq", "Iqxy", "3j1x_x", "radius_pd"} {
		assert.FileExists(t, filepath.Join(dir, "sphere_"+suffix+".csv"))
	}

	rows := readCSV(t, filepath.Join(dir, "sphere_Iq.csv"))
	require.Len(t, rows, len(q)+1)
	assert.Equal(t, []string{"q", "I(q)"}, rows[0])
	// q is written in nm^-1
	qFirst, err := strconv.ParseFloat(rows[1][0], 64)
	require.NoError(t, err)
	assert.InEpsilon(t, 0.01, qFirst, 1e-12)
	iFirst, err := strconv.ParseFloat(rows[1][1], 64)
	require.NoError(t, err)
	assert.InEpsilon(t, de.Intensity[0], iFirst, 1e-15)

	grid := readCSV(t, filepath.Join(dir, "sphere_Iqxy.csv"))
	assert.Len(t, grid, 5*5+1)

	pd := readCSV(t, filepath.Join(dir, "sphere_radius_pd.csv"))
	assert.Len(t, pd, 11+1)
}

func TestDataExtractorSavesOnlySelected(t *testing.T) {
	p := testParameters()
	p.MakeDir = true
	kernel, err := NewKernelFromConfig(p)
	require.NoError(t, err)

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	df := NewDataFlags(fs)
	require.NoError(t, fs.Parse([]string{"-iq=false", "-fq"}))
	dir := t.TempDir()
	df.SetOutputPath(dir)

	de := NewDataExtractor(kernel, p, []float64{0.01, 0.02})
	require.NoError(t, de.Save("m1", df))

	assert.FileExists(t, filepath.Join(dir, "Fq", "m1.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "Iq", "m1.csv"))
	rows := readCSV(t, filepath.Join(dir, "Fq", "m1.csv"))
	assert.Equal(t, []string{"q", "F1", "F2", "I(q)"}, rows[0])
	assert.Len(t, rows, 3)
}

func TestDataExtractorSummary(t *testing.T) {
	p := testParameters()
	p.RadiusPD = 0
	kernel, err := NewKernelFromConfig(p)
	require.NoError(t, err)
	de := NewDataExtractor(kernel, p, []float64{0.01})

	row := de.Summary("sphere")
	require.Len(t, row, len(SummaryColumns))
	assert.Equal(t, "sphere", row[0])

	parse := func(s string) float64 {
		v, err := strconv.ParseFloat(s, 64)
		require.NoError(t, err)
		return v
	}
	assert.InEpsilon(t, 6, parse(row[1]), 1e-12)                  // nm
	assert.InEpsilon(t, FormVolume(60)/1000, parse(row[2]), 1e-12) // nm^3
	assert.InEpsilon(t, -5.3*100, parse(row[3]), 1e-12)           // 1e-6 nm^-2
	assert.InEpsilon(t, 4.493409457909064/6, parse(row[4]), 1e-9) // nm^-1
	assert.InEpsilon(t, 6, parse(row[5]), 1e-12)
	assert.Zero(t, parse(row[6]))
}
