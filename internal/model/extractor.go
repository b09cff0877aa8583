package model

import (
	"encoding/csv"
	"fmt"
	"strconv"

	"gonum.org/v1/gonum/floats"

	"github.com/wildstyl3r/sasphere/internal/config"
	"github.com/wildstyl3r/sasphere/internal/sasmath"
	"github.com/wildstyl3r/sasphere/internal/utils"
)

// NewKernelFromConfig builds the sphere kernel of a unified model.
func NewKernelFromConfig(p *config.ModelParameters) (*Kernel, error) {
	return NewKernel(
		Parameters{Radius: p.Radius, Sld: p.Sld, SldSolvent: p.SldSolvent},
		p.Scale,
		p.Background,
		Dispersion{Type: p.RadiusPDType, Width: p.RadiusPD, Npts: p.RadiusPDN, Nsigmas: p.RadiusPDNSigmas},
		p.Cutoff,
		p.Threads(),
	)
}

type DataExtractor struct {
	kernel     *Kernel
	parameters *config.ModelParameters
	Q          []float64
	Intensity  []float64
	Moments    Moments
	Qx, Qy     []float64
	Intensity2 []float64
}

func NewDataExtractor(kernel *Kernel, parameters *config.ModelParameters, q []float64) *DataExtractor {
	de := DataExtractor{
		kernel:     kernel,
		parameters: parameters,
		Q:          q,
	}
	de.Intensity = kernel.Iq(q)
	de.Moments = kernel.Fq(q)

	if n := parameters.Q2DPoints; n > 1 && len(q) > 0 {
		qMax := floats.Max(q)
		axis := floats.Span(make([]float64, n), -qMax, qMax)
		de.Qx = make([]float64, 0, n*n)
		de.Qy = make([]float64, 0, n*n)
		for _, qy := range axis {
			for _, qx := range axis {
				de.Qx = append(de.Qx, qx)
				de.Qy = append(de.Qy, qy)
			}
		}
		de.Intensity2 = kernel.Iqxy(de.Qx, de.Qy)
	}

	if parameters.Verbose() {
		mean, std := kernel.RadiusStats()
		fmt.Printf("radius points: %d, mean radius: %g, std: %g, mean volume: %g\n",
			len(kernel.radiusPoints()), mean, std, kernel.MeanVolume())
	}
	return &de
}

var SummaryColumns = []string{"model", "radius", "volume", "contrast", "first minimum q", "mean radius", "radius std"}

// Summary is the row of the model in the cross-model summary table, in
// output units.
func (de *DataExtractor) Summary(modelName string) []string {
	units := de.parameters.OutputUnits()
	p := de.kernel.Parameters
	mean, std := de.kernel.RadiusStats()
	row := []float64{
		config.Convert(p.Radius, length, units, false),
		config.Convert(p.Volume(), []config.UnitElement{{Class: config.Length, Power: 3}}, units, false),
		config.Convert(p.Contrast(), config.UnitsOf("Sld"), units, false),
		config.Convert(sasmath.FirstMinimumQ(p.Radius, 1e-12), config.UnitsOf("QMin"), units, false),
		config.Convert(mean, length, units, false),
		config.Convert(std, length, units, false),
	}
	cells := []string{modelName}
	for _, v := range row {
		cells = append(cells, strconv.FormatFloat(v, 'g', -1, 64))
	}
	return cells
}

func (de *DataExtractor) Save(modelName string, df DataFlags) error {
	for name, output := range df.sequentials {
		if !*output.saveFlag && !*df.all {
			continue
		}
		xColumnValue, yColumnValues := output.values(de)
		if len(xColumnValue) == 0 {
			continue
		}
		file, err := utils.OpenFile(de.parameters.MakeDir, df.outputPath, output.fileSuffix, modelName)
		if err != nil {
			return fmt.Errorf("unable to save %s: %w", name, err)
		}
		rows := [][]string{output.columnNames}
		units := de.parameters.OutputUnits()
		for x := range xColumnValue {
			row := []string{strconv.FormatFloat(config.Convert(xColumnValue[x], output.xUnit, units, false), 'g', -1, 64)}
			for i := range yColumnValues[x] {
				row = append(row, strconv.FormatFloat(config.Convert(yColumnValues[x][i], output.yUnits[i], units, false), 'g', -1, 64))
			}
			rows = append(rows, row)
		}
		w := csv.NewWriter(file)
		w.WriteAll(rows)
		file.Close()
		if err := w.Error(); err != nil {
			return fmt.Errorf("error writing csv: %w", err)
		}
		if de.parameters.Verbose() {
			println(name + " saved")
		}
	}
	return nil
}
