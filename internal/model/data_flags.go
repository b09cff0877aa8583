package model

import (
	"flag"
	"strings"

	"github.com/wildstyl3r/sasphere/internal/config"
	"github.com/wildstyl3r/sasphere/internal/sasmath"
)

type DataItem struct {
	saveFlag   *bool
	fileSuffix string
}

type SequentialDataItem struct {
	DataItem
	columnNames []string
	values      func(*DataExtractor) (args []float64, values [][]float64)
	xUnit       []config.UnitElement
	yUnits      [][]config.UnitElement
}

type DataFlags struct {
	all         *bool
	sequentials map[string]SequentialDataItem
	outputPath  string
}

var (
	inverseLength = []config.UnitElement{{Class: config.Length, Power: -1}}
	length        = []config.UnitElement{{Class: config.Length, Power: 1}}
	intensity     = []config.UnitElement{{Class: config.Intensity, Power: 1}}
)

// NewDataFlags registers one save flag per output on fs.
func NewDataFlags(fs *flag.FlagSet) DataFlags {
	return DataFlags{
		all: fs.Bool("all", false, "save every available output"),
		sequentials: map[string]SequentialDataItem{
			"Intensity": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("iq", true, "save I(q)"),
					fileSuffix: "Iq",
				},
				columnNames: []string{"q", "I(q)"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.Q {
						args = append(args, de.Q[i])
						values = append(values, []float64{de.Intensity[i]})
					}
					return args, values
				},
				xUnit:  inverseLength,
				yUnits: [][]config.UnitElement{intensity},
			},
			"Amplitude moments": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("fq", false, "save <F1>, <F2> and the intensity built from them"),
					fileSuffix: "Fq",
				},
				columnNames: []string{"q", "F1", "F2", "I(q)"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.Q {
						args = append(args, de.Q[i])
						values = append(values, []float64{de.Moments.F1[i], de.Moments.F2[i], de.Moments.Iq[i]})
					}
					return args, values
				},
				xUnit:  inverseLength,
				yUnits: [][]config.UnitElement{nil, nil, intensity},
			},
			"2D intensity": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("iqxy", false, "save I(qx, qy) on a Q2DPoints x Q2DPoints grid"),
					fileSuffix: "Iqxy",
				},
				columnNames: []string{"qx", "qy", "I(qx,qy)"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for i := range de.Intensity2 {
						args = append(args, de.Qx[i])
						values = append(values, []float64{de.Qy[i], de.Intensity2[i]})
					}
					return args, values
				},
				xUnit:  inverseLength,
				yUnits: [][]config.UnitElement{inverseLength, intensity},
			},
			"Bessel ratio": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("bessel", false, "save 3 j1(qR)/(qR) at the central radius"),
					fileSuffix: "3j1x_x",
				},
				columnNames: []string{"qR", "3j1(qR)/qR"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for _, q := range de.Q {
						x := q * de.kernel.Parameters.Radius
						args = append(args, x)
						values = append(values, []float64{sasmath.Sas3j1xx(x)})
					}
					return args, values
				},
				xUnit:  nil,
				yUnits: [][]config.UnitElement{nil},
			},
			"Radius distribution": {
				DataItem: DataItem{
					saveFlag:   fs.Bool("pd", false, "save the sampled radius distribution"),
					fileSuffix: "radius_pd",
				},
				columnNames: []string{"radius", "weight"},
				values: func(de *DataExtractor) (args []float64, values [][]float64) {
					for _, point := range de.kernel.radiusPoints() {
						args = append(args, point.Value)
						values = append(values, []float64{point.Weight})
					}
					return args, values
				},
				xUnit:  length,
				yUnits: [][]config.UnitElement{nil},
			},
		},
	}
}

func (df *DataFlags) SetOutputPath(path string) {
	df.outputPath = strings.TrimSuffix(path, "/")
}

func (df *DataFlags) GetOutputPath() string {
	return df.outputPath
}
