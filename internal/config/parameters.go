package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gonum.org/v1/gonum/floats"

	"github.com/wildstyl3r/sasphere/internal/utils"
)

var (
	ErrNoModels     = errors.New("no models provided")
	ErrUnitConflict = errors.New("unit conflict")
)

type Config struct {
	OutputDir string
	Models    map[string]ModelParameters
	ModelParameters
	RadiusSeries []float64
	isDefinedMap map[string]struct{}

	InputUnits  []string
	OutputUnits []string
}

func (c *Config) isDefined(path []string, meta *toml.MetaData) bool {
	if _, sureDefined := c.isDefinedMap[strings.Join(path, "#")]; sureDefined {
		return true
	} else {
		return meta.IsDefined(path...)
	}
}

// LoadConfig decodes a TOML model file. The ".toml" suffix may be omitted.
func LoadConfig(configFileName string) (Config, toml.MetaData, error) {
	var config Config
	config.isDefinedMap = map[string]struct{}{}
	configFileName = strings.TrimSuffix(configFileName, ".toml") + ".toml"
	meta, err := toml.DecodeFile(configFileName, &config)
	if err != nil {
		return config, meta, fmt.Errorf("reading %s: %w", configFileName, err)
	}

	var unitsConflict []string
	config.InputUnits, unitsConflict = checkUnits(config.InputUnits)
	if len(unitsConflict) > 0 {
		return config, meta, fmt.Errorf("input units %v: %w", unitsConflict, ErrUnitConflict)
	}
	if len(config.OutputUnits) == 0 {
		config.OutputUnits = config.InputUnits
	}
	config.OutputUnits, unitsConflict = checkUnits(config.OutputUnits)
	if len(unitsConflict) > 0 {
		return config, meta, fmt.Errorf("output units %v: %w", unitsConflict, ErrUnitConflict)
	}

	if len(config.RadiusSeries) > 0 {
		if len(config.Models) > 0 {
			return config, meta, errors.New("simultaneous radius series and direct model specification not supported")
		}
		filename := utils.GetFilename(configFileName)
		config.Models = make(map[string]ModelParameters, len(config.RadiusSeries))
		for i, radius := range config.RadiusSeries {
			modelName := filename + "_r" + strconv.Itoa(i+1)
			config.Models[modelName] = ModelParameters{Radius: radius}
			config.isDefinedMap[strings.Join([]string{"Models", modelName, "Radius"}, "#")] = struct{}{}
		}
	} else if len(config.Models) == 0 {
		return config, meta, ErrNoModels
	}

	return config, meta, nil
}

type ModelParameters struct {
	Radius     float64 // [Å]
	Diameter   float64 // [Å]
	Sld        float64 // [1e-6 Å^-2]
	SldSolvent float64 // [1e-6 Å^-2]
	Contrast   float64 // [1e-6 Å^-2]
	Scale      float64
	Background float64 // [cm^-1]

	QMin       float64 // [Å^-1]
	QMax       float64 // [Å^-1]
	QPoints    int
	LogSpacing bool
	QFile      string
	Q2DPoints  int

	RadiusPD        float64 // relative width
	RadiusPDType    string
	RadiusPDN       int
	RadiusPDNSigmas float64
	Cutoff          float64

	MakeDir bool

	_inputUnits  []string
	_outputUnits []string
	_verbose     bool
	_threads     int
}

func (p *ModelParameters) InputUnits() []string {
	return p._inputUnits
}

func (p *ModelParameters) OutputUnits() []string {
	return p._outputUnits
}

func (p *ModelParameters) SetOutputUnits(u []string) {
	p._outputUnits = u
}

func (p *ModelParameters) Verbose() bool {
	return p._verbose
}

func (p *ModelParameters) SetVerbosity(verbose bool) {
	p._verbose = verbose
}

func (p *ModelParameters) Threads() int {
	return p._threads
}

func (p *ModelParameters) SetThreads(threads int) {
	p._threads = threads
}

// QVector builds the q values [Å^-1] to evaluate: the first column of QFile
// in input units, or QPoints values spanning [QMin, QMax].
func (p *ModelParameters) QVector() ([]float64, error) {
	if p.QFile != "" {
		q, err := utils.ReadQ(p.QFile)
		if err != nil {
			return nil, err
		}
		for i := range q {
			q[i] = Convert(q[i], valueUnits["QMin"], p._inputUnits, true)
		}
		return q, nil
	}
	if p.QPoints < 2 {
		return []float64{p.QMin}, nil
	}
	q := make([]float64, p.QPoints)
	if p.LogSpacing && p.QMin > 0 {
		return floats.LogSpan(q, p.QMin, p.QMax), nil
	}
	return floats.Span(q, p.QMin, p.QMax), nil
}

var defaultValues = map[string]any{ // internal units
	"Radius":          50.,
	"Sld":             1.,
	"SldSolvent":      6.,
	"Scale":           1.,
	"Background":      0.001,
	"QMin":            0.001,
	"QMax":            0.5,
	"QPoints":         200,
	"LogSpacing":      true,
	"RadiusPDType":    "gaussian",
	"RadiusPDN":       35,
	"RadiusPDNSigmas": 3.,
	"MakeDir":         true,
}

var defaultUnits = []string{"A", "cm^-1"}

var fieldsXor = map[string][]string{
	"Radius":   {"Diameter"},
	"Diameter": {"Radius"},
	"Sld":      {"Contrast"},
	"Contrast": {"Sld"},
	"QFile":    {"QMin", "QMax"},
	"QMin":     {"QFile"},
	"QMax":     {"QFile"},
}

var fieldsAnd = map[string][]string{
	"QMin":     {"QMax"},
	"QMax":     {"QMin"},
	"Contrast": {"SldSolvent"},
}

var fieldsDerivable map[string][]string = map[string][]string{
	"Diameter": {"Radius"},
	"Contrast": {"Sld"},
}

var valueUnits = map[string][]UnitElement{
	"Radius":     {{Class: Length, Power: 1}},
	"Diameter":   {{Class: Length, Power: 1}},
	"Sld":        {{Class: Length, Power: -2}},
	"SldSolvent": {{Class: Length, Power: -2}},
	"Contrast":   {{Class: Length, Power: -2}},
	"Background": {{Class: Intensity, Power: 1}},
	"QMin":       {{Class: Length, Power: -1}},
	"QMax":       {{Class: Length, Power: -1}},
}

// UnitsOf returns the unit signature of a parameter, nil for dimensionless ones.
func UnitsOf(parameter string) []UnitElement {
	return valueUnits[parameter]
}

var calculableFields = map[string]func(
	*ModelParameters,
	[]string,
) []string{
	"Diameter": func(mp *ModelParameters, definedFields []string) []string {
		mp.Radius = 0.5 * mp.Diameter
		return []string{"Radius"}
	},
	"Contrast": func(mp *ModelParameters, definedFields []string) []string {
		if slices.Contains(definedFields, "SldSolvent") {
			mp.Sld = mp.SldSolvent + mp.Contrast
			return []string{"Sld"}
		}
		fmt.Printf("field 'SldSolvent' not found: required by Sld calculation from Contrast\n")
		return nil
	},
}

func (modelConfig *ModelParameters) toInternal(parameterNames, units []string) {
	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	for _, name := range parameterNames {
		field := modelConfigReflect.FieldByName(name)
		if field.CanFloat() {
			field.SetFloat(Convert(field.Float(), valueUnits[name], units, true))
		}
	}
}

func (modelConfig *ModelParameters) checkFieldProblems(path []string, meta *toml.MetaData, globalConfig *Config) (ambiguities [][]string, missingDeps []string) {
	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	for field := range fieldsXor {
		if globalConfig.isDefined(append(slices.Clone(path), field), meta) {
			if modelConfigReflect.FieldByName(field).Kind() == reflect.Bool && !modelConfigReflect.FieldByName(field).Bool() {
				continue
			}
			var foundAlternatives []string
			for _, alternative := range fieldsXor[field] {
				if globalConfig.isDefined(append(slices.Clone(path), alternative), meta) {
					foundAlternatives = append(foundAlternatives, alternative)
				}
			}

			if len(foundAlternatives) > 0 {
				ambiguities = append(ambiguities, append([]string{field}, foundAlternatives...))
			}
		}
	}

	for field := range fieldsAnd {
		if globalConfig.isDefined(append(slices.Clone(path), field), meta) {
			for _, requirement := range fieldsAnd[field] {
				if !globalConfig.isDefined(append(slices.Clone(path), requirement), meta) {
					missingDeps = append(missingDeps, requirement)
				}
			}
		}
	}
	return
}

/*
field value priority:
1. local
2. local-calculable
3. global
4. global-calculable
5. default
*/

// CheckAndUnify fills the model from its own table, the global table and the
// defaults, in that order, converts to internal units and derives calculable
// fields. It reports whether the result is consistent.
func (modelConfig *ModelParameters) CheckAndUnify(modelName string, config *Config, meta *toml.MetaData) bool {
	globalAmbiguities, globalMissingDeps := config.checkFieldProblems([]string{}, meta, config)
	localAmbiguities, localMissingDeps := modelConfig.checkFieldProblems([]string{"Models", modelName}, meta, config)
	if len(globalAmbiguities) > 0 {
		fmt.Printf("unable to load config: found global ambiguities \n%v\n", globalAmbiguities)
		return false
	}
	if len(localAmbiguities) > 0 {
		fmt.Printf("unable to load config: found model ambiguities \n%v\n", localAmbiguities)
		return false
	}
	var missingIntersection []string
	for _, missing := range globalMissingDeps {
		if slices.Contains(localMissingDeps, missing) {
			missingIntersection = append(missingIntersection, missing)
		}
	}
	if len(missingIntersection) > 0 {
		fmt.Printf("unable to load config: required dependent fields not found \n%v\n", missingIntersection)
		return false
	}

	var discoveredParameters []string

	excludeFromLoadingDefaultOrOuter := make(map[string]struct{})
	modelConfigReflect := reflect.ValueOf(modelConfig).Elem()
	modelConfigType := modelConfigReflect.Type()
	for i := range modelConfigReflect.NumField() {
		fieldName := modelConfigType.Field(i).Name
		if config.isDefined([]string{"Models", modelName, fieldName}, meta) {
			discoveredParameters = append(discoveredParameters, fieldName)
			for _, x := range fieldsXor[fieldName] {
				excludeFromLoadingDefaultOrOuter[x] = struct{}{}
			}
			for _, x := range fieldsDerivable[fieldName] {
				excludeFromLoadingDefaultOrOuter[x] = struct{}{}
			}
		}
	}

	globalConfigReflect := reflect.ValueOf(&config.ModelParameters).Elem()
	for i := range globalConfigReflect.NumField() {
		fieldName := modelConfigType.Field(i).Name
		if _, some := excludeFromLoadingDefaultOrOuter[fieldName]; !some && !slices.Contains(discoveredParameters, fieldName) && meta.IsDefined(fieldName) {
			modelConfigReflect.Field(i).Set(globalConfigReflect.Field(i))
			discoveredParameters = append(discoveredParameters, fieldName)
			excludeFromLoadingDefaultOrOuter[fieldName] = struct{}{}
			for _, x := range fieldsXor[fieldName] {
				excludeFromLoadingDefaultOrOuter[x] = struct{}{}
			}
			for _, x := range fieldsDerivable[fieldName] {
				excludeFromLoadingDefaultOrOuter[x] = struct{}{}
			}
		}
	}

	modelConfig.toInternal(discoveredParameters, config.InputUnits)

	for fieldName := range defaultValues {
		if _, x := excludeFromLoadingDefaultOrOuter[fieldName]; !x && !slices.Contains(discoveredParameters, fieldName) {
			modelConfigReflect.FieldByName(fieldName).Set(reflect.ValueOf(defaultValues[fieldName]))
			discoveredParameters = append(discoveredParameters, fieldName)
		}
	}

	var enabledParameters []string
	for _, fieldName := range discoveredParameters {
		field := modelConfigReflect.FieldByName(fieldName)
		if field.Kind() != reflect.Bool || field.Bool() {
			enabledParameters = append(enabledParameters, fieldName)
		}
	}

	calculatedAnything := true
	for calculatedAnything {
		calculatedAnything = false
		for initialFieldName := range calculableFields {
			if slices.Contains(enabledParameters, initialFieldName) {
				calculated := calculableFields[initialFieldName](modelConfig, enabledParameters)
				if len(calculated) != 0 {
					calculatedAnything = true
					enabledParameters = append(enabledParameters, calculated...)
					enabledParameters = slices.DeleteFunc(enabledParameters, func(elem string) bool {
						return elem == initialFieldName
					})
				}
			}
		}
	}
	for initialFieldName := range calculableFields {
		if slices.Contains(enabledParameters, initialFieldName) {
			return false
		}
	}

	allGood := true

	for _, parameter := range enabledParameters {
		for _, requirement := range fieldsAnd[parameter] {
			if !slices.Contains(enabledParameters, requirement) {
				fmt.Printf("for parameter %s requirement %s not found\n", parameter, requirement)
				allGood = false
			}
		}
		for _, conflict := range fieldsXor[parameter] {
			if slices.Contains(enabledParameters, conflict) {
				fmt.Printf("for parameter %s found conflicting parameter: %s\n", parameter, conflict)
				allGood = false
			}
		}
	}

	if modelConfig.Radius <= 0 {
		fmt.Printf("radius must be positive, got %g\n", modelConfig.Radius)
		allGood = false
	}
	if modelConfig.QFile == "" && (modelConfig.QMin < 0 || modelConfig.QMax < modelConfig.QMin) {
		fmt.Printf("invalid q range [%g, %g]\n", modelConfig.QMin, modelConfig.QMax)
		allGood = false
	}

	modelConfig._inputUnits = config.InputUnits
	units, conflict := checkUnits(config.OutputUnits)
	if len(conflict) > 0 {
		fmt.Printf("found output unit conflict: %v\n Data will be saved in input units", conflict)
		modelConfig._outputUnits = config.InputUnits
	} else {
		modelConfig._outputUnits = units
	}

	return allGood
}
