package utils

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	json "github.com/KevinWang15/go-json5"
)

var ErrEmptyData = errors.New("no data rows")

// ReadFloatColumns reads whitespace separated numeric rows. Blank lines and
// lines starting with '#' are skipped; every row must carry at least
// minColumns values.
func ReadFloatColumns(filename string, minColumns int) ([][]float64, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer file.Close()

	var result [][]float64

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Fields(strings.ReplaceAll(line, ",", " "))
		if len(parts) < minColumns {
			return nil, fmt.Errorf("invalid format in line: %q - expected at least %d numbers, got %d", line, minColumns, len(parts))
		}

		row := make([]float64, len(parts))
		for i := range parts {
			row[i], err = strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return nil, fmt.Errorf("error parsing float in line %q: %w", line, err)
			}
		}
		result = append(result, row)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if len(result) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyData)
	}

	return result, nil
}

// ReadFloatPairsJSON5 reads a JSON5 array of [q, I] pairs.
func ReadFloatPairsJSON5(filename string) ([][2]float64, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	var pairs [][2]float64
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	if len(pairs) == 0 {
		return nil, fmt.Errorf("%s: %w", filename, ErrEmptyData)
	}
	return pairs, nil
}

// ReadQ takes the first column of a data file as the q vector.
func ReadQ(filename string) ([]float64, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json", ".json5":
		pairs, err := ReadFloatPairsJSON5(filename)
		if err != nil {
			return nil, err
		}
		q := make([]float64, len(pairs))
		for i := range pairs {
			q[i] = pairs[i][0]
		}
		return q, nil
	default:
		rows, err := ReadFloatColumns(filename, 1)
		if err != nil {
			return nil, err
		}
		q := make([]float64, len(rows))
		for i := range rows {
			q[i] = rows[i][0]
		}
		return q, nil
	}
}

func GetFilename(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func OpenFile(makeDir bool, outputPath string, fileSuffix, modelName string) (*os.File, error) {
	if makeDir && fileSuffix != "" && fileSuffix != "." {
		if err := os.MkdirAll(filepath.Join(outputPath, fileSuffix), 0750); err != nil {
			return nil, err
		}
		return os.Create(filepath.Join(outputPath, fileSuffix, modelName+".csv"))
	}
	return os.Create(filepath.Join(outputPath, modelName+"_"+fileSuffix+".csv"))
}
