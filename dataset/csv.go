package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/amesfit/amesfit/pkg/errors"
)

// missing values as they appear in the bundled data and common exports.
var missingTokens = map[string]struct{}{
	"": {}, "NA": {}, "N/A": {}, "NaN": {}, "nan": {},
}

// ReadCSV reads a headed CSV stream into a Table, inferring a numeric or
// string kind per column. A column is numeric when every non-missing value
// parses as a float and at least one value is present; missing numeric
// entries become NaN.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "dataset: reading CSV")
	}
	if len(records) == 0 {
		return nil, errors.NewModelError("ReadCSV", "empty input", errors.ErrEmptyData)
	}

	header := records[0]
	rows := records[1:]

	cols := make([]Column, len(header))
	for j, name := range header {
		raw := make([]string, len(rows))
		for i, rec := range rows {
			raw[i] = rec[j]
		}
		cols[j] = inferColumn(name, raw)
	}
	return NewTable(cols...)
}

// ReadCSVFile opens and reads a CSV file into a Table.
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: opening %s", path)
	}
	defer f.Close()
	return ReadCSV(f)
}

func inferColumn(name string, raw []string) Column {
	numeric := false
	for _, v := range raw {
		if _, missing := missingTokens[v]; missing {
			continue
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return Column{Name: name, Kind: String, Strings: raw}
		}
		numeric = true
	}
	if !numeric {
		// All values missing: keep the column as string rather than guess.
		return Column{Name: name, Kind: String, Strings: raw}
	}

	floats := make([]float64, len(raw))
	for i, v := range raw {
		if _, missing := missingTokens[v]; missing {
			floats[i] = math.NaN()
			continue
		}
		f, _ := strconv.ParseFloat(v, 64)
		floats[i] = f
	}
	return Column{Name: name, Kind: Numeric, Floats: floats}
}
