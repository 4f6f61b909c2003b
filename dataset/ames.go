package dataset

import (
	"bytes"
	_ "embed"
)

// Bundled sample of the Ames, Iowa housing data: one row per residential
// sale with the sale price, living area, year built, neighborhood, building
// type, lot area, bath and bedroom counts, and site coordinates.
//
//go:embed ames.csv
var amesCSV []byte

// TargetColumn is the response variable of the housing workflow after name
// cleaning.
const TargetColumn = "sale_price"

// LogTargetColumn is the derived log10 response added by LoadAmes.
const LogTargetColumn = "log_sale_price"

// LoadAmes returns the bundled housing sample with cleaned column names and
// the derived log10 sale-price column appended.
func LoadAmes() (*Table, error) {
	raw, err := ReadCSV(bytes.NewReader(amesCSV))
	if err != nil {
		return nil, err
	}
	tbl, err := raw.CleanNames()
	if err != nil {
		return nil, err
	}
	return tbl.WithLog10Column(TargetColumn, LogTargetColumn)
}
