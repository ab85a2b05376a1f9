package rates

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// File is the on-disk YAML layout of a rate set. Row premiums are positional
// against the table's coverages; 0 marks a tier that is not offered.
type File struct {
	Version string      `yaml:"version"`
	Limits  []LimitFile `yaml:"limits"`
	Tables  []TableFile `yaml:"tables"`
}

type LimitFile struct {
	Product Product         `yaml:"product"`
	Bands   []LimitBandFile `yaml:"bands"`
}

type LimitBandFile struct {
	Age         int   `yaml:"age"`
	MaxCoverage int64 `yaml:"max_coverage"`
}

type TableFile struct {
	Product   Product     `yaml:"product"`
	Style     PolicyStyle `yaml:"style"`
	Tobacco   bool        `yaml:"tobacco"`
	Coverages []int64     `yaml:"coverages,flow"`
	Rows      []RowFile   `yaml:"rows"`
}

type RowFile struct {
	Age      int       `yaml:"age"`
	Gender   Gender    `yaml:"gender"`
	Premiums []float64 `yaml:"premiums,flow"`
}

// Export renders a set in the File layout.
func Export(s *Set) ([]byte, error) {
	f := File{Version: s.Version}
	for _, l := range s.AllLimits() {
		lf := LimitFile{Product: l.Product}
		for _, b := range l.Bands {
			lf.Bands = append(lf.Bands, LimitBandFile{Age: b.Age, MaxCoverage: b.MaxCoverage})
		}
		f.Limits = append(f.Limits, lf)
	}
	for _, t := range s.Tables() {
		tf := TableFile{
			Product:   t.Key.Product,
			Style:     t.Key.Style,
			Tobacco:   t.Key.Tobacco,
			Coverages: t.Coverages,
		}
		for _, r := range t.Rows {
			rf := RowFile{Age: r.Age, Gender: r.Gender, Premiums: make([]float64, len(t.Coverages))}
			for i, c := range t.Coverages {
				if prem, ok := r.Premium(c); ok {
					rf.Premiums[i] = prem.InexactFloat64()
				}
			}
			tf.Rows = append(tf.Rows, rf)
		}
		f.Tables = append(f.Tables, tf)
	}

	out, err := yaml.Marshal(&f)
	if err != nil {
		return nil, fmt.Errorf("marshal rate file: %w", err)
	}
	return out, nil
}

// Parse decodes and validates a rate file.
func Parse(data []byte) (*Set, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if f.Version == "" {
		return nil, fmt.Errorf("rate file: version is required")
	}

	limits := make([]Limits, 0, len(f.Limits))
	for _, lf := range f.Limits {
		l := Limits{Product: lf.Product}
		for _, b := range lf.Bands {
			l.Bands = append(l.Bands, LimitBand{Age: b.Age, MaxCoverage: b.MaxCoverage})
		}
		limits = append(limits, l)
	}

	tables := make([]*Table, 0, len(f.Tables))
	for _, tf := range f.Tables {
		t := &Table{
			Key:       TableKey{Product: tf.Product, Style: tf.Style, Tobacco: tf.Tobacco},
			Coverages: tf.Coverages,
		}
		for _, rf := range tf.Rows {
			if len(rf.Premiums) != len(tf.Coverages) {
				return nil, fmt.Errorf("table %s: band %d %s has %d premiums for %d coverages",
					t.Key, rf.Age, rf.Gender, len(rf.Premiums), len(tf.Coverages))
			}
			row := Row{Age: rf.Age, Gender: rf.Gender}
			for i, raw := range rf.Premiums {
				if raw == 0 {
					continue
				}
				prem := decimal.NewFromFloat(raw)
				row.Premiums = append(row.Premiums, TierPremium{Coverage: tf.Coverages[i], Premium: prem})
			}
			t.Rows = append(t.Rows, row)
		}
		tables = append(tables, t)
	}

	return NewSet(f.Version, tables, limits)
}

// LoadFile reads and parses a rate file.
func LoadFile(path string) (*Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("rate file %s: %w", path, err)
	}
	return s, nil
}
