// Package dataset reads student profiles from CSV exports of the
// placement dataset.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/okian/salaryband/internal/domain/model"
)

// Record is one parsed data row with its 1-based line number in the file.
type Record struct {
	Line    int
	Profile model.Profile
}

// Read parses profiles from r. Columns are matched by header name, so their
// order does not matter and extra columns such as the training label are
// ignored. Internship values are normalized to Yes/No. Range checks are left
// to model.Profile.Validate.
func Read(r io.Reader) ([]Record, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("csv: header: %w", err)
	}

	idx, err := columnIndex(headers)
	if err != nil {
		return nil, err
	}

	var out []Record
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		p, err := parseRecord(record, idx)
		if err != nil {
			return nil, fmt.Errorf("csv: line %d: %w", line, err)
		}
		out = append(out, Record{Line: line, Profile: p})
	}
}

// LoadFile reads profiles from path. Files ending in .gz or .zst are
// decompressed on the fly.
func LoadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".gz"):
		gr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("csv: gzip %s: %w", path, err)
		}
		defer gr.Close() //nolint:errcheck
		r = gr
	case strings.HasSuffix(path, ".zst"), strings.HasSuffix(path, ".zstd"):
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("csv: zstd %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	}

	records, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Profiles strips line numbers from records.
func Profiles(records []Record) []model.Profile {
	out := make([]model.Profile, len(records))
	for i, rec := range records {
		out[i] = rec.Profile
	}
	return out
}

func columnIndex(headers []string) (map[string]int, error) {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	var missing []string
	for _, c := range model.Columns {
		if _, ok := idx[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", model.ErrMissingColumn, strings.Join(missing, ", "))
	}
	return idx, nil
}

func parseRecord(record []string, idx map[string]int) (model.Profile, error) {
	field := func(col string) string {
		return strings.TrimSpace(record[idx[col]])
	}
	var errs []error
	atoi := func(col string) int {
		v, err := strconv.Atoi(field(col))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s %q", ErrBadValue, col, field(col)))
		}
		return v
	}
	atof := func(col string) float64 {
		v, err := strconv.ParseFloat(field(col), 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s %q", ErrBadValue, col, field(col)))
		}
		return v
	}

	p := model.Profile{
		CollegeID:           field(model.ColCollegeID),
		IQ:                  atoi(model.ColIQ),
		PrevSemResult:       atof(model.ColPrevSemResult),
		CGPA:                atof(model.ColCGPA),
		AcademicPerformance: atoi(model.ColAcademicPerformance),
		Internship:          model.NormalizeInternship(field(model.ColInternship)),
		ExtraCurricular:     atoi(model.ColExtraCurricular),
		Communication:       atoi(model.ColCommunication),
		ProjectsCompleted:   atoi(model.ColProjectsCompleted),
	}
	return p, errors.Join(errs...)
}
