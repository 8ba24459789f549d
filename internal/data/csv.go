package data

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/born-ml/ffnn/internal/nn"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// WriteHistoryCSV writes one row per epoch: "epoch", then each metric of
// hist in the order TrainMSE, TestMSE.
func WriteHistoryCSV(w io.Writer, hist nn.History) error {
	metrics := []string{nn.TrainMSE, nn.TestMSE}
	cw := csv.NewWriter(w)
	if err := cw.Write(append([]string{"epoch"}, metrics...)); err != nil {
		return errors.Wrap(err, "write history header")
	}
	for i := range hist.Epochs() {
		row := []string{strconv.Itoa(i + 1)}
		for _, m := range metrics {
			v := hist[m]
			if i >= len(v) {
				return errors.Errorf("history metric %q has %d values, want %d", m, len(v), hist.Epochs())
			}
			row = append(row, formatFloat(v[i]))
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrapf(err, "write history epoch %d", i+1)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush history")
}

// WritePredictionsCSV writes a single "prediction" column.
func WritePredictionsCSV(w io.Writer, pred mat.Vector) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"prediction"}); err != nil {
		return errors.Wrap(err, "write predictions header")
	}
	for i := range pred.Len() {
		if err := cw.Write([]string{formatFloat(pred.AtVec(i))}); err != nil {
			return errors.Wrapf(err, "write prediction %d", i)
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flush predictions")
}

// LoadCSV reads a numeric table whose last column is the target.
//
// A first row that does not parse as numbers is taken as a header and
// skipped. Every row must have the same number of fields, at least two.
func LoadCSV(r io.Reader) (*mat.Dense, *mat.VecDense, error) {
	table, err := readTable(r)
	if err != nil {
		return nil, nil, err
	}
	rows, cols := table.Dims()
	if cols < 2 {
		return nil, nil, errors.Wrapf(nn.ErrShape, "csv: need at least one feature and a target, got %d columns", cols)
	}
	x := mat.DenseCopyOf(table.Slice(0, rows, 0, cols-1))
	y := mat.VecDenseCopyOf(table.ColView(cols - 1))
	return x, y, nil
}

// LoadFeaturesCSV reads a numeric table of inputs only, e.g. for prediction.
func LoadFeaturesCSV(r io.Reader) (*mat.Dense, error) {
	return readTable(r)
}

func readTable(r io.Reader) (*mat.Dense, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "csv")
	}
	if len(records) > 0 && !numericRow(records[0]) {
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, errors.Wrap(nn.ErrShape, "csv: no data rows")
	}

	cols := len(records[0])
	values := make([]float64, 0, len(records)*cols)
	for i, rec := range records {
		for j, field := range rec {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "csv: row %d, column %d", i+1, j+1)
			}
			values = append(values, v)
		}
	}
	return mat.NewDense(len(records), cols, values), nil
}

func numericRow(rec []string) bool {
	for _, field := range rec {
		if _, err := strconv.ParseFloat(field, 64); err != nil {
			return false
		}
	}
	return true
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
