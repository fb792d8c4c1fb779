package diffusion

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// FormatValue renders a field value the way dumps do: fixed point, four
// decimals.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

// Rows yields each row of m as formatted values. The sequence reads m lazily
// and can be ranged over more than once.
func Rows(m mat.Matrix) iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		r, c := m.Dims()
		for i := 0; i < r; i++ {
			row := make([]string, c)
			for j := range row {
				row[j] = FormatValue(m.At(i, j))
			}
			if !yield(row) {
				return
			}
		}
	}
}

// Write renders m as text: one line per row, values separated by spaces.
func Write(w io.Writer, m mat.Matrix) (int64, error) {
	bw := bufio.NewWriter(w)
	var n int64
	for row := range Rows(m) {
		k, err := bw.WriteString(strings.Join(row, " ") + "\n")
		n += int64(k)
		if err != nil {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Dump returns the current field as rows of formatted values.
func (g *Grid) Dump() iter.Seq[[]string] { return Rows(g) }

func (g *Grid) WriteTo(w io.Writer) (int64, error) { return Write(w, g) }

func (g *Grid) String() string {
	var sb strings.Builder
	_, _ = g.WriteTo(&sb)
	return sb.String()
}

// Parse reads text produced by Write back into a matrix. Blank lines are
// skipped; every row must have the same number of values.
func Parse(r io.Reader) (*mat.Dense, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var data []float64
	rows, cols := 0, 0
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if rows == 0 {
			cols = len(fields)
		} else if len(fields) != cols {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrConfiguration, rows, len(fields), cols)
		}
		for _, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", rows, err)
			}
			data = append(data, v)
		}
		rows++
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, fmt.Errorf("%w: empty dump", ErrConfiguration)
	}
	return mat.NewDense(rows, cols, data), nil
}
