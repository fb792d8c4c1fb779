package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/heatgrid/internal/diffusion"
	"gonum.org/v1/gonum/mat"
)

// Shades runs from the coldest to the hottest glyph.
const Shades = ".:-=+*#%@"

const nanGlyph = '?'

// Heatmap renders m with one glyph pair per cell, normalised to the field's
// own range. A uniform field renders entirely in the coldest shade.
func Heatmap(m mat.Matrix, theme Theme) string {
	r, c := m.Dims()
	lo, hi := finiteRange(m)

	shades := []rune(Shades)
	styles := make([]lipgloss.Style, len(shades))
	for k := range styles {
		styles[k] = lipgloss.NewStyle().Foreground(rampColor(theme, k, len(shades)))
	}
	nanStyle := lipgloss.NewStyle().Foreground(theme.Muted)

	var sb strings.Builder
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				sb.WriteString(nanStyle.Render(strings.Repeat(string(nanGlyph), 2)))
				continue
			}
			k := level(v, lo, hi, len(shades))
			sb.WriteString(styles[k].Render(strings.Repeat(string(shades[k]), 2)))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Legend describes the value range a heatmap of m spans.
func Legend(m mat.Matrix, theme Theme) string {
	lo, hi := finiteRange(m)
	shades := []rune(Shades)
	var sb strings.Builder
	for k, s := range shades {
		style := lipgloss.NewStyle().Foreground(rampColor(theme, k, len(shades)))
		sb.WriteString(style.Render(string(s)))
	}
	return fmt.Sprintf("%s %s .. %s", diffusion.FormatValue(lo), sb.String(), diffusion.FormatValue(hi))
}

func level(v, lo, hi float64, n int) int {
	if hi <= lo {
		return 0
	}
	k := int((v-lo)/(hi-lo)*float64(n-1) + 0.5)
	return min(max(k, 0), n-1)
}

func rampColor(theme Theme, k, n int) lipgloss.Color {
	if len(theme.Ramp) == 0 {
		return theme.Primary
	}
	if n <= 1 {
		return theme.Ramp[0]
	}
	return theme.Ramp[k*(len(theme.Ramp)-1)/(n-1)]
}

func finiteRange(m mat.Matrix) (float64, float64) {
	r, c := m.Dims()
	lo, hi := math.Inf(1), math.Inf(-1)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			v := m.At(i, j)
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}
