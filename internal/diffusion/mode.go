package diffusion

import (
	"fmt"
	"strings"
)

// Mode selects the boundary condition applied on one edge.
type Mode int

const (
	Dirichlet Mode = iota
	Neumann
)

// ModeFromCode maps the integer convention 1 = Dirichlet, anything else =
// Neumann.
func ModeFromCode(code int) Mode {
	if code == 1 {
		return Dirichlet
	}
	return Neumann
}

func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "dirichlet", "d":
		return Dirichlet, nil
	case "neumann", "n":
		return Neumann, nil
	}
	return 0, fmt.Errorf("%w: unknown boundary mode %q", ErrConfiguration, s)
}

func (m Mode) Valid() bool { return m == Dirichlet || m == Neumann }

func (m Mode) String() string {
	switch m {
	case Dirichlet:
		return "dirichlet"
	case Neumann:
		return "neumann"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Edge names a side of the grid. The order matches Config.Modes.
type Edge int

const (
	Left Edge = iota
	Right
	Top
	Bottom
)

var Edges = [4]Edge{Left, Right, Top, Bottom}

func (e Edge) String() string {
	switch e {
	case Left:
		return "left"
	case Right:
		return "right"
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	}
	return fmt.Sprintf("edge(%d)", int(e))
}
