// ASCII yard map rendering for terminal preview
package preview

import (
	"math"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/term"

	"mownav/internal/geo"
	"mownav/internal/geofence"
	"mownav/internal/plan"
)

var (
	boundaryStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	zoneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	pathStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	mowerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	legendStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Map renders a yard, its plan, and an optional mower position as a
// character grid.
type Map struct {
	shape *geofence.Shape
	width int
	cells [][]byte
	minX  float64
	minY  float64
	sx    float64
	sy    float64
	rows  int
}

// NewMap sizes a map to the terminal width, falling back to 80 columns when
// the width cannot be determined.
func NewMap(shape *geofence.Shape) *Map {
	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		width = w
	}
	return NewMapWidth(shape, width)
}

// NewMapWidth sizes a map to an explicit column count.
func NewMapWidth(shape *geofence.Shape, width int) *Map {
	minPt, maxPt := shape.Bounds()
	spanX := maxPt.X - minPt.X
	spanY := maxPt.Y - minPt.Y
	if spanX <= 0 || spanY <= 0 {
		spanX, spanY = 1, 1
	}
	cols := width
	// Terminal cells are about twice as tall as wide.
	rows := int(math.Ceil(spanY / spanX * float64(cols) / 2))
	if rows < 4 {
		rows = 4
	}
	m := &Map{
		shape: shape,
		width: cols,
		minX:  minPt.X,
		minY:  minPt.Y,
		sx:    float64(cols-1) / spanX,
		sy:    float64(rows-1) / spanY,
		rows:  rows,
	}
	m.cells = make([][]byte, rows)
	for i := range m.cells {
		m.cells[i] = make([]byte, cols)
		for j := range m.cells[i] {
			m.cells[i][j] = ' '
		}
	}
	m.drawShape()
	return m
}

func (m *Map) cell(p geo.LocalPoint) (int, int) {
	col := int(math.Round((p.X - m.minX) * m.sx))
	row := m.rows - 1 - int(math.Round((p.Y-m.minY)*m.sy))
	return col, row
}

func (m *Map) set(p geo.LocalPoint, ch byte) {
	col, row := m.cell(p)
	if col >= 0 && col < m.width && row >= 0 && row < m.rows {
		m.cells[row][col] = ch
	}
}

func (m *Map) drawShape() {
	m.drawRing(m.shape.Outer(), '#')
	for _, z := range m.shape.Zones() {
		switch z.Kind {
		case geofence.ZoneCircle:
			for a := 0.0; a < 2*math.Pi; a += 0.1 {
				m.set(geo.LocalPoint{
					X: z.Center.X + z.Radius*math.Cos(a),
					Y: z.Center.Y + z.Radius*math.Sin(a),
				}, 'x')
			}
		case geofence.ZonePolygon:
			m.drawRing(z.Polygon, 'x')
		}
	}
}

func (m *Map) drawRing(ring []geo.LocalPoint, ch byte) {
	for i := range ring {
		a := ring[i]
		b := ring[(i+1)%len(ring)]
		m.drawSegment(a, b, ch)
	}
}

func (m *Map) drawSegment(a, b geo.LocalPoint, ch byte) {
	d := geo.Dist(a, b)
	steps := int(d*m.sx) + int(d*m.sy) + 1
	for i := 0; i <= steps; i++ {
		f := float64(i) / float64(steps)
		m.set(geo.LocalPoint{X: a.X + f*(b.X-a.X), Y: a.Y + f*(b.Y-a.Y)}, ch)
	}
}

// DrawPlan overlays plan segments with dots.
func (m *Map) DrawPlan(p *plan.Plan) {
	for i := 0; i+1 < len(p.Waypoints); i++ {
		m.drawSegment(p.Waypoints[i].Pos, p.Waypoints[i+1].Pos, '.')
	}
}

// DrawMower marks the current mower position.
func (m *Map) DrawMower(p geo.LocalPoint) {
	m.set(p, '@')
}

// Render returns the colorized map followed by a wrapped legend.
func (m *Map) Render() string {
	var sb strings.Builder
	for _, row := range m.cells {
		sb.WriteString(styleLine(string(row)))
		sb.WriteByte('\n')
	}
	legend := "# boundary   x no-go zone   . planned path   @ mower"
	sb.WriteString(legendStyle.Render(wordwrap.String(legend, m.width)))
	return sb.String()
}

func styleLine(line string) string {
	var sb strings.Builder
	for _, r := range line {
		switch r {
		case '#':
			sb.WriteString(boundaryStyle.Render(string(r)))
		case 'x':
			sb.WriteString(zoneStyle.Render(string(r)))
		case '.':
			sb.WriteString(pathStyle.Render(string(r)))
		case '@':
			sb.WriteString(mowerStyle.Render(string(r)))
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
