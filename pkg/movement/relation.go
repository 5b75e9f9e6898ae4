package movement

import (
	"fmt"

	"github.com/matzehuels/gridrule/pkg/grid"
)

// Axis is a direction of travel on the grid.
type Axis int

const (
	Horizontal Axis = iota
	Vertical
)

// String returns "horizontal" or "vertical".
func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return fmt.Sprintf("axis(%d)", int(a))
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	switch string(b) {
	case "horizontal":
		*a = Horizontal
	case "vertical":
		*a = Vertical
	default:
		return fmt.Errorf("unknown axis %q", b)
	}
	return nil
}

// Direction is a unit move along an axis.
type Direction int

const (
	Right Direction = iota
	Left
	Down
	Up
)

var directionNames = [...]string{Right: "right", Left: "left", Down: "down", Up: "up"}

// String returns the direction's lowercase name.
func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", int(d))
	}
	return directionNames[d]
}

// Delta returns the (row, col) offset of one step in direction d.
func (d Direction) Delta() (int, int) {
	switch d {
	case Right:
		return 0, 1
	case Left:
		return 0, -1
	case Down:
		return 1, 0
	case Up:
		return -1, 0
	}
	return 0, 0
}

// Step is one axis decision of a relation.
type Step struct {
	Axis      Axis
	Direction Direction
}

func (s Step) String() string { return s.Axis.String() + ":" + s.Direction.String() }

// Relate returns how to travel from a to b: a horizontal step when the
// columns differ, then a vertical step when the rows differ.
func Relate(a, b grid.Point) []Step {
	var steps []Step
	switch {
	case a.Col < b.Col:
		steps = append(steps, Step{Horizontal, Right})
	case a.Col > b.Col:
		steps = append(steps, Step{Horizontal, Left})
	}
	switch {
	case a.Row < b.Row:
		steps = append(steps, Step{Vertical, Down})
	case a.Row > b.Row:
		steps = append(steps, Step{Vertical, Up})
	}
	return steps
}

// AxisOrder returns the axis labels of steps, in order.
func AxisOrder(steps []Step) []Axis {
	order := make([]Axis, len(steps))
	for i, s := range steps {
		order[i] = s.Axis
	}
	return order
}
