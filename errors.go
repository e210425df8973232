package gridroute

import (
	"errors"
	"fmt"
)

// All routing failures surface as one of three kinds:
//
//   - ErrNoPath: the search exhausted the live graph without connecting the
//     terminals. Check with errors.Is.
//   - InvalidVertexError: a projected coordinate fell outside the
//     discretized index range. Check with errors.As; the offending index is
//     recoverable to a world coordinate via Coord.
//   - TerminalError: a terminal landed on an excluded or already-used cell.
//     Raised before any search runs; check with errors.As.
//
// FindPath is all-or-nothing: no partial or best-effort result accompanies
// an error.

// ErrNoPath reports that no connecting route exists under the live
// vertex/edge set.
var ErrNoPath = errors.New("no path found")

// InvalidVertexError reports a flat vertex index outside the graph's index
// range.
type InvalidVertexError struct {
	Vertex int
}

func (e *InvalidVertexError) Error() string {
	return fmt.Sprintf("invalid vertex: %d", e.Vertex)
}

// Coord recovers the world coordinate of the offending vertex on the grid
// the index was projected against.
func (e *InvalidVertexError) Coord(g *Grid) OutCoord {
	return g.projectOutTriple(g.g.ProjectOut(e.Vertex))
}

// TerminalError reports a terminal that coincides with an excluded or
// already-used cell. It is raised by precondition checks, never by the
// search itself.
type TerminalError struct {
	Terminal OutCoord
	Reason   string
}

func (e *TerminalError) Error() string {
	return fmt.Sprintf("terminal %v invalid: %s", e.Terminal, e.Reason)
}
