package routeplot_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/copperline/gridroute"
	"github.com/copperline/gridroute/routeplot"
)

func TestSave(t *testing.T) {
	t.Parallel()

	g, err := gridroute.NewGrid(
		[2]gridroute.OutCoord{gridroute.C(0.0, 0.0, 0.0), gridroute.C(10.0, 10.0, 1.0)},
		nil,
		gridroute.WithResolution(1),
		gridroute.WithTolerance(0),
		gridroute.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	require.NoError(t, err)

	path, err := g.FindPath([]gridroute.OutCoord{
		gridroute.C(0.0, 0.0, 0.0),
		gridroute.C(10.0, 10.0, 0.0),
	})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "session.png")
	require.NoError(t, routeplot.Save(g, [][]gridroute.OutCoord{path}, out))

	info, err := os.Stat(out)
	require.NoError(t, err)
	require.NotZero(t, info.Size())
}
