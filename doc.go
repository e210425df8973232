// Package gridroute is a grid-based path-finding engine for PCB autorouting.
//
// It exposes three layers:
//
//   - Coord: an immutable 3D coordinate value used both for world-space
//     millimetres and discretized grid indices.
//   - Graph: a weighted lattice over a 3D index space with orthogonal,
//     diagonal and inter-layer (via) edges, filtered subgraph views and
//     A* search. Backends are pluggable; the default is an adjacency-list
//     implementation, with an alternative built on gonum's graph package.
//   - Grid: the top-level routing session. It projects between world and
//     grid space, rasterizes inclusion polygons, and commits each routed
//     path so later routes keep clearance from earlier ones.
//
// A Grid is built once per routing session and FindPath is called once per
// net, in caller-chosen order. All state is owned by the Grid; calls against
// one Grid must be serialized by the caller.
package gridroute
