// Package layout computes node positions for flowchart graphs.
//
// # Algorithms
//
// Five built-in algorithms implement [Algorithm]:
//
//   - [HierarchicalLayout]: Kahn layering, barycenter crossing reduction,
//     centred layers
//   - [TreeLayout]: tidy tree with bottom-up subtree widths
//   - [CircularLayout]: rings, optionally grouped onto concentric circles
//   - [GridLayout]: regular cells in row- or column-major order
//   - [ForceLayout]: seeded Fruchterman-Reingold simulation
//
// All of them read the graph and return a new position map holding every
// node id. Hierarchical, tree, circular and grid output depends only on the
// graph and config. Force-directed output depends on the seed as well.
//
// # Configuration
//
// [Config] carries the generic settings (direction, spacing) and one typed
// options struct per algorithm in [Options]. [Merge] layers a caller config
// over algorithm defaults over [GlobalDefaults]. [ValidateConfig] checks the
// generic constraints using struct tags; each algorithm adds its own checks
// in Validate.
//
// # Directions
//
// Layered algorithms compute x across a layer and y down the layers, then
// [Apply] maps them: TB keeps (x, y), BT flips y, LR swaps the axes and RL
// swaps them and flips the new x.
package layout
