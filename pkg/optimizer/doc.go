// Package optimizer scores layouts and searches for better parameters.
//
// [Evaluate] measures a position map: straight-line edge crossings, area
// efficiency against a 100x100 cell per node, mirror symmetry around the
// centroid and average edge length, combined into a score in [0, 1].
//
// [Optimize] runs an algorithm under the caller's config and a bounded set
// of perturbed configs ([Candidates]) and keeps the best score. The base
// config is always candidate 0, so optimizing never makes a layout worse.
package optimizer
