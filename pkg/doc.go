// Package pkg provides the core libraries for Flowlayout flowchart layout.
//
// # Overview
//
// Flowlayout computes node positions for flowchart graphs. The pkg
// directory is organized into four main areas:
//
//  1. Model: [graph] (nodes and edges), [dag] (indexed adjacency and
//     transformations) and [errors] (coded errors)
//  2. Layout: [layout] (the five algorithms), [analyzer] (topology
//     features), [optimizer] (scoring and config search) and [engine]
//     (registry, templates, history, suggestions and events)
//  3. Infrastructure: [cache] (file and Redis backends), [config] (TOML
//     settings), [observability] and [metrics] (Prometheus hooks)
//  4. Surfaces: [server] (HTTP API) and [render] (DOT and SVG output)
//
// # Architecture
//
// The typical data flow through Flowlayout:
//
//	Flowchart JSON
//	      ↓
//	 [graph] package (decode, hash)
//	      ↓
//	 [engine] package (resolve config, analyze, cache)
//	      ↓
//	 [layout] package (positions) → [optimizer] package (score)
//	      ↓
//	 JSON/YAML result, SVG or DOT
//
// [graph]: github.com/matzehuels/flowlayout/pkg/graph
// [dag]: github.com/matzehuels/flowlayout/pkg/dag
// [errors]: github.com/matzehuels/flowlayout/pkg/errors
// [layout]: github.com/matzehuels/flowlayout/pkg/layout
// [analyzer]: github.com/matzehuels/flowlayout/pkg/analyzer
// [optimizer]: github.com/matzehuels/flowlayout/pkg/optimizer
// [engine]: github.com/matzehuels/flowlayout/pkg/engine
// [cache]: github.com/matzehuels/flowlayout/pkg/cache
// [config]: github.com/matzehuels/flowlayout/pkg/config
// [observability]: github.com/matzehuels/flowlayout/pkg/observability
// [metrics]: github.com/matzehuels/flowlayout/pkg/metrics
// [server]: github.com/matzehuels/flowlayout/pkg/server
// [render]: github.com/matzehuels/flowlayout/pkg/render
package pkg
