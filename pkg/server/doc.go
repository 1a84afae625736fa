// Package server exposes the layout engine over HTTP.
//
// # Routes
//
//	POST /v1/layout                    compute and commit a layout
//	POST /v1/preview                   compute a layout without committing
//	POST /v1/optimize                  search config perturbations, commit the best
//	POST /v1/analyze                   topology analysis
//	POST /v1/suggestions               ranked algorithm suggestions
//	POST /v1/review                    process type, layout issues and fixes
//	POST /v1/render                    layout rendered as SVG
//	GET  /v1/templates                 list templates
//	POST /v1/templates/{name}/apply    layout with a template
//	GET  /v1/algorithms                list algorithms and their defaults
//	GET  /v1/history                   committed layouts, oldest first
//	POST /v1/history/back              step the history cursor back
//	POST /v1/history/forward           step the history cursor forward
//	GET  /healthz                      liveness
//	GET  /metrics                      Prometheus metrics, when configured
//
// Request bodies are JSON. Errors are returned as
//
//	{"error": {"code": "INVALID_CONFIG", "message": "..."}}
//
// with the status from errors.HTTPStatus.
package server
