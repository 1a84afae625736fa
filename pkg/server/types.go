package server

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/flowlayout/pkg/buildinfo"
	"github.com/matzehuels/flowlayout/pkg/engine"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/layout"
)

// HealthResponse is the body of /healthz.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

// GraphRequest carries a graph only.
type GraphRequest struct {
	Graph *graph.Graph `json:"graph" validate:"required"`
}

// LayoutRequest is the body of /v1/layout and /v1/preview.
type LayoutRequest struct {
	Graph  *graph.Graph  `json:"graph" validate:"required"`
	Config layout.Config `json:"config" validate:"-"`
}

// OptimizeRequest is the body of /v1/optimize.
type OptimizeRequest struct {
	Graph         *graph.Graph  `json:"graph" validate:"required"`
	Config        layout.Config `json:"config" validate:"-"`
	MaxIterations int           `json:"maxIterations,omitempty" validate:"gte=0,lte=50"`
	Seed          int64         `json:"seed,omitempty"`
}

// RenderRequest is the body of /v1/render.
type RenderRequest struct {
	Graph    *graph.Graph  `json:"graph" validate:"required"`
	Config   layout.Config `json:"config" validate:"-"`
	Detailed bool          `json:"detailed,omitempty"`
}

// AlgorithmInfo describes a registered algorithm.
type AlgorithmInfo struct {
	Name                layout.AlgorithmName `json:"name"`
	Description         string               `json:"description"`
	SupportsConstraints bool                 `json:"supportsConstraints"`
	DefaultConfig       layout.Config        `json:"defaultConfig"`
}

// HistoryEntry is one committed layout.
type HistoryEntry struct {
	ID     uuid.UUID      `json:"id"`
	At     time.Time      `json:"at"`
	Result *layout.Result `json:"result"`
}

// ErrorBody is the error envelope.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the code and message of a failed request.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func historyEntry(e engine.Entry) HistoryEntry {
	return HistoryEntry{ID: e.ID, At: e.At, Result: e.Result}
}
