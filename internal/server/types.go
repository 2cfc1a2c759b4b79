package server

import "time"

// APIError is the canonical error envelope returned by JSON endpoints.
type APIError struct {
	Error string `json:"error"`
}

// HealthResponse is returned by /api/health to confirm the server is running.
type HealthResponse struct {
	OK        bool      `json:"ok"`
	Lattices  int       `json:"lattices"`
	Timestamp time.Time `json:"timestamp"`
}

// CreateRequest is the body of POST /api/lattices.
type CreateRequest struct {
	Basis [][]float64 `json:"basis"`
}

// LatticeResponse describes a stored lattice.
type LatticeResponse struct {
	ID         string      `json:"id"`
	Dim        int         `json:"dim"`
	AmbientDim int         `json:"ambientDim"`
	Basis      [][]float64 `json:"basis"`
	Text       string      `json:"text"`
	Volume     float64     `json:"volume"`
}

// LLLRequest is the body of POST /api/lattices/{id}/lll. A missing delta
// means the default 0.75; a missing or zero maxSwaps means the server limit.
type LLLRequest struct {
	Delta    *float64 `json:"delta,omitempty"`
	MaxSwaps int      `json:"maxSwaps,omitempty"`
}

// ReduceRequest is the body of the one-shot POST /api/reduce.
type ReduceRequest struct {
	Basis    [][]float64 `json:"basis"`
	Delta    *float64    `json:"delta,omitempty"`
	MaxSwaps int         `json:"maxSwaps,omitempty"`
}

// LLLResponse reports the outcome of an LLL run.
//
// Complete is false when the swap limit stopped the run early; Basis then
// holds the partially reduced basis.
type LLLResponse struct {
	ID         string      `json:"id"`
	Delta      float64     `json:"delta"`
	Basis      [][]float64 `json:"basis"`
	Iterations int         `json:"iterations"`
	Swaps      int         `json:"swaps"`
	Complete   bool        `json:"complete"`
	Reduced    bool        `json:"reduced"`
}

// SwapEventDTO is the payload of a "swap" WebSocket event.
type SwapEventDTO struct {
	ID    string      `json:"id"`
	Index int         `json:"index"`
	Swaps int         `json:"swaps"`
	Basis [][]float64 `json:"basis"`
}
