// Package enginepb holds the wire schema of the fruit compute engine service.
// Messages travel as JSON over gRPC, see codec.go.
package enginepb

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

type Empty struct{}

type PriceRequest struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

type DeleteRequest struct {
	Name string `json:"name"`
}

type CostRequest struct {
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
}

type CostResponse struct {
	Cost decimal.Decimal `json:"cost"`
}

type TaskRequest struct {
	Kind string          `json:"kind"`
	Args json.RawMessage `json:"args,omitempty"`
}

type TaskResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
}
