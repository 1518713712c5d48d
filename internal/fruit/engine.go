package fruit

import (
	"context"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Engine описывает контракт удалённого движка цен.
// Интерфейс лежит в отдельном пакете, чтобы транспорт и корзина не импортировали друг друга.
type Engine interface {
	AddFruitPrice(ctx context.Context, name string, price decimal.Decimal) error
	UpdateFruitPrice(ctx context.Context, name string, price decimal.Decimal) error
	DeleteFruitPrice(ctx context.Context, name string) error
	// CalculateFruitCost возвращает полную стоимость quantity единиц фрукта name.
	CalculateFruitCost(ctx context.Context, name string, quantity int) (decimal.Decimal, error)
	ExecuteTask(ctx context.Context, task Task) (json.RawMessage, error)
}

// Price: название фрукта и цена за единицу, как их получает движок.
type Price struct {
	Name  string
	Price decimal.Decimal
}

// Task: непрозрачная задача, которую выполняет движок.
type Task struct {
	Kind string          `json:"kind"`
	Args json.RawMessage `json:"args,omitempty"`
}
