package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/boxdancer/fruit-store-client/internal/fruit"
)

// FruitPrices получает цены за единицу для names конкурентно, корзину не трогает.
// При ошибке возвращаются уже полученные цены вместе с первой ошибкой.
func (r *Registry) FruitPrices(ctx context.Context, names []string) (map[string]decimal.Decimal, error) {
	results := make(map[string]decimal.Decimal, len(names))
	if r.engine == nil {
		return results, fruit.ErrNoEngine
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)

	for _, name := range names {
		g.Go(func() error {
			cost, err := r.engine.CalculateFruitCost(ctx, name, 1)
			if err != nil {
				return fruit.Remote("calculate fruit cost", fmt.Errorf("%s: %w", name, err))
			}
			if !cost.IsPositive() {
				return nil
			}
			mu.Lock()
			results[name] = cost
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		r.logger.Errorw("error fetching fruit prices", "fruits", names, "error", err)
		return results, err
	}
	return results, nil
}
