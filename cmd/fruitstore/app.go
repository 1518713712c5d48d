package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/boxdancer/fruit-store-client/internal/cache"
	"github.com/boxdancer/fruit-store-client/internal/client"
	"github.com/boxdancer/fruit-store-client/internal/config"
	"github.com/boxdancer/fruit-store-client/internal/fruit"
	"github.com/boxdancer/fruit-store-client/internal/observability"
	"github.com/boxdancer/fruit-store-client/internal/shell"
	"github.com/boxdancer/fruit-store-client/internal/store"
)

type app struct {
	cfg     config.Config
	logger  *zap.SugaredLogger
	metrics observability.Metrics
	reg     *store.Registry
	closers []func() error
}

func (a *app) setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return ctx, err
	}
	a.cfg = cfg

	if a.logger, err = newLogger(cfg.LogLevel); err != nil {
		return ctx, err
	}

	a.metrics = observability.NewNoopMetrics()
	if cfg.MetricsAddr != "" {
		a.metrics = observability.NewPrometheusMetrics(prometheus.DefaultRegisterer)
		a.serveMetrics(cfg.MetricsAddr)
	}

	a.reg = store.Connect(ctx, a.locate,
		store.WithLogger(a.logger),
		store.WithMetrics(a.metrics),
		store.WithOutput(os.Stdout),
	)
	return ctx, nil
}

// loadConfig applies explicitly set global flags over config.Load.
func loadConfig(cmd *cli.Command) (config.Config, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return cfg, err
	}
	overrides := map[string]*string{
		"engine-addr":  &cfg.EngineAddr,
		"engine-name":  &cfg.EngineName,
		"redis-addr":   &cfg.RedisAddr,
		"metrics-addr": &cfg.MetricsAddr,
		"log-level":    &cfg.LogLevel,
	}
	for flag, dst := range overrides {
		if cmd.IsSet(flag) {
			*dst = cmd.String(flag)
		}
	}
	return cfg, nil
}

func newLogger(level string) (*zap.SugaredLogger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zcfg := zap.NewProductionConfig()
	if lvl.Level() == zap.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = lvl
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}

// locate builds the engine stack: remote lookup, metrics, then the cost cache
// (Redis when configured, in-process otherwise).
func (a *app) locate(ctx context.Context) (fruit.Engine, error) {
	ge, err := client.Lookup(ctx, client.Options{
		Addr:          a.cfg.EngineAddr,
		Name:          a.cfg.EngineName,
		LookupTimeout: a.cfg.LookupTimeout,
		CallTimeout:   a.cfg.CallTimeout,
	})
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, ge.Close)
	a.logger.Infow("compute engine found", "addr", a.cfg.EngineAddr, "name", a.cfg.EngineName)

	var costs cache.Cache = cache.NewMemoryCache(a.cfg.CacheTTL)
	if a.cfg.RedisAddr != "" {
		rc := cache.NewRedisCache(ctx, a.cfg.RedisAddr, a.cfg.CacheTTL, a.logger)
		a.closers = append(a.closers, rc.Close)
		costs = rc
	}
	engine := client.NewInstrumentedEngine(ge, a.metrics)
	return client.NewCachedEngine(engine, costs, a.metrics, a.logger), nil
}

func (a *app) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "pong")
	})
	mux.Handle("/metrics", observability.Handler(prometheus.DefaultGatherer))

	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		a.logger.Infow("metrics server is running", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Errorw("metrics server failed", "addr", addr, "error", err)
		}
	}()
	a.closers = append(a.closers, srv.Close)
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
	a.closers = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) runShell(ctx context.Context, _ *cli.Command) error {
	fmt.Println("Fruit store console. Type help for the command list.")
	err := shell.New(a.reg, os.Stdout, a.logger).Run(ctx, os.Stdin)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func args(cmd *cli.Command, n int) ([]string, error) {
	if cmd.NArg() < n {
		return nil, fmt.Errorf("%s: expected %s", cmd.Name, cmd.ArgsUsage)
	}
	return cmd.Args().Slice(), nil
}

func (a *app) addPrice(ctx context.Context, cmd *cli.Command) error {
	p, err := priceArg(cmd)
	if err != nil {
		return err
	}
	return a.reg.AddFruitPrice(ctx, p)
}

func (a *app) updatePrice(ctx context.Context, cmd *cli.Command) error {
	p, err := priceArg(cmd)
	if err != nil {
		return err
	}
	return a.reg.UpdateFruitPrice(ctx, p)
}

func priceArg(cmd *cli.Command) (fruit.Price, error) {
	as, err := args(cmd, 2)
	if err != nil {
		return fruit.Price{}, err
	}
	price, err := decimal.NewFromString(as[1])
	if err != nil {
		return fruit.Price{}, fmt.Errorf("price %q: %w", as[1], err)
	}
	return fruit.Price{Name: as[0], Price: price}, nil
}

func (a *app) deletePrice(ctx context.Context, cmd *cli.Command) error {
	as, err := args(cmd, 1)
	if err != nil {
		return err
	}
	return a.reg.DeleteFruitPrice(ctx, as[0])
}

func (a *app) cost(ctx context.Context, cmd *cli.Command) error {
	as, err := args(cmd, 2)
	if err != nil {
		return err
	}
	qty, err := strconv.Atoi(as[1])
	if err != nil {
		return fmt.Errorf("quantity %q: %w", as[1], err)
	}
	_, err = a.reg.CalculateFruitCost(ctx, as[0], qty)
	return err
}

func (a *app) prices(ctx context.Context, cmd *cli.Command) error {
	names, err := args(cmd, 1)
	if err != nil {
		return err
	}
	got, err := a.reg.FruitPrices(ctx, names)
	for _, name := range names {
		if p, ok := got[name]; ok {
			fmt.Printf("%s: $%s\n", name, p.StringFixed(2))
		}
	}
	return err
}

func (a *app) checkout(ctx context.Context, cmd *cli.Command) error {
	paid, err := decimal.NewFromString(cmd.String("paid"))
	if err != nil {
		return fmt.Errorf("paid %q: %w", cmd.String("paid"), err)
	}
	as, err := args(cmd, 1)
	if err != nil {
		return err
	}
	items, err := parseItems(as)
	if err != nil {
		return err
	}
	for _, it := range items {
		if _, err := a.reg.CalculateFruitCost(ctx, it.name, it.quantity); err != nil && !errors.Is(err, fruit.ErrNotPriced) {
			return err
		}
	}
	_, err = a.reg.PrintReceipt(cmd.String("cashier"), paid)
	return err
}

type item struct {
	name     string
	quantity int
}

// parseItems reads <fruit>=<quantity> arguments. Quantity is checked by the registry.
func parseItems(as []string) ([]item, error) {
	items := make([]item, 0, len(as))
	for _, it := range as {
		name, qtyStr, ok := strings.Cut(it, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("item %q: expected <fruit>=<quantity>", it)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil {
			return nil, fmt.Errorf("item %q: %w", it, err)
		}
		items = append(items, item{name: name, quantity: qty})
	}
	return items, nil
}
