package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	defer a.close()

	if err := a.command().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "fruitstore:", err)
		a.close()
		os.Exit(1)
	}
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:  "fruitstore",
		Usage: "cashier client for the fruit compute engine",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "TOML config file", Sources: cli.EnvVars("FRUIT_CONFIG")},
			&cli.StringFlag{Name: "engine-addr", Usage: "compute engine address (host:port)"},
			&cli.StringFlag{Name: "engine-name", Usage: "name the engine is registered under"},
			&cli.StringFlag{Name: "redis-addr", Usage: "redis address for the cost cache"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve /metrics and /ping on this address"},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error"},
		},
		Before: a.setup,
		Action: a.runShell,
		Commands: []*cli.Command{
			{
				Name:   "shell",
				Usage:  "interactive cashier console",
				Action: a.runShell,
			},
			{
				Name:      "add",
				Usage:     "add a fruit price",
				ArgsUsage: "<fruit> <price>",
				Action:    a.addPrice,
			},
			{
				Name:      "update",
				Usage:     "update a fruit price",
				ArgsUsage: "<fruit> <price>",
				Action:    a.updatePrice,
			},
			{
				Name:      "delete",
				Usage:     "delete a fruit price",
				ArgsUsage: "<fruit>",
				Action:    a.deletePrice,
			},
			{
				Name:      "cost",
				Usage:     "calculate the cost of a quantity of fruit",
				ArgsUsage: "<fruit> <quantity>",
				Action:    a.cost,
			},
			{
				Name:      "prices",
				Usage:     "show unit prices",
				ArgsUsage: "<fruit>...",
				Action:    a.prices,
			},
			{
				Name:      "checkout",
				Usage:     "price the items and print a receipt",
				ArgsUsage: "<fruit>=<quantity>...",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "cashier", Required: true},
					&cli.StringFlag{Name: "paid", Required: true, Usage: "amount given"},
				},
				Action: a.checkout,
			},
		},
	}
}
