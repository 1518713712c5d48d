// Package shell implements the cashier console: one command per line,
// dispatched to a store.Registry.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/boxdancer/fruit-store-client/internal/fruit"
	"github.com/boxdancer/fruit-store-client/internal/store"
)

const prompt = "> "

var errQuit = errors.New("quit")

type command struct {
	usage string
	args  int // minimum argument count
	run   func(ctx context.Context, s *Shell, args []string) error
}

// Shell reads commands from in and writes results to out.
type Shell struct {
	reg    *store.Registry
	out    io.Writer
	logger *zap.SugaredLogger
	cmds   map[string]command
}

// New builds a shell over reg. reg should print to the same out.
func New(reg *store.Registry, out io.Writer, logger *zap.SugaredLogger) *Shell {
	s := &Shell{reg: reg, out: out, logger: logger}
	s.cmds = map[string]command{
		"add":     {usage: "add <fruit> <price>", args: 2, run: addPrice},
		"update":  {usage: "update <fruit> <price>", args: 2, run: updatePrice},
		"delete":  {usage: "delete <fruit>", args: 1, run: deletePrice},
		"buy":     {usage: "buy <fruit> <quantity>", args: 2, run: buy},
		"cart":    {usage: "cart", run: viewCart},
		"clear":   {usage: "clear", run: clearCart},
		"prices":  {usage: "prices <fruit>...", args: 1, run: prices},
		"receipt": {usage: "receipt <cashier> <amount>", args: 2, run: receipt},
		"help":    {usage: "help", run: help},
		"quit":    {usage: "quit", run: func(context.Context, *Shell, []string) error { return errQuit }},
	}
	return s
}

// Run processes lines until EOF, "quit" or ctx cancellation.
// On cancellation Run returns ctx.Err() at once; the reader goroutine stays
// blocked on in until its next Read returns.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	fmt.Fprint(s.out, prompt)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-readErr:
					return err
				default:
					return ctx.Err()
				}
			}
			if err := s.Exec(ctx, line); errors.Is(err, errQuit) {
				return nil
			}
			fmt.Fprint(s.out, prompt)
		}
	}
}

// Exec runs a single command line. Command failures are printed, not returned;
// only quit is reported to the caller.
func (s *Shell) Exec(ctx context.Context, line string) error {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]
	cmd, ok := s.cmds[name]
	if !ok {
		fmt.Fprintf(s.out, "Unknown command %q. Type help for the command list.\n", name)
		return nil
	}
	if len(args) < cmd.args {
		fmt.Fprintf(s.out, "Usage: %s\n", cmd.usage)
		return nil
	}

	err := cmd.run(ctx, s, args)
	switch {
	case err == nil, errors.Is(err, errQuit):
		return err
	case errors.Is(err, fruit.ErrNotPriced), errors.Is(err, fruit.ErrCartEmpty):
		// registry already told the user
	case errors.Is(err, errUsage):
		fmt.Fprintf(s.out, "Usage: %s\n", cmd.usage)
	default:
		fmt.Fprintf(s.out, "Error: %v\n", err)
	}
	s.logger.Debugw("command finished", "command", name, "error", err)
	return nil
}

var errUsage = errors.New("usage")

func parseMoney(v string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimPrefix(v, "$"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: bad amount %q", errUsage, v)
	}
	return d, nil
}

func addPrice(ctx context.Context, s *Shell, args []string) error {
	p, err := parseMoney(args[1])
	if err != nil {
		return err
	}
	return s.reg.AddFruitPrice(ctx, fruit.Price{Name: args[0], Price: p})
}

func updatePrice(ctx context.Context, s *Shell, args []string) error {
	p, err := parseMoney(args[1])
	if err != nil {
		return err
	}
	return s.reg.UpdateFruitPrice(ctx, fruit.Price{Name: args[0], Price: p})
}

func deletePrice(ctx context.Context, s *Shell, args []string) error {
	return s.reg.DeleteFruitPrice(ctx, args[0])
}

func buy(ctx context.Context, s *Shell, args []string) error {
	qty, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: bad quantity %q", errUsage, args[1])
	}
	_, err = s.reg.CalculateFruitCost(ctx, args[0], qty)
	return err
}

func viewCart(_ context.Context, s *Shell, _ []string) error {
	s.reg.ViewCart()
	return nil
}

func clearCart(_ context.Context, s *Shell, _ []string) error {
	s.reg.ClearCart()
	return nil
}

func prices(ctx context.Context, s *Shell, args []string) error {
	got, err := s.reg.FruitPrices(ctx, args)
	for _, name := range args {
		if p, ok := got[name]; ok {
			fmt.Fprintf(s.out, "%s: $%s\n", name, p.StringFixed(2))
		} else if err == nil {
			fmt.Fprintf(s.out, "%s: not priced\n", name)
		}
	}
	return err
}

func receipt(_ context.Context, s *Shell, args []string) error {
	// the cashier name may span several words; the amount is always last
	given, err := parseMoney(args[len(args)-1])
	if err != nil {
		return err
	}
	cashier := strings.Join(args[:len(args)-1], " ")
	_, err = s.reg.PrintReceipt(cashier, given)
	return err
}

func help(_ context.Context, s *Shell, _ []string) error {
	names := make([]string, 0, len(s.cmds))
	for name := range s.cmds {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(s.out, "Commands:")
	for _, name := range names {
		fmt.Fprintf(s.out, "  %s\n", s.cmds[name].usage)
	}
	return nil
}
