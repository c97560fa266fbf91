// Command storefront is a small interactive smoke tool for the sync client.
// It wires the full client against a running backend and exercises the main
// flows from the terminal: browse the listing, mutate the cart, check out.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/0097eo/ideal-furniture/internal/app"
	"github.com/0097eo/ideal-furniture/internal/checkout"
	"github.com/0097eo/ideal-furniture/internal/config"
	"github.com/0097eo/ideal-furniture/internal/identity"
	"github.com/0097eo/ideal-furniture/pkg/logger"
	"github.com/0097eo/ideal-furniture/pkg/pagination"
	"github.com/0097eo/ideal-furniture/pkg/tracing"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize structured logger.
	log := logger.New("storefront", cfg.LogLevel)
	log.Info("starting storefront client",
		slog.String("environment", cfg.Environment),
		slog.String("api_base_url", cfg.APIBaseURL),
	)

	// Create a context that is canceled on SIGINT or SIGTERM.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName:  "storefront",
		Environment:  cfg.Environment,
		OTLPEndpoint: cfg.OTLPEndpoint,
		SampleRate:   cfg.TraceSampleRate,
		Enabled:      cfg.TracingEnabled,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer shutdownTracing(context.Background()) //nolint:errcheck

	provider := identity.NewMemoryProvider()
	if token := os.Getenv("STOREFRONT_TOKEN"); token != "" {
		provider.SignIn(identity.User{Username: "cli"}, token)
	}

	client := app.New(ctx, cfg, provider, log)
	defer client.Close()

	client.Navigate("")
	client.Cart.Load(ctx)

	return repl(ctx, client, log)
}

func repl(ctx context.Context, client *app.App, log *slog.Logger) error {
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Println("commands: browse <query> | list | cart | add <product> <n> | qty <item> <n> | rm <item> | checkout | orders | url | quit")

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "browse":
			raw := ""
			if len(fields) > 1 {
				raw = fields[1]
			}
			client.Navigate(raw)
			fmt.Println("url:", client.CurrentURLQuery())

		case "list":
			snap := client.Feed.Snapshot()
			if snap.Loading {
				fmt.Println("loading...")
			}
			if snap.Err != nil {
				fmt.Println("listing error:", snap.Err)
			}
			for _, p := range snap.Page.Products {
				fmt.Printf("  %s  %s  %.2f\n", p.ID, p.Name, p.Price)
			}
			nav := pagination.Build(snap.Query.Page, snap.Page.Pages, 5)
			fmt.Printf("  page %d of %d  %v  next=%t prev=%t\n",
				nav.Current, nav.Total, nav.Window, nav.HasNext, nav.HasPrev)

		case "cart":
			snap := client.Cart.Snapshot()
			if snap.Err != nil {
				fmt.Println("cart error:", snap.Err)
			}
			for _, item := range snap.Cart.Items {
				fmt.Printf("  %s  %s x%d  %.2f\n", item.ID, item.ProductName, item.Quantity, item.Price)
			}
			fmt.Printf("  subtotal %.2f (%d items)\n", snap.Cart.Subtotal(), snap.Cart.ItemCount())

		case "add":
			if len(fields) != 3 {
				fmt.Println("usage: add <product> <n>")
				continue
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("quantity must be a number")
				continue
			}
			client.Cart.AddItem(ctx, fields[1], n)

		case "qty":
			if len(fields) != 3 {
				fmt.Println("usage: qty <item> <n>")
				continue
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				fmt.Println("quantity must be a number")
				continue
			}
			client.Cart.SetQuantity(ctx, fields[1], n)

		case "rm":
			if len(fields) != 2 {
				fmt.Println("usage: rm <item>")
				continue
			}
			client.Cart.RemoveItem(ctx, fields[1])

		case "checkout":
			client.Checkout.Submit(ctx)

		case "orders":
			client.Orders.Load(ctx)
			snap := client.Orders.Snapshot()
			if snap.Err != nil {
				fmt.Println("orders error:", snap.Err)
			}
			for _, o := range snap.Orders {
				fmt.Printf("  order %s  %.2f  %s\n", o.OrderID, o.TotalAmount, o.Status)
			}

		case "url":
			fmt.Println(client.CurrentURLQuery())

		case "quit", "exit":
			return nil

		default:
			fmt.Println("unknown command:", fields[0])
		}

		if snap := client.Checkout.Snapshot(); snap.Status == checkout.StatusSucceeded && snap.Result != nil {
			fmt.Printf("order placed: %s total %.2f\n", snap.Result.OrderID, snap.Result.TotalAmount)
		} else if msg := client.Checkout.FailureMessage(); msg != "" {
			fmt.Println("checkout failed:", msg)
		}

		select {
		case <-ctx.Done():
			log.Info("storefront client stopped")
			return nil
		default:
		}
	}
}
