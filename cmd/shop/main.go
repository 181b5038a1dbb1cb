package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"storefront/internal/apiclient"
	"storefront/internal/cart"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/logger"
	"storefront/internal/schema"
	"storefront/internal/session"
)

const usage = `usage: shop <command> [flags]

commands:
  login     -email -password
  signup    -username -email -password
  logout
  whoami
  products  [-search term]
  order     -file order.json
`

var errUsage = errors.New("invalid usage")

// app is everything a command needs; tests build it against httptest.
type app struct {
	api     *apiclient.Client
	persist session.Persister
	out     io.Writer
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	a := &app{
		api: apiclient.New(cfg.APIBaseURL, apiclient.WithRetryPolicy(apiclient.RetryPolicy{
			MaxAttempts: cfg.RetryMaxAttempts,
			Backoff:     apiclient.LinearBackoff(time.Second),
		})),
		persist: session.NewFilePersister(cfg.SessionDir),
		out:     os.Stdout,
	}

	if err := a.run(context.Background(), os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cmd, rest := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	switch cmd {
	case "login":
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		return a.login(ctx, *email, *password)

	case "signup":
		username := fs.String("username", "", "display name")
		email := fs.String("email", "", "account email")
		password := fs.String("password", "", "account password")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		return a.signup(ctx, *username, *email, *password)

	case "logout":
		a.session(ctx).Logout()
		_, err := fmt.Fprintln(a.out, "logged out")
		return err

	case "whoami":
		return a.whoami(ctx)

	case "products":
		search := fs.String("search", "", "filter term")
		if err := fs.Parse(rest); err != nil {
			return errUsage
		}
		return a.products(ctx, *search)

	case "order":
		file := fs.String("file", "", "order file (JSON)")
		if err := fs.Parse(rest); err != nil || *file == "" {
			return errUsage
		}
		return a.order(ctx, *file)
	}
	return errUsage
}

func (a *app) session(ctx context.Context) *session.Store {
	return session.NewStore(ctx, a.api, a.persist)
}

func (a *app) login(ctx context.Context, email, password string) error {
	s := a.session(ctx)
	if err := s.Login(ctx, email, password); err != nil {
		return err
	}
	u, _ := s.User()
	_, err := fmt.Fprintf(a.out, "logged in as %s\n", u.Username)
	return err
}

func (a *app) signup(ctx context.Context, username, email, password string) error {
	s := a.session(ctx)
	if err := s.Signup(ctx, username, email, password); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "welcome %s\n", username)
	return err
}

func (a *app) whoami(ctx context.Context) error {
	u, ok := a.session(ctx).User()
	if !ok {
		_, err := fmt.Fprintln(a.out, "not logged in")
		return err
	}
	role := "customer"
	if u.Admin {
		role = "admin"
	}
	_, err := fmt.Fprintf(a.out, "%s <%s> (%s)\n", u.Username, u.Email, role)
	return err
}

func (a *app) products(ctx context.Context, search string) error {
	products, err := a.api.Products(ctx, search, apiclient.NoCache())
	if err != nil {
		return err
	}
	for _, p := range products {
		stock := "in stock"
		if !p.InStock() {
			stock = "out of stock"
		}
		if _, err := fmt.Fprintf(a.out, "%s\t%s\t%s\t%s\n", p.ID, p.Title, p.FinalPrice().StringFixed(2), stock); err != nil {
			return err
		}
	}
	return nil
}

// orderFile is the input of the order command.
type orderFile struct {
	Shipping schema.Shipping       `json:"shipping"`
	Items    []schema.OrderProduct `json:"items"`
}

func (a *app) order(ctx context.Context, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read order file: %w", err)
	}
	var in orderFile
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("parse order file: %w", err)
	}

	basket, err := a.fillCart(ctx, in.Items)
	if err != nil {
		return err
	}

	s := a.session(ctx)
	res, err := checkout.NewService(a.api, basket).SubmitOrder(ctx, in.Shipping, basket.Snapshot(), s.Token())
	if err != nil {
		return err
	}

	st := res.Order
	_, err = fmt.Fprintf(a.out, "%s: %d product(s), total %s\nship to:\n  %s\n",
		res.Message, len(st.Products), st.Price.StringFixed(2),
		strings.ReplaceAll(st.Address, "\n", "\n  "),
	)
	return err
}

// fillCart looks up every product so the cart carries current prices.
func (a *app) fillCart(ctx context.Context, lines []schema.OrderProduct) (*cart.Store, error) {
	items := make([]cart.Item, 0, len(lines))
	for _, l := range lines {
		p, err := a.api.Product(ctx, l.Product, apiclient.NoCache())
		if err != nil {
			return nil, fmt.Errorf("product %s: %w", l.Product, err)
		}
		items = append(items, cart.Item{Product: p, Quantity: l.Quantity})
	}

	basket := cart.NewStore()
	basket.Restore(items)
	return basket, nil
}
