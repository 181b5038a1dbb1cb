package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"storefront/internal/apiclient"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("api", os.Getenv("API_BASE_URL"), "base URL of the storefront API")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline")
	flag.Parse()

	if *baseURL == "" {
		log.Fatal("API_BASE_URL not set and -api not given")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, apiclient.New(*baseURL), os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(ctx context.Context, api *apiclient.Client, out io.Writer) error {
	msg, err := api.InitializeDB(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if msg.Message == "" {
		msg.Message = "catalog seeded"
	}
	_, err = fmt.Fprintln(out, msg.Message)
	return err
}
