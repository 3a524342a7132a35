// catalog-service/cmd/catalogctl/main.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	grpcClient "catalog-service/internal/grpc"
)

var errNotFound = errors.New("content not found")

// catalogClient is the subset of grpc.Client the commands use.
type catalogClient interface {
	GetContentInfo(ctx context.Context, id int64) (grpcClient.ContentInfo, bool, error)
	CheckContentExists(ctx context.Context, id int64) (bool, error)
	Close() error
}

type dialFunc func(addr string) (catalogClient, error)

type infoOutput struct {
	ID          int64    `json:"id"`
	Title       string   `json:"title"`
	ContentType string   `json:"contentType"`
	Genre       string   `json:"genre"`
	ReleaseYear int      `json:"releaseYear"`
	Rating      *float64 `json:"rating,omitempty"`
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	dial := func(addr string) (catalogClient, error) {
		return grpcClient.NewClient(addr, logger)
	}

	if err := newRootCmd(dial).Execute(); err != nil {
		if errors.Is(err, errNotFound) {
			os.Exit(3)
		}
		os.Exit(1)
	}
}

func newRootCmd(dial dialFunc) *cobra.Command {
	var (
		addr    string
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:          "catalogctl",
		Short:        "Query a running catalog service over gRPC",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&addr, "addr", envOr("CATALOG_SERVICE_GRPC_ADDR", "localhost:9092"), "catalog gRPC address")
	root.PersistentFlags().DurationVar(&timeout, "timeout", 5*time.Second, "request timeout")

	// withClient parses the id argument and runs fn against a fresh connection.
	withClient := func(cmd *cobra.Command, args []string, fn func(ctx context.Context, client catalogClient, id int64) error) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid id %q: must be a positive integer", args[0])
		}
		client, err := dial(addr)
		if err != nil {
			return err
		}
		defer client.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		return fn(ctx, client, id)
	}

	infoCmd := &cobra.Command{
		Use:   "info <id>",
		Short: "Print a content summary as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, args, func(ctx context.Context, client catalogClient, id int64) error {
				info, found, err := client.GetContentInfo(ctx, id)
				if err != nil {
					return err
				}
				if !found {
					return fmt.Errorf("%w with id: %d", errNotFound, id)
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infoOutput(info))
			})
		},
	}

	existsCmd := &cobra.Command{
		Use:   "exists <id>",
		Short: "Print whether a content record exists",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, args, func(ctx context.Context, client catalogClient, id int64) error {
				exists, err := client.CheckContentExists(ctx, id)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), exists)
				return err
			})
		},
	}

	root.AddCommand(infoCmd, existsCmd)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
