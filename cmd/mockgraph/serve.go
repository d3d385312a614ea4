package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hanpama/mockgraph/internal/eventbus"
	"github.com/hanpama/mockgraph/internal/logging"
	"github.com/hanpama/mockgraph/internal/otel"
	"github.com/hanpama/mockgraph/internal/server"
)

const shutdownTimeout = 5 * time.Second

type serveFlags struct {
	mockFlags
	addr         string
	pretty       bool
	timeout      time.Duration
	maxBodyBytes int64
	cors         []string
	headers      []string
	graphiql     bool
	otelEndpoint string
	otelService  string
	logLevel     string
	logFormat    string

	// ready receives the bound address once the listener is open.
	ready chan<- string
}

func newServeCmd() *cobra.Command {
	f := &serveFlags{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a mocked GraphQL endpoint over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cmd, f)
		},
	}
	f.register(cmd)
	fs := cmd.Flags()
	fs.StringVar(&f.addr, "addr", ":4000", "HTTP listen address")
	fs.BoolVar(&f.pretty, "pretty", false, "pretty-print JSON responses")
	fs.DurationVar(&f.timeout, "timeout", 10*time.Second, "per-request timeout")
	fs.Int64Var(&f.maxBodyBytes, "max-body-bytes", 1<<20, "request body limit in bytes, 0 for none")
	fs.StringArrayVar(&f.cors, "cors", nil, "allowed CORS origin, repeatable; * allows any")
	fs.StringArrayVar(&f.headers, "header", nil, "HTTP header exposed to rule expressions, repeatable")
	fs.BoolVar(&f.graphiql, "graphiql", true, "serve GraphiQL to browsers")
	fs.StringVar(&f.otelEndpoint, "otel-endpoint", "", "OTLP gRPC collector endpoint")
	fs.StringVar(&f.otelService, "otel-service", "mockgraph", "OpenTelemetry service name")
	fs.StringVar(&f.logLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&f.logFormat, "log-format", "text", "log format: text or json")
	return cmd
}

func (f *serveFlags) handlerOptions() []server.Option {
	opts := []server.Option{
		server.WithTimeout(f.timeout),
		server.WithMaxBodyBytes(f.maxBodyBytes),
		server.WithGraphiQL(f.graphiql),
	}
	if f.pretty {
		opts = append(opts, server.WithPretty())
	}
	if len(f.cors) > 0 {
		opts = append(opts, server.WithCORS(f.cors...))
	}
	if len(f.headers) > 0 {
		opts = append(opts, server.WithMetadataHeaders(f.headers...))
	}
	return opts
}

func runServe(ctx context.Context, cmd *cobra.Command, f *serveFlags) error {
	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(f.logLevel),
		Format: logging.ParseFormat(f.logFormat),
		Output: cmd.ErrOrStderr(),
	})

	eventbus.Use(eventbus.New())
	defer eventbus.Use(nil)
	defer logging.Subscribe(logger)()

	shutdownTracing, err := otel.Setup(f.otelEndpoint, f.otelService)
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	ms, err := f.build(cmd)
	if err != nil {
		return err
	}
	h, err := server.New(ms, f.handlerOptions()...)
	if err != nil {
		return fmt.Errorf("server init: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/graphql", h)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	ln, err := net.Listen("tcp", f.addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	logger.Info("mock GraphQL server listening",
		slog.String("addr", ln.Addr().String()),
		slog.String("schema", f.schemaPath),
		slog.String("mocks", f.mocksPath),
	)
	if f.ready != nil {
		f.ready <- ln.Addr().String()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
