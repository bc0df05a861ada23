package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-kiwimark"
	"github.com/alnah/go-kiwimark/internal/assets"
	"github.com/alnah/go-kiwimark/internal/hints"
	"github.com/alnah/go-kiwimark/internal/server"
)

// ErrListen indicates the server could not bind its address.
var ErrListen = errors.New("failed to listen")

// Server timeouts.
const (
	readHeaderTimeout = 10 * time.Second
	readTimeout       = 30 * time.Second
	writeTimeout      = 30 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// runServeCmd parses flags and runs the serve command until interrupted.
func runServeCmd(args []string, env *Environment) int {
	flags, err := parseServeFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		return ExitUsage
	}

	warnUnknownEnvVars(env.Stderr)

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if err := runServe(ctx, flags, env); err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// runServe resolves configuration, binds the listener and serves until ctx
// is canceled.
func runServe(ctx context.Context, flags *serveFlags, env *Environment) error {
	cfg, err := loadConfig(flags.common.config, loadEnvConfig())
	if err != nil {
		return err
	}
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}
	env.Config = cfg

	mode, err := kiwimark.ParseOrgMode(cfg.Markup.OrgMode)
	if err != nil {
		return fmt.Errorf("%w%s", err, hints.ForOrgMode())
	}

	styles, err := assets.NewStyleResolver(cfg.Page.StyleDir)
	if err != nil {
		return fmt.Errorf("page.styleDir: %w", err)
	}
	defer func() { _ = styles.Close() }()

	logger := newLogger(env.Stdout, flags.common.quiet, flags.common.verbose)
	srv := server.New(logger, server.Options{
		OrgMode:      mode,
		EscapeHTML:   !cfg.Markup.RawHTML,
		Normalize:    !cfg.Markup.SkipNormalize,
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Version:      Version,
		Styles:       styles,
	})

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrListen, err, hints.ForAddrInUse())
	}

	return serve(ctx, ln, srv, logger)
}

// newLogger builds the JSON request logger. Quiet keeps errors only and
// verbose enables debug output.
func newLogger(w io.Writer, quiet, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// serve runs h on ln and shuts down gracefully when ctx is canceled.
func serve(ctx context.Context, ln net.Listener, h http.Handler, log *slog.Logger) error {
	httpServer := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(ln)
	}()

	log.Info("starting kiwimark", "addr", ln.Addr().String(), "version", Version)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
