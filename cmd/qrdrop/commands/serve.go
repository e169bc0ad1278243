package commands

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"qrdrop/internal/config"
	"qrdrop/internal/logger"
	"qrdrop/internal/netutil"
	"qrdrop/internal/session"
	"qrdrop/internal/token"
)

// shutdownTimeout bounds how long in-flight transfers may take to drain
// once shutdown is triggered.
const shutdownTimeout = 30 * time.Second

// registerServeFlags adds the flags shared by receive and share.
func registerServeFlags(cmd *cobra.Command) {
	cmd.Flags().String("host", "", "bind address (default 0.0.0.0)")
	cmd.Flags().Int("port", 0, "bind port (0 picks a free port)")
	cmd.Flags().Duration("ttl", 0, "access link lifetime (default 15m)")
	cmd.Flags().Bool("exit-on-complete", false, "exit after the first successful transfer")
}

// loadServeConfig loads configuration and overlays any flags the user set
// explicitly, keeping the flags > env > file > defaults precedence.
func loadServeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Host, _ = flags.GetString("host")
	}
	if flags.Changed("port") {
		cfg.Port, _ = flags.GetInt("port")
	}
	if flags.Changed("ttl") {
		cfg.TTL, _ = flags.GetDuration("ttl")
	}
	if flags.Changed("exit-on-complete") {
		cfg.ExitOnComplete, _ = flags.GetBool("exit-on-complete")
	}
	if flags.Changed("upload-dir") {
		cfg.UploadDir, _ = flags.GetString("upload-dir")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging); err != nil {
		return nil, err
	}
	return cfg, nil
}

// serve runs the HTTP server until interrupted or, with exit-on-complete,
// until the first finished transfer. buildHandler receives the session and
// returns the mode's handler plus the entry path for the QR code.
func serve(cfg *config.Config, buildHandler func(*session.Session) (http.Handler, string)) error {
	tok, err := token.New(cfg.TTL)
	if err != nil {
		return err
	}

	// Ctrl-C and completion feed the same cancellation.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sess := session.New(tok, cfg.ExitOnComplete, cancel)
	handler, entryPath := buildHandler(sess)

	ln, err := net.Listen("tcp", net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)))
	if err != nil {
		return fmt.Errorf("binding %s:%d: %w", cfg.Host, cfg.Port, err)
	}
	port := ln.Addr().(*net.TCPAddr).Port

	localIP, err := netutil.LocalIP()
	if err != nil {
		logger.Warn("could not determine LAN address, falling back to loopback", "error", err)
		localIP = "127.0.0.1"
	}
	entryURL := fmt.Sprintf("http://%s:%d%s", localIP, port, entryPath)

	printBanner(entryURL, tok.ExpiresAt(), cfg.ExitOnComplete)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	logger.Info("server started", "addr", ln.Addr().String(), "expires_at", tok.ExpiresAt().UTC().Format(time.RFC3339))

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	if sess.Completed() {
		logger.Info("transfer completed, shutting down")
	} else {
		logger.Info("shutting down")
	}

	// Let the response that triggered shutdown finish writing.
	drainCtx, drainCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer drainCancel()
	if err := srv.Shutdown(drainCtx); err != nil {
		return fmt.Errorf("draining connections: %w", err)
	}
	return nil
}
