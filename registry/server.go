package registry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/sync/errgroup"
)

// Server modes.
const (
	ModeStdio = "stdio"
	ModeHTTP  = "http"
	ModeSSE   = "sse"
)

// ServeStdio runs the registry as an MCP server over stdio.
// Blocks until stdin is closed or context is cancelled.
func ServeStdio(ctx context.Context, r *Registry) error {
	return NewServer(r).Run(ctx, &mcp.StdioTransport{})
}

// ServeHTTP returns an http.Handler for the streamable HTTP transport.
func ServeHTTP(r *Registry) http.Handler {
	server := NewServer(r)
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// ServeSSE returns an http.Handler for the Server-Sent Events transport.
func ServeSSE(r *Registry) http.Handler {
	server := NewServer(r)
	return mcp.NewSSEHandler(func(*http.Request) *mcp.Server { return server }, nil)
}

// Serve runs the registry in the given mode, listening on host:port for
// the HTTP modes. It returns when ctx ends or the server fails.
func Serve(ctx context.Context, r *Registry, mode, host string, port int) error {
	var handler http.Handler
	switch mode {
	case "", ModeStdio:
		return ServeStdio(ctx, r)
	case ModeHTTP, "streamable-http":
		handler = ServeHTTP(r)
	case ModeSSE:
		handler = ServeSSE(r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(host, strconv.Itoa(port)),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.logger.Info("registry: listening", "mode", mode, "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
