package commands

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dori/projectflow/internal/app"
	"github.com/dori/projectflow/internal/logging"
	"github.com/dori/projectflow/internal/web"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API over HTTP",
	Long: `Serve the projects, tasks and assistant as a JSON API under /api.

The server shares the session with the terminal board: signing in over
HTTP signs in the board and the other way round. It stops gracefully on
SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default from web.addr)")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	p := newPrinter(cmd)
	a, err := openApp(p, app.Options{})
	if err != nil {
		return err
	}
	defer a.Close()

	addr := a.Config.Web.Addr
	if serveAddr != "" {
		addr = serveAddr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return p.Error("Failed to listen on "+addr, err.Error(),
			"Pick another address with --addr")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a.State.Load(ctx)
	gin.SetMode(gin.ReleaseMode)
	handler := web.NewServer(a.State, a.Assistant, a.Log).Handler()

	p.Step("Serving on http://%s/api (ctrl+c to stop)", ln.Addr())
	if err := serve(ctx, ln, handler, a.Config.Web.ShutdownTimeoutDuration(), a.Log); err != nil {
		return p.Error("Server stopped", err.Error())
	}
	p.Success("Server stopped")
	return nil
}

// serve runs handler on ln until ctx is cancelled, then drains in-flight
// requests for at most timeout
func serve(ctx context.Context, ln net.Listener, handler http.Handler, timeout time.Duration, log *logging.Logger) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("web server listening", "addr", ln.Addr().String())
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Info("web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
