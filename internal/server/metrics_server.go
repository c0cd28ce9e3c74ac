package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// MetricsServer exposes Prometheus metrics on a listener separate from the dashboard.
type MetricsServer struct {
	echo *echo.Echo
	addr string
	log  zerolog.Logger
}

func NewMetricsServer(addr string, metrics http.Handler, log zerolog.Logger) *MetricsServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(Recover(log))
	e.GET("/metrics", echo.WrapHandler(metrics))
	return &MetricsServer{echo: e, addr: addr, log: log}
}

// Run serves until ctx is cancelled.
func (m *MetricsServer) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		m.log.Info().Str("addr", m.addr).Msg("metrics listener started")
		if err := m.echo.Start(m.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("metrics server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return m.echo.Shutdown(shutdownCtx)
}

// Echo returns the underlying Echo instance.
func (m *MetricsServer) Echo() *echo.Echo {
	return m.echo
}
