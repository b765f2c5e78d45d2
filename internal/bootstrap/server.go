package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ecarponi/obsbook/api"
	"github.com/ecarponi/obsbook/config"
	"github.com/ecarponi/obsbook/internal/repository"
	"github.com/ecarponi/obsbook/internal/service/booking"
	"github.com/ecarponi/obsbook/internal/service/scheduler"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	bookingSvc booking.BookingUseCase,
	schedulerSvc scheduler.SchedulerUseCase,
	slots repository.SlotRepository,
	configs repository.ConfigurationRepository,
) error {
	router := gin.Default()

	apiGroup := router.Group("/api")
	api.NewSlotHandler(schedulerSvc, slots).Register(apiGroup.Group("/slots"))
	api.NewBookingHandler(bookingSvc).Register(apiGroup.Group("/bookings"))
	api.NewConfigHandler(schedulerSvc, configs).Register(apiGroup.Group("/config"))
	api.NewUserHandler(schedulerSvc).Register(apiGroup.Group("/users"))

	httpSrv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpSrv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
