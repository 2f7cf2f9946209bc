package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"vault-sync/core/loader"
	"vault-sync/core/logger"
	"vault-sync/core/middleware/auth"
	"vault-sync/core/middleware/rayid"
	"vault-sync/feature/integrity"
	"vault-sync/feature/realms"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "vault-sync/docs/swagger"
)

// @title Vault Sync API
// @version 1.0
// @description API for planning and triggering realm synchronization.
// @host localhost:8080
// @BasePath /

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the sync HTTP server",
	Long: `Starts the HTTP server exposing realm plans and sync triggers.

Passes triggered over HTTP never prompt; undecided items follow the default
directions and the auto_*_locally settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Configuration, logger and vault
		a, err := loadApp(ctx)
		if err != nil {
			return err
		}
		defer a.close()
		logg := a.logger
		cfg := a.cfg

		list, err := cfg.Realms()
		if err != nil {
			return err
		}

		if !cfg.Server.Secured() {
			logg.Warn("No API key configured, the API is unprotected")
		}

		// 2. Initialize Fiber App
		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// 3. Feature Loader
		service := realms.NewService(list, a.vault, afero.NewOsFs(), logg, realms.Options{
			Sync:      cfg.Sync.Options(false),
			Timeout:   cfg.Server.SyncTimeout(),
			AfterSync: a.touchStamp,
		})
		mgr := loader.NewManager()
		mgr.Register(realms.NewFeature(service))
		mgr.Register(integrity.NewFeature(integrity.NewService(list, a.vault, logg)))

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Swagger Documentation (Public)
		app.Get("/swagger/*", swagger.HandlerDefault)

		// 4. Auth
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 5. Load Features
		if err := mgr.LoadAll(app); err != nil {
			return err
		}

		// 6. Start Server
		errCh := make(chan error, 1)
		go func() {
			logg.Info("Starting server",
				zap.String("addr", cfg.Server.Addr()),
				zap.Int("realms", len(list)),
				zap.String("backend", cfg.Vault.Backend),
			)
			errCh <- app.Listen(cfg.Server.Addr())
		}()

		// 7. Graceful Shutdown
		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
