package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/company_registry/internal/config"
	"github.com/locvowork/company_registry/internal/domain"
	"github.com/locvowork/company_registry/internal/handler"
	"github.com/locvowork/company_registry/internal/logger"
	"github.com/locvowork/company_registry/internal/service"
)

type App struct {
	Echo        *echo.Echo
	Company     *service.Company
	Snapshotter domain.Snapshotter
	Config      *config.EnvConfig

	closeSnapshotter func() error
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	return &App{
		Echo:    e,
		Company: service.NewCompany(),
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	a.Config = config.DefaultEnvConfig

	logger.InitLogging(a.Config.LOG_FILE_PATH, a.Config.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	snapshotter, closer, err := NewSnapshotter(ctx, a.Config)
	if err != nil {
		return fmt.Errorf("failed to initialize snapshot backend %s: %w", a.Config.SNAPSHOT_BACKEND, err)
	}
	a.Snapshotter = snapshotter
	a.closeSnapshotter = closer
	logger.InfoLog(ctx, "Snapshot backend %s ready", a.Config.SNAPSHOT_BACKEND)

	if a.Config.RESTORE_ON_START {
		if err := a.restore(ctx); err != nil {
			return err
		}
	}

	empHandler := handler.NewEmployeeHandler(a.Company, a.Snapshotter)

	a.RegisterMiddlewares()
	a.RegisterRoutes(empHandler)

	return nil
}

// restore loads the startup snapshot. A missing snapshot file is not fatal.
func (a *App) restore(ctx context.Context) error {
	n, err := a.Company.Restore(ctx, a.Snapshotter)
	if errors.Is(err, fs.ErrNotExist) {
		logger.WarnLog(ctx, "No snapshot found at %s, starting empty", a.Config.SNAPSHOT_PATH)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to restore snapshot: %w", err)
	}
	logger.InfoLog(ctx, "Restored %d employees on startup", n)
	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.Logger())
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.CORS())
}

func (a *App) RegisterRoutes(empHandler *handler.EmployeeHandler) {
	a.Echo.POST("/employees", empHandler.CreateHandler)
	a.Echo.GET("/employees", empHandler.ListHandler)
	a.Echo.GET("/employees/:id", empHandler.GetHandler)
	a.Echo.DELETE("/employees/:id", empHandler.DeleteHandler)

	a.Echo.GET("/departments", empHandler.DepartmentsHandler)
	a.Echo.GET("/departments/:name/budget", empHandler.BudgetHandler)
	a.Echo.GET("/managers/top", empHandler.TopManagersHandler)

	snapshotGroup := a.Echo.Group("/snapshot")
	snapshotGroup.POST("/save", empHandler.SaveHandler)
	snapshotGroup.POST("/restore", empHandler.RestoreHandler)

	exportGroup := a.Echo.Group("/export")
	exportGroup.GET("/xlsx", empHandler.ExportXLSXHandler)
}

func (a *App) Run() error {
	return a.Echo.Start(":" + a.Config.APP_PORT)
}

// Shutdown stops the server and releases the snapshot backend.
func (a *App) Shutdown(ctx context.Context) error {
	defer a.Close()
	return a.Echo.Shutdown(ctx)
}

func (a *App) Close() error {
	if a.closeSnapshotter == nil {
		return nil
	}
	closer := a.closeSnapshotter
	a.closeSnapshotter = nil
	return closer()
}
