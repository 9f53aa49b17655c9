package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"

	"github.com/bassista/quillpad/internal/api/middleware"
	route "github.com/bassista/quillpad/internal/api/route"
	appctx "github.com/bassista/quillpad/internal/app"
	"github.com/bassista/quillpad/internal/config"
	"github.com/bassista/quillpad/internal/logger"
	"github.com/bassista/quillpad/internal/prefs"
	"github.com/bassista/quillpad/internal/session"
	"github.com/bassista/quillpad/internal/storage"

	"github.com/enrichman/httpgrace"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.WithComponent("main").Fatalf("configuration error: %v", err)
	}

	logger.SetLevelFromString(cfg.Misc.LogLevel)
	logger.WithComponent("main").Infof("Quillpad backend will run on port: %d", cfg.Server.Port)

	files, err := storage.NewFileStore(cfg.Data.Dir)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init file store: %v", err)
	}

	prefStore, err := prefs.NewFileStore(cfg.Data.PrefsFilePath, cfg.Data.PrefsDebounce)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init preference store: %v", err)
	}

	coordinator := session.NewCoordinator(files, prefStore, clockwork.NewRealClock(), cfg.Data.AutosaveQuiet, cfg.Data.DefaultDocName)

	app, err := appctx.New(cfg, files, prefStore, coordinator)
	if err != nil {
		logger.WithComponent("main").Fatalf("cannot init app: %v", err)
	}
	defer app.Shutdown()

	if err := app.StartWatchers(); err != nil {
		logger.WithComponent("main").Fatalf("cannot start preference watcher: %v", err)
	}

	// Recover the previous session, if a last-used locator was recorded.
	coordinator.Load(app.BaseCtx, "")

	gin.SetMode(cfg.Misc.GinMode)
	gin.DefaultWriter = logger.Logger.Writer()
	gin.DefaultErrorWriter = logger.Logger.Writer()

	r := gin.New()
	r.Use(middleware.HoneybadgerMiddleware(logger.Logger))
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware(cfg.Server.CORSAllowedOrigins))
	route.SetupRoutes(r, app)

	srv := createGraceHTTPServer(app.BaseCtx, "quillpad", cfg.Server, r)

	// A confirmed exit from the session is equivalent to a termination
	// signal: the graceful server drives the shutdown either way.
	go func() {
		<-coordinator.ExitRequested()
		logger.WithComponent("main").Info("session exit confirmed, shutting down")
		if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
			logger.WithComponent("main").Errorf("cannot signal shutdown: %v", err)
		}
	}()

	if err := srv.ListenAndServe(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithComponent("main").Fatal(err)
	}
}

func createGraceHTTPServer(ctx context.Context, name string, serverConfig config.ServerConfig, r *gin.Engine) *httpgrace.Server {
	slogLogger := slog.New(slog.NewTextHandler(logger.Logger.Writer(), nil))

	srv := httpgrace.NewServer(r,
		httpgrace.WithTimeout(serverConfig.ShutDownTimeout),
		httpgrace.WithSignals(syscall.SIGTERM, syscall.SIGINT),
		httpgrace.WithLogger(slogLogger),
		httpgrace.WithBeforeShutdown(func() {
			logger.WithComponent("http").Infof("Shutting down %s server....", name)
		}),
		httpgrace.WithServerOptions(
			httpgrace.WithReadTimeout(serverConfig.ReadTimeout),
			httpgrace.WithWriteTimeout(serverConfig.WriteTimeout),
			httpgrace.WithIdleTimeout(serverConfig.IdleTimeout),
			func(srv *http.Server) {
				srv.BaseContext = func(_ net.Listener) context.Context {
					return ctx
				}
			},
			func(srv *http.Server) {
				srv.ErrorLog = log.New(logger.Logger.Writer(), fmt.Sprintf("[%s] ", name), log.LstdFlags)
			},
		),
	)
	return srv
}
