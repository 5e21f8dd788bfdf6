package router

import (
	"net/http"

	"infera-console/internal/application/roleswitch"
	"infera-console/internal/config"
	"infera-console/internal/constants"
	"infera-console/internal/infrastructure/database"
	healthhandler "infera-console/internal/interfaces/handlers/health"
	rolehandler "infera-console/internal/interfaces/handlers/role"
	"infera-console/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp opens Redis and the optional database from cfg and builds the Fiber app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, nil, err
	}
	rdb := redis.NewClient(opt)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	} else {
		log.Info().Msg("DATABASE_URL not set; role switch history disabled")
	}

	return NewApp(cfg, rdb, db), db, rdb, nil
}

// NewApp builds the Fiber app with all global middleware and route registration. db may be nil.
func NewApp(cfg *config.Config, rdb *redis.Client, db *gorm.DB) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{Rdb: rdb, HealthAdminKey: cfg.HealthAdminKey}
	if db != nil {
		hh.DB = &gormDBPinger{db: db}
	}
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)
	app.Get("/reset", hh.Reset)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Use(middleware.Session(middleware.SessionConfig{
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.IsProduction(),
	}, rdb))
	app.Use(middleware.HealthMarker(rdb))

	rh := &rolehandler.Handlers{History: &roleswitch.Service{DB: db}}

	api := app.Group("/api/v1")
	api.Get("/roles", rh.ListRoles)

	rg := api.Group("/role", middleware.RoleContext(rh.RecordSwitch))
	rg.Get("/", rh.GetRole)
	rg.Put("/", rh.SetRole)
	rg.Delete("/", rh.ResetRole)
	rg.Get("/capabilities", rh.GetCapabilities)
	rg.Get("/capabilities/:capability", rh.CheckCapability)
	rg.Get("/affordances", rh.GetAffordances)
	rg.Get("/affordances/:key", rh.GetAffordance)
	rg.Get("/history", middleware.RequireCapability(constants.IsAdmin), rh.GetHistory)

	return app
}

// Handler adapts the Fiber app to net/http.
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
