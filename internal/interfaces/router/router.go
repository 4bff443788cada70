package router

import (
	"net/http"

	authsvc "dongs-backend/internal/application/auth"
	bensvc "dongs-backend/internal/application/beneficiaries"
	dashsvc "dongs-backend/internal/application/dashboard"
	distsvc "dongs-backend/internal/application/distributions"
	donsvc "dongs-backend/internal/application/donations"
	emailsvc "dongs-backend/internal/application/emails"
	orgsvc "dongs-backend/internal/application/org"
	usersvc "dongs-backend/internal/application/user"
	"dongs-backend/internal/config"
	"dongs-backend/internal/infrastructure/database"
	authhandler "dongs-backend/internal/interfaces/handlers/auth"
	benhandler "dongs-backend/internal/interfaces/handlers/beneficiaries"
	dashhandler "dongs-backend/internal/interfaces/handlers/dashboard"
	disthandler "dongs-backend/internal/interfaces/handlers/distributions"
	donhandler "dongs-backend/internal/interfaces/handlers/donations"
	healthhandler "dongs-backend/internal/interfaces/handlers/health"
	orghandler "dongs-backend/internal/interfaces/handlers/org"
	userhandler "dongs-backend/internal/interfaces/handlers/user"
	"dongs-backend/internal/middleware"
	"dongs-backend/internal/pkg/constants"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp wires middleware, services and routes into the Fiber app.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	sessionHandler, rdb, err := middleware.Session(middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	})
	if err != nil {
		return nil, nil, nil, err
	}
	app.Use(sessionHandler)
	app.Use(middleware.HealthMarker(rdb))
	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	hh := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             nil,
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/", hh.Dashboard)
	app.Get("/reset", hh.Reset)
	app.Get("/health/json", hh.JSON)
	app.Get("/health/errors", hh.Errors)

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var errDB error
		db, errDB = database.Open(cfg.DatabaseURL)
		if errDB != nil {
			return nil, nil, nil, errDB
		}
		hh.DB = &gormDBPinger{db: db}
	}

	sessionCfg := middleware.SessionConfig{
		Secret:            cfg.SessionSecret,
		RedisURL:          cfg.RedisURL,
		AllowCrossSiteDev: cfg.AllowCrossSiteDev,
		IsProduction:      cfg.Env == "production",
	}

	var userFinder authsvc.UserFinder
	if db != nil {
		userFinder = &authsvc.GormUserFinder{DB: db}
	}
	ah := &authhandler.Handlers{
		UserFinder: userFinder,
		Rdb:        rdb,
		Config:     sessionCfg,
	}
	authGroup := app.Group("/api/v1/auth")
	authGroup.Post("/login", ah.Login)
	authGroup.Get("/me", ah.Me)
	authGroup.Delete("/logout", ah.Logout)

	if db != nil && rdb != nil {
		var emailSender emailsvc.Sender
		if cfg.BrevoAPIKey != "" {
			emailSender = &emailsvc.BrevoClient{APIKey: cfg.BrevoAPIKey, MailFrom: cfg.MailFrom}
		}

		// User
		us := &usersvc.Service{DB: db, Rdb: rdb, EmailSender: emailSender}
		uh := &userhandler.Handlers{Service: us, Config: sessionCfg}
		// create-user is public (registration)
		app.Post("/api/v1/users/create-user", uh.CreateUser)
		ug := app.Group("/api/v1/users", middleware.RequireAuth())
		ug.Put("/update-user", uh.UpdateUser)
		ug.Get("/view-user", uh.ViewUser)
		ug.Patch("/update-role", middleware.AuthorizePermission(constants.AssignRole), uh.UpdateRole)
		ug.Delete("/remove-user", middleware.AuthorizePermission(constants.RemoveUser), uh.RemoveUser)

		// Org
		os := &orgsvc.Service{DB: db}
		oh := &orghandler.Handlers{Service: os, Config: sessionCfg}
		og := app.Group("/api/v1/orgs", middleware.RequireAuth())
		og.Post("/create-org", oh.CreateOrg)
		og.Get("/view-org", oh.ViewOrg)
		og.Patch("/update-org", middleware.AuthorizePermission(constants.UpdateOrg), oh.UpdateOrg)

		// Donations
		ds := &donsvc.Service{DB: db}
		dh := &donhandler.Handlers{Service: ds}
		dg := app.Group("/api/v1/donations", middleware.RequireAuth())
		dg.Post("/create-donation", middleware.AuthorizePermission(constants.RecordDonation), dh.CreateDonation)
		dg.Get("/list-donations", middleware.AuthorizePermission(constants.ViewData), dh.ListDonations)
		dg.Get("/view-donation/:id", middleware.AuthorizePermission(constants.ViewData), dh.ViewDonation)
		dg.Patch("/update-donation/:id", middleware.AuthorizePermission(constants.RecordDonation), dh.UpdateDonation)
		dg.Delete("/delete-donation/:id", middleware.AuthorizePermission(constants.DeleteDonation), dh.DeleteDonation)

		// Beneficiaries
		bs := &bensvc.Service{DB: db}
		bh := &benhandler.Handlers{Service: bs}
		bg := app.Group("/api/v1/beneficiaries", middleware.RequireAuth())
		bg.Post("/create-beneficiary", middleware.AuthorizePermission(constants.ManageBeneficiaries), bh.CreateBeneficiary)
		bg.Get("/list-beneficiaries", middleware.AuthorizePermission(constants.ViewData), bh.ListBeneficiaries)
		bg.Get("/view-beneficiary/:id", middleware.AuthorizePermission(constants.ViewData), bh.ViewBeneficiary)
		bg.Patch("/update-beneficiary/:id", middleware.AuthorizePermission(constants.ManageBeneficiaries), bh.UpdateBeneficiary)
		bg.Delete("/delete-beneficiary/:id", middleware.AuthorizePermission(constants.DeleteBeneficiary), bh.DeleteBeneficiary)

		// Distributions
		dists := &distsvc.Service{DB: db}
		disth := &disthandler.Handlers{Service: dists}
		distg := app.Group("/api/v1/distributions", middleware.RequireAuth())
		distg.Post("/distribute-donation", middleware.AuthorizePermission(constants.DistributeDonation), disth.DistributeDonation)
		distg.Get("/list-distributions", middleware.AuthorizePermission(constants.ViewData), disth.ListDistributions)

		// Dashboard
		dashs := &dashsvc.Service{DB: db}
		dashh := &dashhandler.Handlers{Service: dashs}
		app.Get("/api/v1/dashboard/get-stats", middleware.RequireAuth(), middleware.AuthorizePermission(constants.ViewData), dashh.GetStats)
	}

	return app, db, rdb, nil
}

// Handler adapts the Fiber app to net/http (serverless entrypoint).
func Handler(app *fiber.App) http.Handler {
	return adaptor.FiberApp(app)
}
