package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/lizet96/historia-clinica/auth"
	"github.com/lizet96/historia-clinica/config"
	"github.com/lizet96/historia-clinica/handlers"
	"github.com/lizet96/historia-clinica/middleware"
	"github.com/lizet96/historia-clinica/models"
	"github.com/lizet96/historia-clinica/services"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Deps son las dependencias compartidas por todas las rutas
type Deps struct {
	Config *config.Config
	DB     *gorm.DB
	Pinger handlers.Pinger
	Auth   *auth.Service
	Log    zerolog.Logger
}

// NewApp crea la aplicación fiber con el manejador de errores y todas las rutas
func NewApp(deps Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler:          handlers.ErrorHandler(deps.Log),
		AppName:               "Historia Clínica API v" + handlers.Version,
		DisableStartupMessage: true,
	})
	SetupRoutes(app, deps)
	return app
}

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(app *fiber.App, deps Deps) {
	cfg := deps.Config

	// Middleware global
	app.Use(middleware.LoggingMiddleware(deps.Log, app.Config().ErrorHandler))
	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.IsDev()}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Origins(),
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-Request-ID",
	}))
	app.Use(middleware.SecurityHeaders())
	app.Use(middleware.BodySizeLimit(cfg.BodyLimit))
	app.Use(middleware.CreateRateLimiter(middleware.DefaultRateLimit))

	usuarios := handlers.NewUsuariosHandler(deps.Auth)
	pacientes := handlers.NewPacientesHandler(services.NewPacientes(deps.DB, deps.Log))
	medico := handlers.NewMedicoHandler(
		services.NewAtenciones(deps.DB, deps.Log),
		services.NewCierres(deps.DB, deps.Log),
	)

	soloMedico := middleware.Require(auth.NewGate(deps.Auth, models.RolMedico))
	admision := middleware.Require(auth.NewGate(deps.Auth, models.RolAdmisionista, models.RolMedico))
	autenticado := middleware.Authenticated(deps.Auth)

	app.Get("/", handlers.Root)
	app.Get("/health", handlers.Health(deps.Pinger, deps.Log))

	// === RUTAS PÚBLICAS ===
	authGroup := app.Group("/auth", middleware.AuthRateLimiter())
	authGroup.Post("/login", usuarios.Login)
	authGroup.Post("/register", usuarios.RegistrarUsuario)

	// === RUTAS PROTEGIDAS ===
	app.Get("/users/me", autenticado, usuarios.ObtenerPerfil)

	// --- PACIENTES ---
	app.Get("/pacientes/:id", autenticado, pacientes.ObtenerPaciente)
	app.Post("/pacientes", admision, pacientes.CrearPaciente)
	app.Post("/pacientes/observacion/:id", soloMedico, pacientes.AgregarObservacion)

	// --- MÉDICO ---
	// el gate va en cada ruta para que un path desconocido llegue al 404
	med := app.Group("/medico")
	med.Get("/paciente/:id/atenciones", soloMedico, medico.ObtenerAtencionesPaciente)
	med.Post("/atencion", soloMedico, medico.GuardarAtencion)
	med.Get("/atencion/:id/cierre", soloMedico, medico.ObtenerCierre)
	med.Post("/cierre_historia", soloMedico, medico.GuardarCierre)

	app.Use(handlers.NotFound)
}
