package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	// Registers the generated OpenAPI document with swag.
	_ "github.com/skroflin/workforce-api/docs"
	"github.com/skroflin/workforce-api/internal/api/handler"
	"github.com/skroflin/workforce-api/internal/api/middleware"
	"github.com/skroflin/workforce-api/internal/core/policy"
	"github.com/skroflin/workforce-api/internal/core/ports"
)

// Dependencies are the services the public router dispatches to.
type Dependencies struct {
	Log         zerolog.Logger
	Tokens      middleware.TokenValidator
	Audit       ports.AuditRecorder
	Auth        ports.AuthService
	Identities  ports.IdentityService
	Companies   ports.CompanyService
	Departments ports.DepartmentService
	Employees   ports.EmployeeService
	Payroll     ports.PayrollCalculator

	// AuthRateLimit is requests per second per client IP on /auth. Zero disables it.
	AuthRateLimit float64
	// MetricsRegisterer defaults to the global Prometheus registerer.
	MetricsRegisterer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	registerer := deps.MetricsRegisterer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "workforce",
		Registerer: registerer,
	}))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	identityHandler := handler.NewIdentityHandler(deps.Identities)
	companyHandler := handler.NewCompanyHandler(deps.Companies)
	departmentHandler := handler.NewDepartmentHandler(deps.Departments)
	employeeHandler := handler.NewEmployeeHandler(deps.Employees)
	payrollHandler := handler.NewPayrollHandler(deps.Payroll)

	read := middleware.Require(policy.Read)
	write := middleware.Require(policy.Write)
	deleteAny := middleware.Require(policy.DeleteAny)

	// --- Auth routes (bypass the policy gate) ---
	auth := e.Group("/auth")
	if deps.AuthRateLimit > 0 {
		auth.Use(echomiddleware.RateLimiter(echomiddleware.NewRateLimiterMemoryStore(rate.Limit(deps.AuthRateLimit))))
	}
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)

	// --- Authenticated routes ---
	v1 := e.Group("/v1", middleware.Auth(deps.Tokens, deps.Audit, deps.Log))

	v1.GET("/me", identityHandler.Me, middleware.Require(policy.ReadOwn))

	users := v1.Group("/users", middleware.Require(policy.ManageIdentities))
	users.GET("", identityHandler.List)
	users.GET("/stats", identityHandler.Stats)
	users.GET("/:username", identityHandler.Get)
	users.POST("", identityHandler.Create)
	users.PUT("/:username", identityHandler.Update)
	users.DELETE("/:username", identityHandler.Deactivate)
	users.POST("/:username/activate", identityHandler.Activate)

	companies := v1.Group("/companies")
	companies.GET("", companyHandler.List, read)
	companies.GET("/stats", companyHandler.Stats, read)
	companies.GET("/:id", companyHandler.Get, read)
	companies.POST("", companyHandler.Create, write)
	companies.PUT("/:id", companyHandler.Update, write)
	companies.DELETE("/:id", companyHandler.Delete, deleteAny)

	departments := v1.Group("/departments")
	departments.GET("", departmentHandler.List, read)
	departments.GET("/:id", departmentHandler.Get, read)
	departments.POST("", departmentHandler.Create, write)
	departments.PUT("/:id", departmentHandler.Update, write)
	departments.DELETE("/:id", departmentHandler.Delete, deleteAny)

	employees := v1.Group("/employees")
	employees.GET("", employeeHandler.List, read)
	employees.GET("/:id", employeeHandler.Get, read)
	employees.GET("/:id/salary", employeeHandler.Salary, read)
	employees.POST("", employeeHandler.Create, write)
	employees.PUT("/:id", employeeHandler.Update, write)
	employees.DELETE("/:id", employeeHandler.Delete, deleteAny)

	v1.POST("/payroll/breakdown", payrollHandler.Breakdown, read)

	// --- API docs ---
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Status >= 500 {
				ev = log.Error().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
