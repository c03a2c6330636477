package router

import (
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	docs "github.com/munisuite/backend/api"
	"github.com/munisuite/backend/internal/controllers/healthz"
	v1 "github.com/munisuite/backend/internal/controllers/v1"
	"github.com/munisuite/backend/internal/httputil"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/logger"
	"github.com/gin-contrib/pprof"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// This is set at build time, see Makefile.
var version = "0.0.0"

// Config sets up the router and all middlewares.
func Config(url *url.URL) (*gin.Engine, error) {
	r := gin.New()

	// Don’t process X-Forwarded-For header as we do not do anything with
	// client IPs
	r.ForwardedByClientIP = false

	// Send a HTTP 405 (Method not allowed) for all paths where there is
	// a handler, but not for the specific method used
	r.HandleMethodNotAllowed = true

	r.Use(gin.Recovery())
	r.Use(requestid.New())
	r.Use(URLMiddleware(url))
	r.NoMethod(func(c *gin.Context) {
		message := "This HTTP method is not allowed for the endpoint you called"
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": message})
	})
	r.Use(logger.SetLogger(
		logger.WithDefaultLevel(zerolog.InfoLevel),
		logger.WithClientErrorLevel(zerolog.InfoLevel),
		logger.WithServerErrorLevel(zerolog.ErrorLevel),
		logger.WithLogger(func(c *gin.Context, out io.Writer, latency time.Duration) zerolog.Logger {
			return log.Logger.With().
				Str("request-id", requestid.Get(c)).
				Dur("latency", latency).
				Str("method", c.Request.Method).
				Str("path", c.Request.URL.Path).
				Int("status", c.Writer.Status()).
				Int("size", c.Writer.Size()).
				Str("user-agent", c.Request.UserAgent()).
				Logger()
		})))
	r.Use(MetricsMiddleware())

	// CORS settings
	allowOrigins, ok := os.LookupEnv("CORS_ALLOW_ORIGINS")
	if ok {
		log.Debug().Str("CORS Allowed Origins", allowOrigins).Msg("Router")

		r.Use(cors.New(cors.Config{
			AllowOrigins:     strings.Fields(allowOrigins),
			AllowMethods:     []string{"OPTIONS", "GET", "POST", "PATCH", "DELETE"},
			AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	// Disable the gin debug route printing as it clutters logs (and test logs)
	gin.DebugPrintRouteFunc = func(httpMethod, absolutePath, handlerName string, numHandlers int) {}

	// Don’t trust any proxy. We do not process any client IPs,
	// therefore we don’t need to trust anyone here.
	_ = r.SetTrustedProxies([]string{})

	log.Debug().Str("API Base URL", url.String()).Str("Host", url.Host).Str("Path", url.Path).Msg("Router")
	log.Info().Str("version", version).Msg("Router")

	docs.SwaggerInfo.Host = url.Host
	docs.SwaggerInfo.BasePath = url.Path
	docs.SwaggerInfo.Title = "MuniSuite"
	docs.SwaggerInfo.Version = version
	docs.SwaggerInfo.Description = "The backend for MuniSuite, a municipal e-governance suite covering GAD planning, medicine requests and waste collection scheduling."

	return r, nil
}

// AttachRoutes attaches the API routes to the router group that is passed in.
// Separating this from Config() allows us to attach the routes to different
// paths for different use cases.
func AttachRoutes(group *gin.RouterGroup) {
	group.GET("", GetRoot)
	group.OPTIONS("", OptionsRoot)
	group.GET("/version", GetVersion)
	group.OPTIONS("/version", OptionsVersion)

	// pprof performance profiles
	enablePprof, ok := os.LookupEnv("ENABLE_PPROF")
	if ok && enablePprof == "true" {
		pprof.RouteRegister(group, "debug/pprof")
	}

	group.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	group.GET("/metrics", gin.WrapH(promhttp.Handler()))

	healthz.RegisterRoutes(group.Group("/healthz"))

	// API v1 setup
	v1Group := group.Group("/v1")
	{
		v1Group.GET("", GetV1)
		v1Group.DELETE("", v1.Cleanup)
		v1Group.OPTIONS("", OptionsV1)
	}

	gad := v1Group.Group("/gad")
	v1.RegisterPlanRoutes(gad.Group("/annual-dev-plans"))
	v1.RegisterProposalRoutes(gad.Group("/project-proposals"))
	v1.RegisterSupportDocRoutes(gad.Group("/support-docs"))
	v1.RegisterResolutionRoutes(gad.Group("/resolutions"))
	v1.RegisterCalendarRoutes(gad.Group("/calendar"))

	v1.RegisterMedicineRoutes(v1Group.Group("/medicine"))
	v1.RegisterWasteRoutes(v1Group.Group("/waste"))
	v1.RegisterExportRoutes(v1Group.Group("/export"))

	log.Info().Msg("backend startup complete")
}

type RootResponse struct {
	Links RootLinks `json:"links"`
}

type RootLinks struct {
	Docs    string `json:"docs" example:"https://example.com/api/docs/index.html"` // Swagger API documentation
	Healthz string `json:"healthz" example:"https://example.com/api/healthz"`      // Healthcheck for the backend
	Version string `json:"version" example:"https://example.com/api/version"`      // Endpoint returning the version of the backend
	Metrics string `json:"metrics" example:"https://example.com/api/metrics"`      // Prometheus metrics
	V1      string `json:"v1" example:"https://example.com/api/v1"`                // List endpoint for all v1 endpoints
}

// @Summary		API root
// @Description	Entrypoint for the API, listing all endpoints
// @Tags			General
// @Success		200	{object}	RootResponse
// @Router			/ [get]
func GetRoot(c *gin.Context) {
	url := requestURL(c)

	c.JSON(http.StatusOK, RootResponse{
		Links: RootLinks{
			Docs:    url + "/docs/index.html",
			Healthz: url + "/healthz",
			Version: url + "/version",
			Metrics: url + "/metrics",
			V1:      url + "/v1",
		},
	})
}

type VersionResponse struct {
	Data VersionObject `json:"data"`
}
type VersionObject struct {
	Version string `json:"version" example:"1.1.0"`
}

// @Summary		API version
// @Description	Returns the software version of the API
// @Tags			General
// @Success		200	{object}	VersionResponse
// @Router			/version [get]
func GetVersion(c *gin.Context) {
	c.JSON(http.StatusOK, VersionResponse{
		Data: VersionObject{
			Version: version,
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/ [options]
func OptionsRoot(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/version [options]
func OptionsVersion(c *gin.Context) {
	httputil.OptionsGet(c)
}

type V1Response struct {
	Links V1Links `json:"links"`
}

type V1Links struct {
	AnnualDevPlans   string `json:"annualDevPlans" example:"https://example.com/api/v1/gad/annual-dev-plans"`
	ProjectProposals string `json:"projectProposals" example:"https://example.com/api/v1/gad/project-proposals"`
	SupportDocs      string `json:"supportDocs" example:"https://example.com/api/v1/gad/support-docs"`
	Resolutions      string `json:"resolutions" example:"https://example.com/api/v1/gad/resolutions"`
	Calendar         string `json:"calendar" example:"https://example.com/api/v1/gad/calendar"`
	Medicine         string `json:"medicine" example:"https://example.com/api/v1/medicine"`
	Waste            string `json:"waste" example:"https://example.com/api/v1/waste"`
	Export           string `json:"export" example:"https://example.com/api/v1/export"`
}

// @Summary		v1 API
// @Description	Returns general information about the v1 API
// @Tags			General
// @Success		200	{object}	V1Response
// @Router			/v1 [get]
func GetV1(c *gin.Context) {
	url := requestURL(c) + "/v1"

	c.JSON(http.StatusOK, V1Response{
		Links: V1Links{
			AnnualDevPlans:   url + "/gad/annual-dev-plans",
			ProjectProposals: url + "/gad/project-proposals",
			SupportDocs:      url + "/gad/support-docs",
			Resolutions:      url + "/gad/resolutions",
			Calendar:         url + "/gad/calendar",
			Medicine:         url + "/medicine",
			Waste:            url + "/waste",
			Export:           url + "/export",
		},
	})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			General
// @Success		204
// @Router			/v1 [options]
func OptionsV1(c *gin.Context) {
	httputil.OptionsGet(c)
}
