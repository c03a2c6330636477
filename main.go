package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"

	"github.com/munisuite/backend/internal/models"
	"github.com/munisuite/backend/internal/router"
	"github.com/gin-gonic/gin"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds all runtime configuration, read from the environment.
type Config struct {
	// APIURL is the URL under which the API is reachable, used to build
	// absolute links in resource representations.
	APIURL string `envconfig:"API_URL" default:"http://localhost:8080"`

	// DBPath is the path of the sqlite database file.
	DBPath string `envconfig:"DB_PATH" default:"data/gorm.db"`

	// Port the HTTP server listens on.
	Port string `envconfig:"PORT" default:"8080"`
}

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	var config Config
	err := envconfig.Process("", &config)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	apiURL, err := url.Parse(config.APIURL)
	if err != nil {
		log.Fatal().Str("url", config.APIURL).Msg("API_URL is not a valid URL")
	}

	// Create the data directory
	err = os.MkdirAll(filepath.Dir(config.DBPath), os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	// Connect to the database and migrate all models
	err = models.Connect(config.DBPath)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	r, err := router.Config(apiURL)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(r.Group(""))

	if err := r.Run(fmt.Sprintf(":%s", config.Port)); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
