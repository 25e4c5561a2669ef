package config

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the project config values
type Config struct {
	URL                 string
	DatabaseName        string
	Port                string
	JWTSecret           string
	AllowedEmailDomains []string
	CampusTimeZone      string
}

// New sets up all config related services
func New() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("DB_NAME", "studybuddy")
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "local")
	v.SetDefault("ALLOWED_EMAIL_DOMAINS", "@csulb.edu")
	v.SetDefault("CAMPUS_TZ", "America/Los_Angeles")

	//setup zap logger and replace default logger
	logger, err := setLogger(v.GetString("APP_ENV"))
	if err != nil {
		logger = zap.NewExample()
	}
	defer logger.Sync()
	_ = zap.ReplaceGlobals(logger)

	var domains []string
	for _, d := range strings.Split(v.GetString("ALLOWED_EMAIL_DOMAINS"), ",") {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			domains = append(domains, d)
		}
	}

	return &Config{
		URL:                 v.GetString("DB_URI"),
		DatabaseName:        v.GetString("DB_NAME"),
		Port:                v.GetString("PORT"),
		JWTSecret:           v.GetString("JWT_SECRET"),
		AllowedEmailDomains: domains,
		CampusTimeZone:      v.GetString("CAMPUS_TZ"),
	}
}

func setLogger(env string) (*zap.Logger, error) {
	switch env {
	case "production":
		return zap.NewProduction()
	case "development":
		return zap.NewDevelopment()
	default:
		return zap.NewExample(), nil
	}
}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}
