package config

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"go.uber.org/zap"

	"github.com/linesmerrill/gun-locker-api/logging"
)

// Config holds the project config values
type Config struct {
	URL                string
	DatabaseName       string
	BaseURL            string
	Port               string
	JWTSecret          string
	SendgridAPIKey     string
	CloudinaryCloud    string
	CloudinaryKey      string
	CloudinarySecret   string
	CloudinaryPreset   string
	WarrantyDigestCron string
}

// New sets up all config related services
func New() *Config {

	//setup zap logger and replace default logger
	logger := logging.New()
	_ = zap.ReplaceGlobals(logger.Desugar())

	return &Config{
		URL:                os.Getenv("DB_URI"),
		DatabaseName:       os.Getenv("DB_NAME"),
		BaseURL:            os.Getenv("BASE_URL"),
		Port:               os.Getenv("PORT"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		SendgridAPIKey:     os.Getenv("SENDGRID_API_KEY"),
		CloudinaryCloud:    os.Getenv("CLOUDINARY_CLOUD_NAME"),
		CloudinaryKey:      os.Getenv("CLOUDINARY_API_KEY"),
		CloudinarySecret:   os.Getenv("CLOUDINARY_API_SECRET"),
		CloudinaryPreset:   os.Getenv("CLOUDINARY_UPLOAD_PRESET"),
		WarrantyDigestCron: os.Getenv("WARRANTY_DIGEST_CRON"),
	}

}

// ErrorStatus is a useful function that will log, write http headers and body for a
// give message, status code and err
func ErrorStatus(message string, httpStatusCode int, w http.ResponseWriter, err error) {
	zap.S().With(err).Error(message)
	w.WriteHeader(httpStatusCode)
	w.Write([]byte(fmt.Sprintf(`{"response": "%s, %v"}`, message, err)))
}

// ValidationErrorStatus writes a 400 with per-field validation messages so the
// client can surface them next to the offending inputs
func ValidationErrorStatus(message string, w http.ResponseWriter, fields map[string]string) {
	zap.S().Errorw(message, "fields", fields)
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"response": message,
		"data":     fields,
	})
}
