// Copyright 2025 Oliver Andrich
// Licensed under the EUPL-1.2

package config

import (
	"fmt"
	"strings"
	"time"

	altsrc "github.com/urfave/cli-altsrc/v3"
	"github.com/urfave/cli-altsrc/v3/toml"
	"github.com/urfave/cli/v3"
)

var configFile = altsrc.StringSourcer("config.toml")

type Config struct { //nolint:govet // fieldalignment not critical for config structs
	Server   ServerConfig
	Log      LogConfig
	Database DatabaseConfig
	TLS      TLSConfig
	Passport PassportConfig
	FHIR     FHIRConfig
	Portal   PortalConfig
	Hospital HospitalConfig
}

type TLSConfig struct {
	Mode     string // auto, selfsigned, manual, off
	CertDir  string // Directory for the generated self-signed certificate
	CertFile string // Path to certificate file (manual mode)
	KeyFile  string // Path to private key file (manual mode)
}

type ServerConfig struct { //nolint:govet // fieldalignment not critical for config structs
	Host        string
	Port        int
	BaseURL     string
	MaxBodySize int // in MB
}

type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // text, json
}

type DatabaseConfig struct {
	DSN string
}

type PassportConfig struct {
	TokenWindow time.Duration
	QRSize      int // PNG edge length in pixels
}

type FHIRConfig struct {
	Timeout time.Duration
}

type PortalConfig struct {
	URL             string
	CredentialsFile string
}

type HospitalConfig struct {
	CSVPath string
}

func NewFromCLI(cmd *cli.Command) *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:        cmd.String("host"),
			Port:        int(cmd.Int("port")),
			BaseURL:     cmd.String("base-url"),
			MaxBodySize: int(cmd.Int("max-body-size")),
		},
		Log: LogConfig{
			Level:  cmd.String("log-level"),
			Format: cmd.String("log-format"),
		},
		Database: DatabaseConfig{
			DSN: cmd.String("database-dsn"),
		},
		TLS: TLSConfig{
			Mode:     cmd.String("tls-mode"),
			CertDir:  cmd.String("tls-cert-dir"),
			CertFile: cmd.String("tls-cert-file"),
			KeyFile:  cmd.String("tls-key-file"),
		},
		Passport: PassportConfig{
			TokenWindow: time.Duration(cmd.Int("token-window")) * time.Second,
			QRSize:      int(cmd.Int("qr-size")),
		},
		FHIR: FHIRConfig{
			Timeout: time.Duration(cmd.Int("fhir-timeout")) * time.Second,
		},
		Portal: PortalConfig{
			URL:             cmd.String("portal-url"),
			CredentialsFile: cmd.String("portal-credentials-file"),
		},
		Hospital: HospitalConfig{
			CSVPath: cmd.String("hospital-csv"),
		},
	}

	if cfg.Server.BaseURL == "" {
		cfg.Server.BaseURL = buildBaseURL(cfg)
	}

	return cfg
}

func buildBaseURL(cfg *Config) string {
	host := cfg.Server.Host
	port := cfg.Server.Port

	scheme := "http"
	if shouldUseTLS(strings.ToLower(cfg.TLS.Mode), host, cfg.TLS.CertFile != "" && cfg.TLS.KeyFile != "") {
		scheme = "https"
	}

	// Hide default ports in URL
	if (scheme == "http" && port == 80) || (scheme == "https" && port == 443) {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%d", scheme, host, port)
}

func shouldUseTLS(mode, host string, hasCert bool) bool {
	switch mode {
	case "off":
		return false
	case "selfsigned", "manual":
		return true
	default: // "auto" or empty
		return hasCert && !IsLocalhost(host)
	}
}

// IsLocalhost checks if the host is a localhost address.
func IsLocalhost(host string) bool {
	switch host {
	case "", "localhost", "127.0.0.1", "::1":
		return true
	}
	// Check for *.localhost subdomains (e.g., app.localhost)
	return strings.HasSuffix(host, ".localhost")
}

func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Value:   "0.0.0.0",
			Usage:   "Host to bind to",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOST"), toml.TOML("server.host", configFile)),
		},
		&cli.IntFlag{
			Name:    "port",
			Value:   8000,
			Usage:   "Port to listen on",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORT"), toml.TOML("server.port", configFile)),
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "Address QR codes point at when a request carries no ip_address",
			Sources: cli.NewValueSourceChain(cli.EnvVar("BASE_URL"), toml.TOML("server.base_url", configFile)),
		},
		&cli.IntFlag{
			Name:    "max-body-size",
			Value:   4,
			Usage:   "Maximum request body size in MB",
			Sources: cli.NewValueSourceChain(cli.EnvVar("MAX_BODY_SIZE"), toml.TOML("server.max_body_size", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-level",
			Value:   "info",
			Usage:   "Log level (debug, info, warn, error)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_LEVEL"), toml.TOML("log.level", configFile)),
		},
		&cli.StringFlag{
			Name:    "log-format",
			Value:   "text",
			Usage:   "Log format (text, json)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("LOG_FORMAT"), toml.TOML("log.format", configFile)),
		},
		&cli.StringFlag{
			Name:    "database-dsn",
			Value:   "./data/hospital_gateway.db",
			Usage:   "Database DSN",
			Sources: cli.NewValueSourceChain(cli.EnvVar("DATABASE_DSN"), toml.TOML("database.dsn", configFile)),
		},
		&cli.IntFlag{
			Name:    "token-window",
			Value:   180,
			Usage:   "Seconds a passport token stays valid",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PASSPORT_TOKEN_WINDOW"), toml.TOML("passport.token_window", configFile)),
		},
		&cli.IntFlag{
			Name:    "qr-size",
			Value:   256,
			Usage:   "QR code image size in pixels",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PASSPORT_QR_SIZE"), toml.TOML("passport.qr_size", configFile)),
		},
		&cli.IntFlag{
			Name:    "fhir-timeout",
			Value:   30,
			Usage:   "Seconds to wait for the FHIR server",
			Sources: cli.NewValueSourceChain(cli.EnvVar("FHIR_TIMEOUT"), toml.TOML("fhir.timeout", configFile)),
		},
		&cli.StringFlag{
			Name:    "portal-url",
			Value:   "https://midonlinetest.twca.com.tw/IDPortal/Login",
			Usage:   "Identity portal login endpoint",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORTAL_URL"), toml.TOML("portal.url", configFile)),
		},
		&cli.StringFlag{
			Name:    "portal-credentials-file",
			Value:   "./portal.toml",
			Usage:   "TOML file with business_no, hash_key and hash_key_no",
			Sources: cli.NewValueSourceChain(cli.EnvVar("PORTAL_CREDENTIALS_FILE"), toml.TOML("portal.credentials_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "hospital-csv",
			Value:   "./hospital.csv",
			Usage:   "Hospital list CSV file",
			Sources: cli.NewValueSourceChain(cli.EnvVar("HOSPITAL_CSV"), toml.TOML("hospital.csv_path", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-mode",
			Value:   "auto",
			Usage:   "TLS mode (auto, selfsigned, manual, off)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_MODE"), toml.TOML("tls.mode", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-dir",
			Value:   "./data/certs",
			Usage:   "Directory for the generated self-signed certificate",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_DIR"), toml.TOML("tls.cert_dir", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-cert-file",
			Usage:   "Path to TLS certificate file (manual mode)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_CERT_FILE"), toml.TOML("tls.cert_file", configFile)),
		},
		&cli.StringFlag{
			Name:    "tls-key-file",
			Usage:   "Path to TLS private key file (manual mode)",
			Sources: cli.NewValueSourceChain(cli.EnvVar("TLS_KEY_FILE"), toml.TOML("tls.key_file", configFile)),
		},
	}
}
