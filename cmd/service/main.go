package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/2beens/gymprogress/internal"
	"github.com/2beens/gymprogress/internal/config"
	"github.com/2beens/gymprogress/internal/logging"
	"github.com/2beens/gymprogress/pkg"

	log "github.com/sirupsen/logrus"
)

// secrets are never kept in the TOML config.
type secrets struct {
	sentryDSN        string
	dbPassword       string
	redisPassword    string
	honeycombEnabled bool
}

func readSecrets() secrets {
	s := secrets{
		sentryDSN:        os.Getenv("SENTRY_DSN"),
		dbPassword:       os.Getenv("GYMPROGRESS_DB_PASS"),
		redisPassword:    os.Getenv("GYMPROGRESS_REDIS_PASS"),
		honeycombEnabled: os.Getenv("HONEYCOMB_ENABLED") == "true",
	}

	if s.redisPassword == "" {
		log.Errorf("redis password not set. use GYMPROGRESS_REDIS_PASS")
	}
	if s.honeycombEnabled {
		if os.Getenv("HONEYCOMB_API_KEY") == "" {
			log.Warnln("HONEYCOMB_API_KEY env var not set")
		}
		if os.Getenv("OTEL_SERVICE_NAME") == "" {
			log.Warnln("OTEL_SERVICE_NAME env var not set")
		}
	} else {
		log.Debugln("honeycomb tracing disabled")
	}

	return s
}

func main() {
	fmt.Println("starting gymprogress ...")

	env := flag.String("env", "development", "environment [prod | production | dev | development | ddev | dockerdev ]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	sec := readSecrets()
	logging.Setup(logging.LoggerSetupParams{
		LogFileName:      cfg.LogsPath,
		LogToStdout:      cfg.LogToStdout,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        sec.sentryDSN,
		SentryServerName: "gymprogress-service",
	})
	log.Warnf("---->> running in [%s] environment, port [%d]", *env, cfg.Port)

	if version, err := lastCommitHash(); err == nil {
		log.Debugf("running version: %s", version)
	}

	server, err := internal.NewServer(context.Background(), internal.NewServerParams{
		Config:                  cfg,
		DBPassword:              sec.dbPassword,
		RedisPassword:           sec.redisPassword,
		HoneycombTracingEnabled: sec.honeycombEnabled,
	})
	if err != nil {
		log.Fatalf("new server: %s", err)
	}

	chOsInterrupt := make(chan os.Signal, 1)
	signal.Notify(chOsInterrupt, os.Interrupt, syscall.SIGTERM)

	server.Serve(cfg.Host, cfg.Port)

	receivedSig := <-chOsInterrupt
	log.Warnf("signal [%s] received, shutting down ...", receivedSig)
	server.GracefulShutdown()
}

// lastCommitHash assumes the binary runs from the repo root.
func lastCommitHash() (string, error) {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "", err
	}
	return pkg.BytesToString(out), nil
}
