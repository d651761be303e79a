package health

import (
	"context"
	"net/http"
	"time"

	"github.com/2beens/gymprogress/internal/telemetry/tracing"
	"github.com/2beens/gymprogress/pkg"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=health_test

const (
	StatusOK   = "ok"
	StatusDown = "down"

	pingTimeout = 2 * time.Second
)

type dbPinger interface {
	Ping(ctx context.Context) error
}

type Report struct {
	Status   string `json:"status"`
	Postgres string `json:"postgres"`
	Redis    string `json:"redis"`
}

type Handler struct {
	db  dbPinger
	rdb *redis.Client
}

func NewHandler(db dbPinger, rdb *redis.Client) *Handler {
	return &Handler{
		db:  db,
		rdb: rdb,
	}
}

func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/health", handler.HandleHealth).Methods("GET").Name("health")
}

func (handler *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.health")
	defer span.End()

	report := handler.Check(ctx)
	status := http.StatusOK
	if report.Status != StatusOK {
		status = http.StatusServiceUnavailable
	}

	pkg.WriteJSON(w, report, status)
}

// Check pings every dependency and reports each one separately.
func (handler *Handler) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	report := Report{
		Status:   StatusOK,
		Postgres: StatusOK,
		Redis:    StatusOK,
	}

	if err := handler.db.Ping(ctx); err != nil {
		log.Errorf("health: ping postgres: %s", err)
		report.Postgres = StatusDown
		report.Status = StatusDown
	}

	if err := handler.rdb.Ping(ctx).Err(); err != nil {
		log.Errorf("health: ping redis: %s", err)
		report.Redis = StatusDown
		report.Status = StatusDown
	}

	return report
}
