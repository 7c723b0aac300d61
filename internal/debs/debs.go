package deps

import (
	"log"

	"github.com/jonboulle/clockwork"

	"github.com/hazardhub/hazardhub_api/config"
	"github.com/hazardhub/hazardhub_api/internal/cache"
	"github.com/hazardhub/hazardhub_api/internal/db"
	"github.com/hazardhub/hazardhub_api/internal/http/ml"
	"github.com/hazardhub/hazardhub_api/internal/observability"
	"github.com/hazardhub/hazardhub_api/util/storage"
	"github.com/hazardhub/hazardhub_api/util/websockets"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Dependencies struct {
	DB         *db.DB
	Cloudinary *storage.Cloudinary
	Uploads    *storage.LocalStore
	Cache      *cache.Cache
	WebSocket  *websockets.WebSocketManager
	ML         *ml.Client
	Metrics    *observability.Metrics
	Clock      clockwork.Clock
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	uploads, err := storage.NewLocalStore(cfg.UploadDir, cfg.ServerBaseURL)
	if err != nil {
		log.Panicln("failed to prepare upload directory", "error", err)
	}

	deps := Dependencies{
		DB:         database,
		Cloudinary: storage.NewCloudinary(cfg),
		Uploads:    uploads,
		Cache:      cache.New(cfg.RedisAddr),
		WebSocket:  websockets.NewWebSocketManager(),
		ML:         ml.New(cfg.MLBaseURL, cfg.MLTimeout),
		Metrics:    observability.NewMetrics(),
		Clock:      clockwork.NewRealClock(),
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}
