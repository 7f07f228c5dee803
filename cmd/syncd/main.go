package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-pos-engine.git/internal/backend"
	"github.com/ariefcatur/go-pos-engine.git/internal/config"
	kafkax "github.com/ariefcatur/go-pos-engine.git/internal/kafka"
	"github.com/ariefcatur/go-pos-engine.git/internal/localdb"
	"github.com/ariefcatur/go-pos-engine.git/internal/pos"
	"github.com/ariefcatur/go-pos-engine.git/internal/postgres"
	"github.com/ariefcatur/go-pos-engine.git/internal/redisx"
	"github.com/ariefcatur/go-pos-engine.git/internal/syncx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB lokal
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if err := localdb.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Producer hasil pass
	prod := kafkax.NewProducer(cfg.KafkaBrokers, pos.TopicSyncCompleted, 256)
	prod.Start(ctx)

	// Service
	svc := &syncx.Service{
		Backend:     backend.New(cfg.BackendBaseURL),
		Mirror:      &localdb.MirrorRepo{DB: db},
		Queue:       &localdb.QueueRepo{DB: db},
		Redis:       rdb,
		Store:       &redisx.Store{R: rdb},
		Producer:    prod,
		OutletID:    cfg.OutletID,
		ServiceName: cfg.ServiceName + "-syncd",
	}

	// Watcher konektivitas: pass saat start (jika online) dan setiap
	// transisi offline→online
	watcher := &syncx.Watcher{Service: svc, Interval: cfg.SyncProbeInterval}
	go watcher.Run(ctx)

	// Consumer catalog.updated dari backend
	group := getenv("SYNC_GROUP", "pos-syncd")
	workers := mustAtoi(os.Getenv("SYNC_WORKERS"), "1")
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, pos.TopicCatalogUpdated, workers)

	go func() {
		log.Printf("sync consumer started: group=%s topic=%s workers=%d", group, pos.TopicCatalogUpdated, workers)
		if err := cons.Start(ctx, svc.HandleCatalogUpdated); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down syncd...")
	cancel()
	time.Sleep(500 * time.Millisecond)
	prod.Close()
	prod.WaitClosed()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
