package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ariefcatur/go-pos-engine.git/internal/backend"
	"github.com/ariefcatur/go-pos-engine.git/internal/config"
	"github.com/ariefcatur/go-pos-engine.git/internal/gateway"
	"github.com/ariefcatur/go-pos-engine.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-pos-engine.git/internal/kafka"
	"github.com/ariefcatur/go-pos-engine.git/internal/localdb"
	"github.com/ariefcatur/go-pos-engine.git/internal/metrics"
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

	// DB lokal (mirror katalog + antrian pending)
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := localdb.EnsureSchema(ctx, db); err != nil {
		log.Fatalf("ensure schema: %v", err)
	}

	// Redis (state kerja terminal)
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	store := &redisx.Store{R: rdb}

	// Kolaborator eksternal
	bc := backend.New(cfg.BackendBaseURL)
	gw := gateway.New(cfg.GatewayBaseURL)

	// Kafka producers
	prodSale := kafkax.NewProducer(cfg.KafkaBrokers, pos.TopicSaleSettled, 1024)
	prodSale.Start(ctx)
	prodSync := kafkax.NewProducer(cfg.KafkaBrokers, pos.TopicSyncCompleted, 256)
	prodSync.Start(ctx)

	// Session: satu handle untuk seluruh state terminal
	session := pos.NewSession(cfg.OutletID)
	session.OnChange = func(snap pos.CartSnapshot) {
		sctx, scancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer scancel()
		if err := store.SaveCartSnapshot(sctx, snap); err != nil {
			log.Printf("save cart snapshot: %v", err)
		}
	}
	restoreCart(ctx, store, session, cfg.OutletID)
	loadReference(ctx, bc, session)

	mirror := &localdb.MirrorRepo{DB: db}
	queue := &localdb.QueueRepo{DB: db}

	shifts := &pos.Shifts{Backend: bc, Session: session, Cache: store}
	if sh, err := shifts.FetchActive(ctx); err != nil {
		log.Printf("fetch active shift: %v", err)
	} else if sh != nil {
		log.Printf("resumed open shift id=%s", sh.ID)
	}

	held := &pos.HeldOrders{Backend: bc, Session: session}
	settlement := &pos.Settlement{
		Session:     session,
		Held:        held,
		Backend:     bc,
		Queue:       queue,
		Producer:    prodSale,
		ServiceName: cfg.ServiceName,
	}
	syncSvc := &syncx.Service{
		Backend:     bc,
		Mirror:      mirror,
		Queue:       queue,
		Redis:       rdb,
		Store:       store,
		Producer:    prodSync,
		OutletID:    cfg.OutletID,
		ServiceName: cfg.ServiceName,
	}

	m := metrics.NewPOSMetrics("posd")

	// Router & handlers
	router := httpx.NewRouter(metrics.Middleware(m))
	router.Handle("/metrics", metrics.Handler())
	(&httpx.CartHandler{Session: session, Catalog: mirror}).Register(router)
	(&httpx.ShiftHandler{Shifts: shifts}).Register(router)
	(&httpx.HeldOrdersHandler{Held: held}).Register(router)
	checkout := &httpx.CheckoutHandler{
		Session:      session,
		Settlement:   settlement,
		Gateway:      gw,
		Store:        store,
		Metrics:      m,
		PollInterval: cfg.PollInterval,
		PollDeadline: cfg.PollDeadline,
	}
	checkout.Register(router)
	(&httpx.SessionHandler{Session: session, Verifier: bc}).Register(router)
	(&httpx.SyncHandler{Sync: syncSvc, Queue: queue, Store: store, Metrics: m, OutletID: cfg.OutletID}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s (outlet=%s)", cfg.HTTPAddr, cfg.OutletID)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	// poller yang masih jalan bisa memfinalkan settlement dan publish;
	// hentikan semuanya dulu sebelum inbox producer ditutup
	checkout.StopAll()
	prodSale.Close()
	prodSync.Close()
	cancel()
	prodSale.WaitClosed()
	prodSync.WaitClosed()
}

// restoreCart memulihkan cart dari snapshot redis (terminal restart di
// tengah transaksi tidak kehilangan isi cart).
func restoreCart(ctx context.Context, store *redisx.Store, session *pos.Session, outletID string) {
	snap, err := store.LoadCartSnapshot(ctx, outletID)
	if err != nil {
		log.Printf("load cart snapshot: %v", err)
		return
	}
	if snap == nil || len(snap.Items) == 0 {
		return
	}
	session.RestoreCart(snap.Items, snap.Customer, snap.ResumedOrderID)
	log.Printf("restored cart: %d item(s)", len(snap.Items))
}

// loadReference menarik kebijakan pajak & tier member. Gagal di sini bukan
// fatal: terminal tetap hidup dengan nilai default dan sinkronisasi
// berikutnya memperbaikinya.
func loadReference(ctx context.Context, bc *backend.Client, session *pos.Session) {
	rctx, rcancel := context.WithTimeout(ctx, 5*time.Second)
	defer rcancel()

	if tp, err := bc.TaxPolicy(rctx); err != nil {
		log.Printf("load tax policy: %v", err)
	} else {
		session.SetTaxPolicy(tp)
	}
	if tiers, err := bc.ListMemberTiers(rctx); err != nil {
		log.Printf("load member tiers: %v", err)
	} else {
		session.SetMemberTiers(tiers)
	}
}
