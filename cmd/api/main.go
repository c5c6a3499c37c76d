package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "go-parley/cmd/api/router/v1"
	cacheAdapter "go-parley/internal/infrastructure/cache/adapter"
	cacheport "go-parley/internal/infrastructure/cache/port"
	"go-parley/internal/infrastructure/database"
	queueAdapter "go-parley/internal/infrastructure/queue/adapter"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application"
	"go-parley/internal/pkg/chat/application/task"
	"go-parley/internal/pkg/chat/persistence/snapshot"
)

// Version is reported on the health endpoint.
const Version = "1.0.0"

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sink, err := newSnapshotSink(ctx)
	if err != nil {
		log.Fatalf("failed to configure snapshot store: %v", err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	snap, err := sink.Load(loadCtx)
	cancel()
	if err != nil {
		log.Fatalf("failed to load snapshot: %v", err)
	}
	svc, err := application.Restore(snap)
	if err != nil {
		log.Fatalf("failed to restore state: %v", err)
	}
	log.Printf("restored %d users, %d conversations, %d messages",
		len(snap.Users), len(snap.Conversations), len(snap.Messages))

	rt := realtime.NewRouter()
	defer rt.Close()

	// Redis is optional: without it the API runs uncached and snapshots
	// are saved inline instead of through the queue.
	var cache cacheport.Cache
	var queueClient qport.Client
	if os.Getenv("REDIS_URL") != "" {
		redisCache, err := cacheAdapter.NewRedisAdapter()
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisCache.Close()
		cache = redisCache

		client, err := queueAdapter.NewAsynqClientFromEnv()
		if err != nil {
			log.Fatalf("failed to create queue client: %v", err)
		}
		defer client.Close()
		queueClient = client

		worker, err := queueAdapter.NewAsynqServer()
		if err != nil {
			log.Fatalf("failed to create queue server: %v", err)
		}
		task.RegisterSaveSnapshotTask(worker, svc, sink)
		go func() {
			if err := worker.Run(ctx); err != nil {
				log.Printf("queue server stopped: %v", err)
			}
		}()
	}

	go snapshotLoop(ctx, svc, sink, queueClient)

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK", "version": Version})
	})
	v1.RegisterRoutes(r, svc, cache, queueClient, rt, sink)

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		log.Printf("listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Final synchronous save so nothing since the last tick is lost.
	if err := sink.Save(shutdownCtx, svc.Snapshot()); err != nil {
		log.Printf("final snapshot: %v", err)
	}
}

// newSnapshotSink picks the persistence backend: SNAPSHOT_DRIVER=postgres
// uses DB_URL, anything else a JSON file at SNAPSHOT_PATH.
func newSnapshotSink(ctx context.Context) (snapshot.Store, error) {
	if strings.EqualFold(os.Getenv("SNAPSHOT_DRIVER"), "postgres") {
		connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		pool, err := database.NewPoolFromEnv(connectCtx)
		if err != nil {
			return nil, err
		}
		pg, err := snapshot.NewPgStore(pool)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(connectCtx); err != nil {
			return nil, err
		}
		return pg, nil
	}

	if os.Getenv("SNAPSHOT_PATH") != "" {
		return snapshot.NewFileStoreFromEnv()
	}
	return snapshot.NewFileStore("parley-snapshot.json")
}

// snapshotLoop persists the store on an interval, through the queue when
// one is configured and inline otherwise.
func snapshotLoop(ctx context.Context, svc *application.Service, sink snapshot.Store, queue qport.Client) {
	interval := 5 * time.Minute
	if v := strings.TrimSpace(os.Getenv("SNAPSHOT_INTERVAL")); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if queue != nil {
				t, err := task.NewSaveSnapshotTask("interval", time.Now().UTC())
				if err == nil {
					_, err = queue.Enqueue(ctx, t, qport.EnqueueOption{Queue: "chat", UniqueTTL: interval / 2})
				}
				if err != nil {
					log.Printf("snapshot enqueue: %v", err)
				}
				continue
			}
			saveCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			if err := sink.Save(saveCtx, svc.Snapshot()); err != nil {
				log.Printf("snapshot save: %v", err)
			}
			cancel()
		}
	}
}
