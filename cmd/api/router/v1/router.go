package v1

import (
	"github.com/gin-gonic/gin"

	cacheport "go-parley/internal/infrastructure/cache/port"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application"
	"go-parley/internal/pkg/chat/persistence/snapshot"
	httpHandler "go-parley/internal/pkg/chat/presentation/http"
	"go-parley/internal/pkg/chat/presentation/ws"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1 plus the
// websocket attach point at /ws.
func RegisterRoutes(r *gin.Engine, svc *application.Service, cache cacheport.Cache,
	queue qport.Client, rt *realtime.Router, sink snapshot.Store) {

	v1 := r.Group("/api/v1")
	httpHandler.RegisterRoutes(v1, svc, cache, queue, rt, sink)

	r.GET("/ws", ws.NewHandler(svc, rt).Handle())
}
