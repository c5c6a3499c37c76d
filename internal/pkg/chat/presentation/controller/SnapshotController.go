package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/pkg/chat/application"
	"go-parley/internal/pkg/chat/application/task"
	"go-parley/internal/pkg/chat/persistence/snapshot"
)

// SnapshotController handles the on-demand snapshot endpoint. With a queue
// client configured the save runs as a background task; without one it runs
// synchronously against the sink.
type SnapshotController struct {
	Svc   *application.Service
	Queue qport.Client // optional
	Sink  snapshot.Store
}

func NewSnapshotController(svc *application.Service, queue qport.Client, sink snapshot.Store) *SnapshotController {
	return &SnapshotController{Svc: svc, Queue: queue, Sink: sink}
}

// Handle returns a gin handler that persists a point-in-time copy of the
// store.
func (h *SnapshotController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.Queue != nil {
			t, err := task.NewSaveSnapshotTask("api request", time.Now().UTC())
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
			defer cancel()
			id, err := h.Queue.Enqueue(ctx, t, qport.EnqueueOption{Queue: "chat", UniqueTTL: 5 * time.Second})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusAccepted, gin.H{"task_id": id})
			return
		}

		snap := h.Svc.Snapshot()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()
		if err := h.Sink.Save(ctx, snap); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"saved_at":      snap.SavedAt,
			"users":         len(snap.Users),
			"conversations": len(snap.Conversations),
			"messages":      len(snap.Messages),
		})
	}
}
