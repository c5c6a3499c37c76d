package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/pkg/chat/application"
	"go-parley/internal/pkg/chat/persistence/snapshot"
)

// SaveSnapshotTaskType is the queue task name for persisting the store.
const SaveSnapshotTaskType = "chat:save_snapshot"

// SaveSnapshotPayload is the JSON payload transported via the queue. Kept
// separate from domain types so the wire format owns its own tags.
type SaveSnapshotPayload struct {
	Reason      string    `json:"reason"`
	RequestedAt time.Time `json:"requestedAt"`
}

// NewSaveSnapshotTask builds an enqueueable snapshot task.
func NewSaveSnapshotTask(reason string, requestedAt time.Time) (qport.Task, error) {
	payload, err := json.Marshal(SaveSnapshotPayload{Reason: reason, RequestedAt: requestedAt})
	if err != nil {
		return qport.Task{}, fmt.Errorf("snapshot task: encode payload: %w", err)
	}
	return qport.Task{Type: SaveSnapshotTaskType, Payload: payload}, nil
}

// RegisterSaveSnapshotTask binds the handler to the queue server. The
// handler copies the store under the service's read lock and saves the copy
// outside any critical section, so repeated runs are harmless.
func RegisterSaveSnapshotTask(srv qport.Server, svc *application.Service, sink snapshot.Store) {
	srv.Register(SaveSnapshotTaskType, func(ctx context.Context, t qport.Task) error {
		var p SaveSnapshotPayload
		if err := json.Unmarshal(t.Payload, &p); err != nil {
			// malformed payload: no point retrying
			return err
		}

		snap := svc.Snapshot()

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := sink.Save(ctx, snap); err != nil {
			return fmt.Errorf("snapshot task (%s): %w", p.Reason, err)
		}
		return nil
	})
}
