package http

import (
	"github.com/gin-gonic/gin"

	cacheport "go-parley/internal/infrastructure/cache/port"
	qport "go-parley/internal/infrastructure/queue/port"
	"go-parley/internal/infrastructure/realtime"
	"go-parley/internal/pkg/chat/application"
	"go-parley/internal/pkg/chat/persistence/snapshot"
	"go-parley/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers chat endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
// cache and queue may be nil when Redis is not configured.
func RegisterRoutes(g *gin.RouterGroup, svc *application.Service, cache cacheport.Cache,
	queue qport.Client, rt *realtime.Router, sink snapshot.Store) {

	g.POST("/users", controller.NewCreateUserController(svc, cache).Handle())
	g.GET("/users", controller.NewListUsersController(svc, cache).Handle())

	g.POST("/conversations", controller.NewCreateConversationController(svc, cache).Handle())
	g.GET("/conversations", controller.NewListConversationsController(svc, cache).Handle())
	g.POST("/conversations/:conversationId/join", controller.NewJoinConversationController(svc).Handle())
	g.POST("/conversations/:conversationId/messages", controller.NewPostMessageController(svc, rt).Handle())
	g.GET("/conversations/:conversationId/messages", controller.NewListMessagesController(svc).Handle())
	g.POST("/conversations/:conversationId/like", controller.NewLikeMessageController(svc).Handle())
	g.POST("/conversations/:conversationId/access", controller.NewChangeAccessController(svc).Handle())

	g.GET("/messages", controller.NewSearchMessagesController(svc).Handle())

	interestUsers := controller.NewInterestUserController(svc)
	g.PUT("/users/:userId/interests/users/:otherId", interestUsers.Add())
	g.DELETE("/users/:userId/interests/users/:otherId", interestUsers.Remove())

	interestConvos := controller.NewInterestConversationController(svc)
	g.PUT("/users/:userId/interests/conversations/:conversationId", interestConvos.Add())
	g.DELETE("/users/:userId/interests/conversations/:conversationId", interestConvos.Remove())

	g.POST("/users/:userId/status/users/:otherId", controller.NewUserStatusController(svc).Handle())
	g.POST("/users/:userId/status/conversations/:conversationId", controller.NewConversationStatusController(svc).Handle())

	g.POST("/admin/snapshot", controller.NewSnapshotController(svc, queue, sink).Handle())
}
