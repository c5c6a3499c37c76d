package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	chat "go-parley/internal/pkg/chat/domain"
)

// statusFor maps core errors onto HTTP status codes. Anything unmatched is
// a caller mistake (400); the core has no fatal errors.
func statusFor(err error) int {
	switch {
	case errors.Is(err, chat.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrDuplicateName), errors.Is(err, chat.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, chat.ErrAccessDenied), errors.Is(err, chat.ErrInsufficientPrivilege):
		return http.StatusForbidden
	case errors.Is(err, chat.ErrNotFollowing):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

func respondErr(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// timeWindow parses optional since/until query parameters (RFC 3339),
// answering 400 itself on failure. Absent bounds default to the zero time
// and the far future, keeping the window half-open either way.
func timeWindow(c *gin.Context) (start, end time.Time, windowed, ok bool) {
	sinceRaw := c.Query("since")
	untilRaw := c.Query("until")
	if sinceRaw == "" && untilRaw == "" {
		return time.Time{}, time.Time{}, false, true
	}

	end = time.Unix(1<<62, 0)
	if sinceRaw != "" {
		t, err := time.Parse(time.RFC3339, sinceRaw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "since must be RFC 3339"})
			return time.Time{}, time.Time{}, false, false
		}
		start = t
	}
	if untilRaw != "" {
		t, err := time.Parse(time.RFC3339, untilRaw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "until must be RFC 3339"})
			return time.Time{}, time.Time{}, false, false
		}
		end = t
	}
	return start, end, true, true
}

// pathID parses a uuid path parameter, answering 400 itself on failure.
func pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a uuid"})
		return uuid.Nil, false
	}
	return id, true
}
