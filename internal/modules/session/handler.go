package session

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/lms-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the session-administration surface on the admin
// group. The user-scoped session routes live here too; the user module
// owns only directory lookups.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/sessions")
	g.GET("", h.list)
	g.GET("/suspicious", h.listSuspicious)
	g.GET("/stats", h.stats)
	g.DELETE("/:id", h.revoke)
	g.PUT("/:id/mark-suspicious", h.markSuspicious)

	u := admin.Group("/users")
	u.GET("/:id/sessions", h.listForUser)
	u.DELETE("/:id/sessions", h.revokeAllForUser)
}

// GET /sessions?q=&status=
func (h *Handler) list(c *gin.Context) {
	views, err := h.svc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.respondFiltered(c, views)
}

// GET /sessions/suspicious?q=
func (h *Handler) listSuspicious(c *gin.Context) {
	views, err := h.svc.ListSuspicious(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	h.respondFiltered(c, views)
}

// GET /sessions/stats
func (h *Handler) stats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, st)
}

// DELETE /sessions/:id — revoke, body {reason} optional
func (h *Handler) revoke(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var dto RevokeDTO
	// An empty body means "no reason"; the service applies the default.
	_ = c.ShouldBindJSON(&dto)

	view, err := h.svc.Revoke(c.Request.Context(), id, dto.Reason)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}
	response.OK(c, view)
}

// PUT /sessions/:id/mark-suspicious
func (h *Handler) markSuspicious(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	view, err := h.svc.MarkSuspicious(c.Request.Context(), id)
	if err != nil {
		h.respondMutationError(c, err)
		return
	}
	response.OK(c, view)
}

// GET /users/:id/sessions — list plus the derived summary block
func (h *Handler) listForUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	views, err := h.svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	views, ok = applyListFilter(c, views)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"data":    views,
		"summary": Summarize(views),
	})
}

// DELETE /users/:id/sessions — revoke all, body {reason} optional
func (h *Handler) revokeAllForUser(c *gin.Context) {
	userID, ok := pathID(c)
	if !ok {
		return
	}

	var dto RevokeDTO
	_ = c.ShouldBindJSON(&dto)

	revoked, err := h.svc.RevokeAll(c.Request.Context(), userID, dto.Reason)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"revoked": revoked})
}

func (h *Handler) respondFiltered(c *gin.Context, views []View) {
	views, ok := applyListFilter(c, views)
	if !ok {
		return
	}
	response.OK(c, views)
}

// applyListFilter narrows the cached list in memory from the q/status
// query params. Never a storage query; an unknown status value 400s.
func applyListFilter(c *gin.Context, views []View) ([]View, bool) {
	term := c.Query("q")
	status := Status(c.Query("status"))
	if status != "" && status != StatusAll {
		if _, ok := ParseStatus(string(status)); !ok {
			response.BadRequest(c, "unknown status filter")
			return nil, false
		}
	}
	return Filter(views, term, status), true
}

func (h *Handler) respondMutationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "session not found")
	case errors.Is(err, ErrAlreadyRevoked):
		response.Conflict(c, "session already revoked")
	case errors.Is(err, ErrInvalidTransition):
		response.Conflict(c, "status transition not allowed")
	default:
		response.InternalError(c, err)
	}
}

// pathID parses the numeric :id path param, writing a 400 on failure.
func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return 0, false
	}
	return uint(id), true
}
