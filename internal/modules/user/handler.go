package user

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/opencampus/lms-core/internal/pkg/pagination"
	"github.com/opencampus/lms-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the directory lookups. Session routes under
// /users/:id/sessions belong to the session module.
func (h *Handler) RegisterRoutes(admin *gin.RouterGroup) {
	g := admin.Group("/users")
	g.GET("/sessions-summary", h.sessionsSummary)
	g.GET("/:id", h.get)
}

// GET /users/:id
func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.BadRequest(c, "invalid id")
		return
	}

	u, err2 := h.svc.GetByID(uint(id))
	if err2 != nil {
		response.InternalError(c, err2)
		return
	}
	if u == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	response.OK(c, u)
}

// GET /users/sessions-summary?page=&size=
func (h *Handler) sessionsSummary(c *gin.Context) {
	q := pagination.FromContext(c)
	rows, pag, err := h.svc.SessionsSummary(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, rows, pag)
}
