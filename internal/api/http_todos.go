package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ListTodos 返回当前用户的待办列表
func (h *HTTPHandler) ListTodos(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "todo repository not available")
		return
	}

	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "需要登录")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	todos, err := h.repo.ListTodosByUser(ctx, user.ID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to list todos")
		InternalError(c, "加载待办失败")
		return
	}

	c.JSON(http.StatusOK, todos)
}
