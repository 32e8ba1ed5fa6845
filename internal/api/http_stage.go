package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"internship/internal/entity"
)

// GetStage 返回当前激活的阶段，未设置时返回 null
func (h *HTTPHandler) GetStage(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "stage repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stage, err := h.repo.GetActiveStage(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to load active stage")
		InternalError(c, "加载当前阶段失败")
		return
	}
	if stage == nil {
		c.JSON(http.StatusOK, nil)
		return
	}
	c.JSON(http.StatusOK, stage)
}

// SwitchStage 切换全局阶段：先取消所有激活阶段，再按 code 激活或创建目标
// 阶段。两步在仓库层的同一事务中完成。
func (h *HTTPHandler) SwitchStage(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "stage repository not available")
		return
	}

	var req entity.StageSwitchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	stage, err := h.repo.SwitchStage(ctx, req.Code, req.Name)
	if err != nil {
		logrus.WithError(err).WithField("code", req.Code).Error("failed to switch stage")
		InternalError(c, "切换阶段失败")
		return
	}

	c.JSON(http.StatusOK, stage)
}
