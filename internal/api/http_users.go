package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"internship/internal/auth"
	"internship/internal/entity"
)

// CreateUser 管理员开设账号。新账号强制首登改密（must_reset_pwd=true），
// 用户名冲突返回 409。
func (h *HTTPHandler) CreateUser(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.UserCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		MissingField(c, "username")
		return
	}

	if !entity.ValidRole(req.Role) {
		BadRequest(c, ErrCodeInvalidRole, "无效的角色")
		return
	}

	hash, err := auth.HashPassword(strings.TrimSpace(req.InitialPassword))
	if err != nil {
		logrus.WithError(err).Error("failed to hash password for new user")
		InternalError(c, "创建用户失败")
		return
	}

	user := &entity.DbUser{
		Username:     username,
		PasswordHash: hash,
		Role:         req.Role,
		MustResetPwd: true,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			Conflict(c, ErrCodeUsernameExists, "用户名已存在")
			return
		}
		logrus.WithError(err).Error("failed to create user")
		InternalError(c, "创建用户失败")
		return
	}

	// 给新账号放一条首登设置待办，失败不影响开号
	todo := &entity.DbTodo{
		UserID: user.ID,
		Title:  "完成首次登录设置（修改密码并绑定手机号）",
	}
	if err := h.repo.CreateTodo(ctx, todo); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Warn("failed to create first-setup todo")
	}

	c.JSON(http.StatusCreated, entity.UserCreateResponse{ID: user.ID})
}

// ListUsers 管理员查看全部账号
func (h *HTTPHandler) ListUsers(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	users, err := h.repo.ListUsers(ctx)
	if err != nil {
		logrus.WithError(err).Error("failed to list users")
		InternalError(c, "加载用户列表失败")
		return
	}

	response := entity.UserListResponse{
		Users: make([]entity.UserSummary, 0, len(users)),
	}
	for idx := range users {
		response.Users = append(response.Users, makeUserSummary(&users[idx]))
	}

	c.JSON(http.StatusOK, response)
}
