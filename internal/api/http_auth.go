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

// Login 用户名密码登录，签发 Bearer Token。
// 用户不存在与密码错误返回完全一致的响应，避免账号枚举。
func (h *HTTPHandler) Login(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	var req entity.AuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		MissingField(c, "username")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	user, err := h.repo.GetUserByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("username", username).Error("failed to load user for login")
			InternalError(c, "登录失败")
			return
		}
		logrus.WithField("username", username).Warn("login attempt for unknown user")
		BadRequest(c, ErrCodeInvalidCredentials, "用户名或密码错误")
		return
	}

	if err := auth.VerifyPassword(user.PasswordHash, req.Password); err != nil {
		logrus.WithField("username", username).Warn("password verification failed")
		BadRequest(c, ErrCodeInvalidCredentials, "用户名或密码错误")
		return
	}

	token, expiresAt, err := h.authManager.IssueToken(user)
	if err != nil {
		logrus.WithError(err).Error("failed to issue token")
		InternalError(c, "登录失败")
		return
	}

	c.JSON(http.StatusOK, entity.AuthLoginResponse{
		Token:        token,
		ExpiresAt:    expiresAt,
		MustResetPwd: user.MustResetPwd,
	})
}

// FirstSetup 首次登录设置：重置密码并绑定手机号，清除 must_reset_pwd。
// 任何持有效令牌的用户都可对自己调用，此后该标记不会再被置回。
func (h *HTTPHandler) FirstSetup(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "需要登录")
		return
	}

	var req entity.FirstSetupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	phone := strings.TrimSpace(req.Phone)
	if !entity.ValidPhone(phone) {
		BadRequest(c, ErrCodeInvalidPhone, "手机号格式不正确")
		return
	}

	hash, err := auth.HashPassword(strings.TrimSpace(req.NewPassword))
	if err != nil {
		logrus.WithError(err).Error("failed to hash password for first setup")
		InternalError(c, "设置失败")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	mustReset := false
	updates := entity.UserUpdates{
		PasswordHash: &hash,
		Phone:        &phone,
		MustResetPwd: &mustReset,
	}
	if err := h.repo.UpdateUser(ctx, user.ID, updates); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to apply first setup")
		InternalError(c, "设置失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Me 返回当前用户的个人信息
func (h *HTTPHandler) Me(c *gin.Context) {
	if h.repo == nil {
		ServiceUnavailable(c, "user repository not available")
		return
	}

	user := CurrentUser(c)
	if user == nil {
		Unauthorized(c, "需要登录")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	dbUser, err := h.repo.GetUserByID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ErrorResponse(c, http.StatusUnauthorized, ErrCodeUserNotFound, "用户不存在")
			return
		}
		logrus.WithError(err).WithField("user_id", user.ID).Error("failed to load user profile")
		InternalError(c, "加载个人信息失败")
		return
	}

	c.JSON(http.StatusOK, makeUserSummary(dbUser))
}

func makeUserSummary(user *entity.DbUser) entity.UserSummary {
	if user == nil {
		return entity.UserSummary{}
	}
	return entity.UserSummary{
		ID:           user.ID,
		Username:     user.Username,
		Role:         user.Role,
		Phone:        user.Phone,
		MustResetPwd: user.MustResetPwd,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
