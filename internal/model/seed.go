package model

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"internship/internal/auth"
	"internship/internal/config"
	"internship/internal/entity"
)

const (
	// 默认启动阶段：报名
	DefaultStageCode = "APPLY"
	DefaultStageName = "报名"
)

// SeedDefaults ensures the bootstrap admin account and the initial stage
// exist. It is idempotent and safe to run on every startup.
func SeedDefaults(ctx context.Context, repo Repository, cfg config.Config) error {
	if repo == nil {
		return nil
	}

	if err := seedAdminUser(ctx, repo, cfg); err != nil {
		return err
	}
	return seedInitialStage(ctx, repo)
}

func seedAdminUser(ctx context.Context, repo Repository, cfg config.Config) error {
	username := strings.TrimSpace(cfg.SeedAdminUsername)
	if username == "" {
		username = "admin"
	}

	_, err := repo.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		// fallthrough to create
	default:
		return err
	}

	hash, err := auth.HashPassword(cfg.SeedAdminPassword)
	if err != nil {
		return err
	}

	// 种子管理员不强制首登改密
	admin := &entity.DbUser{
		Username:     username,
		PasswordHash: hash,
		Role:         entity.UserRoleAdmin,
		MustResetPwd: false,
	}
	if err := repo.CreateUser(ctx, admin); err != nil {
		// 并发启动时可能已被其他实例写入
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	return nil
}

func seedInitialStage(ctx context.Context, repo Repository) error {
	active, err := repo.GetActiveStage(ctx)
	if err != nil {
		return err
	}
	if active != nil {
		return nil
	}
	_, err = repo.SwitchStage(ctx, DefaultStageCode, DefaultStageName)
	return err
}
