package model

import (
	"context"

	"internship/internal/entity"
)

// Repository 定义数据库操作接口
type Repository interface {
	// 用户管理
	CreateUser(ctx context.Context, user *entity.DbUser) error
	UpdateUser(ctx context.Context, id uint, updates entity.UserUpdates) error
	GetUserByUsername(ctx context.Context, username string) (*entity.DbUser, error)
	GetUserByID(ctx context.Context, id uint) (*entity.DbUser, error)
	ListUsers(ctx context.Context) ([]entity.DbUser, error)
	CountUsers(ctx context.Context) (int64, error)

	// 阶段控制
	GetActiveStage(ctx context.Context) (*entity.DbStage, error)
	GetStageByCode(ctx context.Context, code string) (*entity.DbStage, error)
	SwitchStage(ctx context.Context, code, name string) (*entity.DbStage, error)

	// 待办
	CreateTodo(ctx context.Context, todo *entity.DbTodo) error
	ListTodosByUser(ctx context.Context, userID uint) ([]entity.DbTodo, error)
}
