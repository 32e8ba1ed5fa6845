package sql

import (
	"context"
	"fmt"

	"internship/internal/entity"
)

// CreateTodo persists a new to-do item.
func (r *GormRepository) CreateTodo(ctx context.Context, todo *entity.DbTodo) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repository not initialised")
	}
	if todo == nil {
		return fmt.Errorf("todo is nil")
	}
	if todo.UserID == 0 {
		return fmt.Errorf("todo has no owner")
	}
	return r.db.WithContext(ctx).Create(todo).Error
}

// ListTodosByUser returns the to-do items owned by userID.
func (r *GormRepository) ListTodosByUser(ctx context.Context, userID uint) ([]entity.DbTodo, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	if userID == 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	var todos []entity.DbTodo
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}
