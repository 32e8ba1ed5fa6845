package sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"internship/internal/entity"
)

// GetActiveStage returns the currently active stage, or nil when no stage is
// active.
func (r *GormRepository) GetActiveStage(ctx context.Context) (*entity.DbStage, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	var stage entity.DbStage
	err := r.db.WithContext(ctx).Where("is_active = ?", true).First(&stage).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stage, nil
}

// GetStageByCode loads a stage by its unique code.
func (r *GormRepository) GetStageByCode(ctx context.Context, code string) (*entity.DbStage, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, fmt.Errorf("stage code is empty")
	}
	var stage entity.DbStage
	if err := r.db.WithContext(ctx).Where("code = ?", trimmed).First(&stage).Error; err != nil {
		return nil, err
	}
	return &stage, nil
}

// SwitchStage deactivates every active stage and activates (or creates) the
// stage identified by code, all inside one transaction so readers never see
// zero or two active stages. An empty name falls back to the code.
func (r *GormRepository) SwitchStage(ctx context.Context, code, name string) (*entity.DbStage, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repository not initialised")
	}
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return nil, fmt.Errorf("stage code is empty")
	}
	displayName := strings.TrimSpace(name)
	if displayName == "" {
		displayName = trimmed
	}

	var result entity.DbStage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&entity.DbStage{}).
			Where("is_active = ?", true).
			Update("is_active", false).Error; err != nil {
			return err
		}

		var stage entity.DbStage
		err := tx.Where("code = ?", trimmed).First(&stage).Error
		switch {
		case err == nil:
			if err := tx.Model(&stage).Updates(map[string]interface{}{
				"is_active": true,
				"name":      displayName,
			}).Error; err != nil {
				return err
			}
			stage.IsActive = true
			stage.Name = displayName
		case errors.Is(err, gorm.ErrRecordNotFound):
			stage = entity.DbStage{Code: trimmed, Name: displayName, IsActive: true}
			if err := tx.Create(&stage).Error; err != nil {
				return err
			}
		default:
			return err
		}

		result = stage
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}
