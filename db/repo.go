package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"biblioteca_portal/models"
)

// ActivityRecorder 审计日志；未配置数据库时用 NopActivity
type ActivityRecorder interface {
	Record(ctx context.Context, e *models.ActivityEntry) error
	Recent(ctx context.Context, usuarioID, limit int) ([]models.ActivityEntry, error)
}

type Repo struct{ DB *gorm.DB }

func NewRepo(db *gorm.DB) *Repo { return &Repo{DB: db} }

func (r *Repo) Record(ctx context.Context, e *models.ActivityEntry) error {
	if err := r.DB.WithContext(ctx).Create(e).Error; err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// Recent 最新的在前，limit 超出范围时取 10
func (r *Repo) Recent(ctx context.Context, usuarioID, limit int) ([]models.ActivityEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var out []models.ActivityEntry
	if err := r.DB.WithContext(ctx).
		Where("usuario_id = ?", usuarioID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// NopActivity 什么都不记
type NopActivity struct{}

func (NopActivity) Record(context.Context, *models.ActivityEntry) error { return nil }

func (NopActivity) Recent(context.Context, int, int) ([]models.ActivityEntry, error) {
	return nil, nil
}
