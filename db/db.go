package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"biblioteca_portal/models"
)

// ConnectDB 打开 Postgres 并迁移审计表
func ConnectDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.ActivityEntry{}); err != nil {
		return err
	}

	// 仪表盘按用户取最近记录
	return db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_usuario_created_desc
	  ON %s (usuario_id, created_at DESC);
	`, models.ActivityTable, models.ActivityTable)).Error
}
