package initial

import (
	"log"
	"os"
	"path/filepath"
	"time"

	"MindLink/internal/config"
	contentEntity "MindLink/internal/modules/content/domain/entity"
	"MindLink/pkg/zlog"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func init() {
	conf := config.GetConfig()
	dbPath := conf.ContentConfig.DBPath

	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			zlog.Fatal(err.Error())
		}
	}

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	GormDB, err = gorm.Open(sqlite.Open(dbPath), &gorm.Config{Logger: gormLogger})
	if err != nil {
		zlog.Fatal(err.Error())
	}

	// 自动迁移，如果没有建表，会自动创建对应的表
	err = GormDB.AutoMigrate(
		&contentEntity.ContentItem{},
	)
	if err != nil {
		zlog.Fatal(err.Error())
	}
}
