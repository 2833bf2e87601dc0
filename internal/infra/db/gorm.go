package db

import (
	"time"

	"darkitchen/internal/config"
	"darkitchen/internal/domain/model"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Connect はDBに接続して *gorm.DB を返す。
// SQLログはlogrus経由で出す
func Connect(cfg config.Config, log *logrus.Logger) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(cfg.DSN()), GormConfig(log))
}

// GormConfigは共通のgorm設定（テストのsqliteでも使う）
func GormConfig(log *logrus.Logger) *gorm.Config {
	gc := &gorm.Config{
		//一意制約違反などを gorm.ErrDuplicatedKey に変換
		TranslateError: true,
	}
	if log != nil {
		gc.Logger = gormlogger.New(log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormLogLevel(log.GetLevel()),
			IgnoreRecordNotFoundError: true,
		})
	}
	return gc
}

func gormLogLevel(l logrus.Level) gormlogger.LogLevel {
	switch {
	case l >= logrus.DebugLevel:
		return gormlogger.Info
	case l >= logrus.WarnLevel:
		return gormlogger.Warn
	default:
		return gormlogger.Error
	}
}

// Migrateはテーブルを作る（AutoMigrate）
func Migrate(gormDB *gorm.DB) error {
	return gormDB.AutoMigrate(
		&model.Category{},
		&model.Dish{},
		&model.Client{},
		&model.Order{},
		&model.OrderItem{},
		&model.AuditLog{},
	)
}
