// Package dbtest はテスト用のsqlite DBを用意する。
package dbtest

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"darkitchen/internal/infra/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open はマイグレーション済みの空DBを返す。テストごとに別DB。
// in-memoryなので接続は1本（複数接続だと別々のDBに見える場合がある）
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	return open(t, dsn, 1)
}

// OpenFile はファイル上のDBを複数接続で開く。
// 同時実行のテスト用（WAL + busy_timeoutで書き込みは待ち合わせる）
func OpenFile(t *testing.T, conns int) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	dsn := fmt.Sprintf("file:%s?_fk=1&_journal_mode=WAL&_busy_timeout=5000", path)
	return open(t, dsn, conns)
}

func open(t *testing.T, dsn string, conns int) *gorm.DB {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(dsn), db.GormConfig(nil))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(conns)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.Migrate(gormDB); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return gormDB
}
