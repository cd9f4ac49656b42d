package database

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"recipe-api/internal/domain"
)

func TestNewGorm_UnsupportedDriver(t *testing.T) {
	_, err := NewGorm(Opts{Driver: "oracle", DSN: "x"})
	require.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestNewGorm_SQLiteMigrate(t *testing.T) {
	core, _ := observer.New(zapcore.DebugLevel)
	db, err := NewGorm(Opts{
		Driver:       "sqlite",
		DSN:          filepath.Join(t.TempDir(), "app.db"),
		MaxOpenConns: 8,
		LogLevel:     "warn",
		Logger:       zap.New(core),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, Migrate(db))
	for _, table := range []string{"users", "recipes", "user_recipes"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}

	sqlDB, err := db.DB()
	require.NoError(t, err)
	assert.Equal(t, 1, sqlDB.Stats().MaxOpenConnections, "sqlite is pinned to one connection")

	u := domain.User{Email: "a@x.com", Password: "h", Role: domain.RoleUser}
	require.NoError(t, db.Create(&u).Error)
	err = db.Create(&domain.User{Email: "a@x.com", Password: "h", Role: domain.RoleUser}).Error
	assert.Error(t, err)
}

func TestMaskDSN(t *testing.T) {
	assert.Equal(t, "root:****@tcp(localhost:3306)/recipes", maskDSN("root:secret@tcp(localhost:3306)/recipes"))
	assert.Equal(t, "recipes.db", maskDSN("recipes.db"))
}

func TestNormalizeMySQLDSN(t *testing.T) {
	cases := []struct {
		name       string
		in         string
		user, pass string
		want       string
	}{
		{
			name: "driver dsn untouched",
			in:   "root:pw@tcp(db:3306)/recipes?parseTime=true",
			want: "root:pw@tcp(db:3306)/recipes?parseTime=true",
		},
		{
			name: "url form",
			in:   "mysql://root:pw@db:3306/recipes",
			want: "root:pw@tcp(db:3306)/recipes?charset=utf8mb4&parseTime=true",
		},
		{
			name: "jdbc params",
			in:   "jdbc:mysql://db:3306/recipes?useSSL=false&serverTimezone=UTC&characterEncoding=utf8",
			user: "app",
			pass: "s3cret",
			want: "app:s3cret@tcp(db:3306)/recipes?charset=utf8&loc=UTC&parseTime=true&tls=false",
		},
		{
			name: "credentials in query",
			in:   "mysql://db:3306/recipes?user=u&password=p",
			want: "u:p@tcp(db:3306)/recipes?charset=utf8mb4&parseTime=true",
		},
		{name: "empty", in: "  ", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, normalizeMySQLDSN(tc.in, tc.user, tc.pass))
		})
	}
}

func TestZapGormLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := zapGormLogger{zap: zap.New(core), level: gormlogger.Warn}
	ctx := context.Background()
	sql := func() (string, int64) { return "SELECT 1", 1 }

	l.Trace(ctx, time.Now(), sql, nil)
	assert.Zero(t, logs.Len(), "fast query below info level")

	l.Trace(ctx, time.Now().Add(-time.Second), sql, nil)
	assert.Equal(t, 1, logs.FilterMessage("gorm slow query").Len())

	l.Trace(ctx, time.Now(), sql, gorm.ErrRecordNotFound)
	assert.Zero(t, logs.FilterMessage("gorm query error").Len(), "not found is not an error")

	l.Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 1, logs.FilterMessage("gorm query error").Len())

	l.Info(ctx, "hidden %d", 1)
	assert.Zero(t, logs.FilterMessage("hidden 1").Len())

	silent := l.LogMode(gormlogger.Silent)
	silent.Trace(ctx, time.Now(), sql, errors.New("boom"))
	assert.Equal(t, 1, logs.FilterMessage("gorm query error").Len())
}
