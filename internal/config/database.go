package config

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DB is the shared database handle opened by InitDB.
var DB *gorm.DB

// OpenDB opens a gorm connection for the given driver ("mysql" or "postgres").
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	return gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
}

// InitDB connects to the configured database and stores the handle in DB.
func InitDB(s *Settings) *gorm.DB {
	var err error
	DB, err = OpenDB(s.DBDriver, s.DBDSN)
	if err != nil {
		Logger.Fatal("Error connecting to the database", zap.String("driver", s.DBDriver), zap.Error(err))
	}
	Logger.Info("Database connected", zap.String("driver", s.DBDriver))
	return DB
}
