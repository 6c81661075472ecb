package repo

import (
	"fmt"
	"log"

	"github.com/niqqow96/Backend-PKROnchain/internal/config"
	"github.com/niqqow96/Backend-PKROnchain/internal/model"
	"github.com/niqqow96/Backend-PKROnchain/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func dialector(conf config.DatabaseConfig) (gorm.Dialector, error) {
	switch conf.Driver {
	case "", "postgres":
		return postgres.Open(conf.DSN), nil
	case "mysql":
		return mysql.Open(conf.DSN), nil
	case "sqlite":
		return sqlite.Open(conf.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", conf.Driver)
	}
}

func InitDB() {
	conf := config.GlobalConfig.Database
	d, err := dialector(conf)
	if err != nil {
		logger.Log.Fatal("Invalid database config", zap.Error(err))
	}

	DB, err = gorm.Open(d, &gorm.Config{})
	if err != nil {
		logger.Log.Fatal("Failed to connect to database",
			zap.String("driver", conf.Driver),
			zap.Error(err),
		)
	}
	if conf.Driver == "sqlite" {
		// sqlite allows one writer; serialize through a single connection.
		if sqlDB, err := DB.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := DB.AutoMigrate(model.All()...); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
}
