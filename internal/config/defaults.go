package config

import (
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

var defaults = map[string]interface{}{
	"log.level":        "info",
	"log.format":       "console",
	"log.output_paths": []string{"stderr"},

	"dataset.source":              "",
	"dataset.path":                filepath.Join("data", "zip_code_demographics.xlsx"),
	"dataset.sheet":               "",
	"dataset.delimiter":           "",
	"dataset.table":               "AREA_INDICATORS",
	"dataset.require_coordinates": true,

	"database.driver":          DriverOracle,
	"database.dsn":             "",
	"database.host":            "localhost",
	"database.port":            "1521",
	"database.service":         "XE",
	"database.username":        "",
	"database.password":        "",
	"database.wallet_location": "",

	"scoring.min_agi": 1000.0,
	"scoring.max_agi": 1000000.0,

	"boundaries.path": "",

	"server.addr":            ":8080",
	"server.cors_origins":    []string{"http://localhost:3000"},
	"server.request_timeout": 30 * time.Second,

	"watchlist.path": filepath.Join("data", "watchlist.txt"),
}

func setDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}
