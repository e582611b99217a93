package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config configuración global (espeja config.yaml).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`   // servidor HTTP
	Postgres PostgresConfig `mapstructure:"postgres"` // base de datos
	Sync     SyncConfig     `mapstructure:"sync"`     // sincronización y lotes
}

// ServerConfig configuración del servidor HTTP.
type ServerConfig struct {
	Port int    `mapstructure:"port"` // puerto de escucha
	Mode string `mapstructure:"mode"` // modo de Gin: debug/release/test
}

// PostgresConfig configuración de la base de datos.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`               // DSN de conexión
	MaxOpenConns    int           `mapstructure:"max_open_conns"`    // conexiones abiertas máximas
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`    // conexiones inactivas máximas
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"` // vida máxima de una conexión
}

// SyncConfig tamaños de lote y pausas de la sincronización.
type SyncConfig struct {
	BatchSize          int           `mapstructure:"batch_size"`           // candidatos por bloque del backfill
	Pause              time.Duration `mapstructure:"pause"`                // pausa entre bloques
	MasterChunkStores  int           `mapstructure:"master_chunk_stores"`  // almacenes por bloque de importación
	MasterChunkProduct int           `mapstructure:"master_chunk_product"` // productos por bloque de importación
	PropagateBatchSize int           `mapstructure:"propagate_batch_size"` // maestros por bloque de propagación
}

// LoadConfig carga config/config.yaml; los valores sensibles se sobreescriben
// desde .env (que no se versiona).
func LoadConfig() (*Config, error) {
	// .env primero, si existe; sus valores pisan los del yaml.
	_ = godotenv.Load()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("no se pudo leer la configuración: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("no se pudo interpretar la configuración: %w", err)
	}

	overrideFromEnv(&cfg)
	applyDefaults(&cfg)
	return &cfg, nil
}

// overrideFromEnv sobreescribe los campos sensibles con variables de entorno.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("GIN_MODE"); v != "" {
		cfg.Server.Mode = v
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "release"
	}
	if cfg.Postgres.MaxOpenConns == 0 {
		cfg.Postgres.MaxOpenConns = 20
	}
	if cfg.Postgres.MaxIdleConns == 0 {
		cfg.Postgres.MaxIdleConns = 5
	}
	if cfg.Postgres.ConnMaxLifetime == 0 {
		cfg.Postgres.ConnMaxLifetime = time.Hour
	}
	if cfg.Sync.BatchSize == 0 {
		cfg.Sync.BatchSize = 100
	}
	if cfg.Sync.Pause == 0 {
		cfg.Sync.Pause = 100 * time.Millisecond
	}
	if cfg.Sync.MasterChunkStores == 0 {
		cfg.Sync.MasterChunkStores = 1000
	}
	if cfg.Sync.MasterChunkProduct == 0 {
		cfg.Sync.MasterChunkProduct = 2000
	}
	if cfg.Sync.PropagateBatchSize == 0 {
		cfg.Sync.PropagateBatchSize = 50
	}
}
