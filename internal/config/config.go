// internal/config/config.go
//
// 執行設定。來源依優先序：命令列旗標（由 cmd/* 覆寫）> 環境變數 > .env 檔 > 預設值。
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"bankapp/internal/storage"
)

// Config 為 CLI 與 HTTP 伺服器共用的設定。
type Config struct {
	Addr     string // HTTP 監聽位址
	LogFile  string // CLI 的操作日誌檔；空字串代表 stderr
	LogLevel string // debug / info / warn / error
	AutoLoad bool   // 啟動時是否自動載入最後一次快照
	Storage  storage.Options
}

// Default 回傳預設設定：JSON 檔後端、bank.log、:8080。
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogFile:  "bank.log",
		LogLevel: "debug",
		AutoLoad: true,
		Storage: storage.Options{
			Backend:         "json",
			MongoURI:        "mongodb://localhost:27017",
			MongoDatabase:   storage.DefaultMongoDatabase,
			MongoCollection: storage.DefaultMongoCollection,
		},
	}
}

// Load 讀取 .env（不存在時略過）後再套用環境變數。
// 已存在的環境變數不會被 .env 覆寫。
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv 以 lookup 讀取 BANK_* 變數覆寫預設值。
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	c := Default()
	get := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	get("BANK_ADDR", &c.Addr)
	get("BANK_LOG_FILE", &c.LogFile)
	get("BANK_LOG_LEVEL", &c.LogLevel)
	get("BANK_STORAGE", &c.Storage.Backend)
	get("BANK_DATA", &c.Storage.Path)
	get("BANK_MONGO_URI", &c.Storage.MongoURI)
	get("BANK_MONGO_DATABASE", &c.Storage.MongoDatabase)
	get("BANK_MONGO_COLLECTION", &c.Storage.MongoCollection)

	if v, ok := lookup("BANK_AUTOLOAD"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("BANK_AUTOLOAD: %w", err)
		}
		c.AutoLoad = b
	}
	if c.LogFile == "-" {
		c.LogFile = ""
	}
	c.Storage.Backend = strings.ToLower(c.Storage.Backend)
	if c.Storage.Path == "" {
		c.Storage.Path = DefaultDataPath(c.Storage.Backend)
	}
	return c, nil
}

// DefaultDataPath 回傳後端的預設檔案位置。
func DefaultDataPath(backend string) string {
	switch backend {
	case "sqlite", "sql":
		return "bank.db"
	default:
		return "bank.json"
	}
}
