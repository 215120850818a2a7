// internal/storage/open.go

package storage

import (
	"context"
	"fmt"
	"strings"
)

// Options 選擇並設定快照後端。
type Options struct {
	Backend         string // json / sqlite / mongo
	Path            string // json 檔路徑或 sqlite DSN
	MongoURI        string
	MongoDatabase   string
	MongoCollection string
}

// Open 依 Options.Backend 建立對應的 Store。
func Open(ctx context.Context, o Options) (Store, error) {
	switch strings.ToLower(o.Backend) {
	case "", "json":
		return NewJSONStore(o.Path), nil
	case "sqlite", "sql":
		return NewSQLStore(o.Path)
	case "mongo", "mongodb":
		return NewMongoStore(ctx, o.MongoURI, o.MongoDatabase, o.MongoCollection)
	}
	return nil, fmt.Errorf("unknown storage backend %q", o.Backend)
}
