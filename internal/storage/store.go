// internal/storage/store.go
//
// Store 抽象出快照的存取後端。三種實作（JSON 檔、SQLite、MongoDB）語意一致：
// Save 以新快照整批取代舊快照；Load 讀回最後一次成功儲存的快照，尚未儲存過時回傳 ErrNoSnapshot。
package storage

import (
	"context"
	"errors"
)

// ErrNoSnapshot 代表後端尚未有任何快照。
var ErrNoSnapshot = errors.New("no snapshot stored")

// Store 為快照的存取介面。
type Store interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
	Close() error
}
