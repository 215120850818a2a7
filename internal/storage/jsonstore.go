// internal/storage/jsonstore.go
//
// JSON 快照檔的讀寫。寫入採原子策略：先寫入同目錄的暫存檔並 fsync，再以 rename() 取代原檔，
// 寫到一半失敗時原檔維持上一版內容。
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// BackendJSON 為 JSON 檔後端寫入 Meta.Storage 的名稱。
const BackendJSON = "json_snapshot"

// LoadSnapshot 讀取指定路徑的 JSON 快照。檔案不存在時回傳 ErrNoSnapshot。
func LoadSnapshot(path string) (Snapshot, error) {
	var snap Snapshot
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, ErrNoSnapshot
	}
	if err != nil {
		return snap, err
	}
	defer f.Close()
	if err := json.NewDecoder(f).Decode(&snap); err != nil {
		return Snapshot{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return snap, nil
}

// SaveSnapshot 將快照以縮排 JSON 原子寫入 path。
// Meta.Storage 固定為 BackendJSON；Timestamp 為零值時填入目前時間。
// 暫存檔名每次不同，同一路徑的併發寫入不會互相截斷。
func SaveSnapshot(path string, snap Snapshot) error {
	snap.Meta.Storage = BackendJSON
	if snap.Meta.Timestamp.IsZero() {
		snap.Meta.Timestamp = time.Now().UTC()
	}
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	f, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmp := f.Name()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	// CreateTemp 建立的檔案權限為 0600
	if err := os.Chmod(tmp, 0o644); err != nil {
		os.Remove(tmp)
		return err
	}

	// 原子替換
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// JSONStore 以單一 JSON 檔實作 Store。mu 讓同一個 store 的存取依序進行。
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore 建立指向 path 的 JSON 後端；檔案在第一次 Save 時才建立。
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Path() string { return s.path }

func (s *JSONStore) Save(ctx context.Context, snap Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return SaveSnapshot(s.path, snap)
}

func (s *JSONStore) Load(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return LoadSnapshot(s.path)
}

func (s *JSONStore) Close() error { return nil }
