// internal/storage/sqlstore.go
//
// SQLite 後端（gorm + 純 Go 的 glebarez/sqlite 驅動，不需 cgo）。
// 快照攤平成三張表：snapshots（單列中繼資料）、accounts、transactions。
// Save 在同一個 DB 交易內清空三張表再寫入，讀者不會看到半套快照。
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// BackendSQLite 為 SQLite 後端寫入 Meta.Storage 的名稱。
const BackendSQLite = "sqlite"

type snapshotRow struct {
	ID         uint `gorm:"primaryKey"`
	SnapshotID string
	Version    int
	Timestamp  time.Time
	Note       string
	NextID     int64
}

func (snapshotRow) TableName() string { return "snapshots" }

type accountRow struct {
	ID              string `gorm:"primaryKey"`
	Position        int
	Type            string
	Balance         string
	Checking        bool
	InterestApplied bool
	FeesApplied     bool
	LastInterest    string
	LastFees        string
}

func (accountRow) TableName() string { return "accounts" }

type transactionRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	AccountID string `gorm:"index"`
	Seq       int
	Amount    string
	Date      string
	Kind      string
}

func (transactionRow) TableName() string { return "transactions" }

// SQLStore 以 gorm 實作 Store。
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore 開啟（或建立）dsn 指向的 SQLite 資料庫並建立資料表。
// dsn 可為檔案路徑或 ":memory:"。
func NewSQLStore(dsn string) (*SQLStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	return NewSQLStoreWithDB(db)
}

// NewSQLStoreWithDB 使用既有的 gorm 連線。
func NewSQLStoreWithDB(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&snapshotRow{}, &accountRow{}, &transactionRow{}); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Save(ctx context.Context, snap Snapshot) error {
	meta := snapshotRow{
		ID:         1,
		SnapshotID: snap.Meta.SnapshotID,
		Version:    snap.Meta.Version,
		Timestamp:  snap.Meta.Timestamp,
		Note:       snap.Meta.Note,
		NextID:     snap.NextID,
	}
	if meta.Timestamp.IsZero() {
		meta.Timestamp = time.Now().UTC()
	}

	var accounts []accountRow
	var txs []transactionRow
	for i, pa := range snap.Accounts {
		row := accountRow{ID: pa.ID, Position: i, Type: pa.Type, Balance: pa.Balance}
		if pa.Checking != nil {
			row.Checking = true
			row.InterestApplied = pa.Checking.InterestApplied
			row.FeesApplied = pa.Checking.FeesApplied
			row.LastInterest = pa.Checking.LastInterest
			row.LastFees = pa.Checking.LastFees
		}
		accounts = append(accounts, row)
		for j, pt := range pa.Transactions {
			txs = append(txs, transactionRow{AccountID: pa.ID, Seq: j, Amount: pt.Amount, Date: pt.Date, Kind: pt.Kind})
		}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		if err := all.Delete(&transactionRow{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&accountRow{}).Error; err != nil {
			return err
		}
		if err := all.Delete(&snapshotRow{}).Error; err != nil {
			return err
		}
		if err := tx.Create(&meta).Error; err != nil {
			return err
		}
		if len(accounts) > 0 {
			if err := tx.Create(&accounts).Error; err != nil {
				return err
			}
		}
		if len(txs) > 0 {
			if err := tx.CreateInBatches(&txs, 500).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLStore) Load(ctx context.Context) (Snapshot, error) {
	db := s.db.WithContext(ctx)

	var meta snapshotRow
	if err := db.First(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, err
	}
	var accounts []accountRow
	if err := db.Order("position").Find(&accounts).Error; err != nil {
		return Snapshot{}, err
	}
	var txs []transactionRow
	if err := db.Order("account_id").Order("seq").Find(&txs).Error; err != nil {
		return Snapshot{}, err
	}

	byAccount := make(map[string][]PersistTransaction, len(accounts))
	for _, t := range txs {
		byAccount[t.AccountID] = append(byAccount[t.AccountID], PersistTransaction{Amount: t.Amount, Date: t.Date, Kind: t.Kind})
	}

	snap := Snapshot{
		Meta: Meta{
			Storage:    BackendSQLite,
			Version:    meta.Version,
			Timestamp:  meta.Timestamp,
			SnapshotID: meta.SnapshotID,
			Note:       meta.Note,
		},
		NextID:   meta.NextID,
		Accounts: make([]PersistAccount, 0, len(accounts)),
	}
	for _, a := range accounts {
		pa := PersistAccount{ID: a.ID, Type: a.Type, Balance: a.Balance, Transactions: byAccount[a.ID]}
		if pa.Transactions == nil {
			pa.Transactions = []PersistTransaction{}
		}
		if a.Checking {
			pa.Checking = &PersistChecking{
				InterestApplied: a.InterestApplied,
				FeesApplied:     a.FeesApplied,
				LastInterest:    a.LastInterest,
				LastFees:        a.LastFees,
			}
		}
		snap.Accounts = append(snap.Accounts, pa)
	}
	return snap, nil
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
