// internal/storage/model.go
//
// 定義持久化層的快照結構。
// 快照是整個 Bank 的完整狀態（所有帳戶與其交易歷史），一次寫入、一次讀回，
// 不提供部分儲存或部分載入。金額與日期一律以字串保存，避免浮點誤差與時區問題。
package storage

import "time"

// SchemaVersion 為目前的快照結構版本。
const SchemaVersion = 2

// Meta 為快照的中繼資料。
type Meta struct {
	Storage    string    `json:"storage" bson:"storage"`                   // 儲存後端，例如 "json_snapshot"
	Version    int       `json:"version" bson:"version"`                   // 結構版本號
	Timestamp  time.Time `json:"timestamp" bson:"timestamp"`               // 快照建立時間
	SnapshotID string    `json:"snapshot_id,omitempty" bson:"snapshot_id"` // 每次儲存產生的 UUID
	Note       string    `json:"note,omitempty" bson:"note,omitempty"`     // 備註
}

// PersistTransaction 為單筆交易的序列化格式。
type PersistTransaction struct {
	Amount string `json:"amount" bson:"amount"` // 帶號金額，例如 "-5.44"
	Date   string `json:"date" bson:"date"`     // YYYY-MM-DD
	Kind   string `json:"kind" bson:"kind"`     // normal / interest / fee
}

// PersistChecking 為 Checking 帳戶的結算旗標。月份格式為 YYYY-MM，空字串代表尚未結算過。
type PersistChecking struct {
	InterestApplied bool   `json:"interest_applied" bson:"interest_applied"`
	FeesApplied     bool   `json:"fees_applied" bson:"fees_applied"`
	LastInterest    string `json:"last_interest,omitempty" bson:"last_interest,omitempty"`
	LastFees        string `json:"last_fees,omitempty" bson:"last_fees,omitempty"`
}

// PersistAccount 為帳戶在儲存層的序列化格式。
// Balance 僅供人工檢視與還原時的一致性檢查，實際餘額由交易歷史推導。
type PersistAccount struct {
	ID           string               `json:"id" bson:"id"`
	Type         string               `json:"type" bson:"type"`
	Balance      string               `json:"balance" bson:"balance"`
	Transactions []PersistTransaction `json:"transactions" bson:"transactions"`
	Checking     *PersistChecking     `json:"checking,omitempty" bson:"checking,omitempty"`
}

// Snapshot 為 Bank 狀態的完整快照。
type Snapshot struct {
	Meta     Meta             `json:"_meta" bson:"meta"`
	NextID   int64            `json:"next_id" bson:"next_id"`
	Accounts []PersistAccount `json:"accounts" bson:"accounts"`
}
