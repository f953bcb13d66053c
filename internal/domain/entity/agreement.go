package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Agreement is a generated supply agreement for one seller. It is not stored;
// only its AgreementRecord is.
type Agreement struct {
	Seller       string
	Entries      []CartEntry
	Total        decimal.Decimal
	Label        string
	HTML         string
	PDF          []byte
	FileName     string
	SkippedSteps []string
	GeneratedAt  time.Time
}

type AgreementRecord struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	SessionID   string    `bson:"session_id" json:"session_id"`
	Seller      string    `bson:"seller" json:"seller"`
	ItemCount   int       `bson:"item_count" json:"item_count"`
	ItemIDs     []string  `bson:"item_ids" json:"item_ids"`
	TotalAED    string    `bson:"total_aed" json:"total_aed"`
	FileName    string    `bson:"file_name" json:"file_name"`
	ArchiveURL  string    `bson:"archive_url,omitempty" json:"archive_url,omitempty"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}
