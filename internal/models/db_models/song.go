package db_models

// Song is a purchasable track. FilePath is the object key inside the storage bucket.
type Song struct {
	BaseModel
	Title      string `gorm:"not null"`
	Artist     string `gorm:"not null"`
	FilePath   string `gorm:"not null"`
	PriceMinor int64
	Currency   string `gorm:"size:3"`
}
