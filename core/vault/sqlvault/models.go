package sqlvault

import "time"

// ItemRecord is a row of vault_items. Names use a binary collation so that
// "State:x" and "state:x" are distinct items.
type ItemRecord struct {
	ID           string    `gorm:"column:id;primaryKey;size:36"`
	Name         string    `gorm:"column:name;type:varchar(512) COLLATE utf8mb4_bin;uniqueIndex;not null"`
	Collection   string    `gorm:"column:collection;size:255;index"`
	Notes        string    `gorm:"column:notes;type:mediumtext"`
	RevisionDate time.Time `gorm:"column:revision_date;not null"`
}

func (ItemRecord) TableName() string {
	return "vault_items"
}

// CollectionRecord is a row of vault_collections.
type CollectionRecord struct {
	ID   string `gorm:"column:id;primaryKey;size:36"`
	Name string `gorm:"column:name;type:varchar(255) COLLATE utf8mb4_bin;uniqueIndex;not null"`
}

func (CollectionRecord) TableName() string {
	return "vault_collections"
}
