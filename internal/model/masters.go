package model

import "time"

// SelloutProductMaster maestro de productos de sell-out: relaciona el código
// de producto propio de un distribuidor con el código canónico SIC. La clave
// search_product_store es única por tabla; la constraint es el árbitro de
// conflictos ante escrituras concurrentes (no se usa ningún lock).
type SelloutProductMaster struct {
	ID                 int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Distributor        string    `gorm:"column:distributor;type:varchar(255);not null"`
	ProductDistributor string    `gorm:"column:product_distributor;type:varchar(255);not null"`
	ProductStore       string    `gorm:"column:product_store;type:varchar(255)"` // descripción libre del distribuidor
	CodeProductSic     *string   `gorm:"column:code_product_sic;type:varchar(64)"`
	SearchProductStore string    `gorm:"column:search_product_store;type:varchar(512);uniqueIndex:unique_search_product_store;not null"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SelloutProductMaster) TableName() string { return "sellout_product_master" }

// SelloutStoreMaster maestro de almacenes de sell-out: relaciona el código de
// almacén propio de un distribuidor con el código canónico SIC.
type SelloutStoreMaster struct {
	ID               int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Distributor      string    `gorm:"column:distributor;type:varchar(255);not null"`
	StoreDistributor string    `gorm:"column:store_distributor;type:varchar(255);not null"`
	CodeStoreSic     *string   `gorm:"column:code_store_sic;type:varchar(64)"`
	SearchStore      string    `gorm:"column:search_store;type:varchar(512);uniqueIndex:unique_search_store;not null"`
	CreatedAt        time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (SelloutStoreMaster) TableName() string { return "sellout_store_master" }
