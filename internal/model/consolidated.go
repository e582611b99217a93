package model

import "time"

// ConsolidatedDataStore registro consolidado de sell-out. Los campos de
// origen (lo que reportó el distribuidor) son inmutables; los campos
// derivados son una foto del estado de maestros + catálogo al momento del
// enriquecimiento o de la última sincronización, no un join en vivo.
type ConsolidatedDataStore struct {
	ID int64 `gorm:"column:id;primaryKey;autoIncrement"`

	// Campos de origen del distribuidor.
	Distributor            *string    `gorm:"column:distributor;type:varchar(255)"`
	CodeProductDistributor *string    `gorm:"column:code_product_distributor;type:varchar(255)"`
	CodeStoreDistributor   *string    `gorm:"column:code_store_distributor;type:varchar(255)"`
	DescriptionDistributor *string    `gorm:"column:description_distributor;type:varchar(512)"`
	UnitsSoldDistributor   *int       `gorm:"column:units_sold_distributor;type:int"`
	SaleDate               *time.Time `gorm:"column:sale_date;type:date"`

	// Campos derivados, todos anulables: sin resolver es un estado válido.
	CodeProduct           *string `gorm:"column:code_product;type:varchar(64)"`
	CodeStore             *string `gorm:"column:code_store;type:varchar(64)"`
	ProductModel          *string `gorm:"column:product_model;type:varchar(255)"`
	StoreName             *string `gorm:"column:store_name;type:varchar(255)"`
	AuthorizedDistributor *string `gorm:"column:authorized_distributor;type:varchar(255)"`

	CalculateDate           *time.Time `gorm:"column:calculate_date;type:date;index"`
	Status                  *bool      `gorm:"column:status;type:boolean;default:true"`
	MatriculationTemplateID *int64     `gorm:"column:matriculation_template_id;type:bigint;index"`
	CreatedAt               time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (ConsolidatedDataStore) TableName() string { return "consolidated_data_stores" }
