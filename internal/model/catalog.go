package model

import "time"

// ProductSic catálogo canónico de productos (solo lectura para este
// servicio; lo alimenta el ETL de maestros corporativos).
type ProductSic struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	IDProductSic int64     `gorm:"column:id_product_sic;type:bigint;index"`
	JdeCode      string    `gorm:"column:jde_code;type:varchar(64);uniqueIndex;not null"`
	JdeName      string    `gorm:"column:jde_name;type:varchar(255);not null"` // modelo visible del producto
	ImeName      *string   `gorm:"column:ime_name;type:varchar(255)"`
	SapCode      *string   `gorm:"column:sap_code;type:varchar(64)"`
	SapName      *string   `gorm:"column:sap_name;type:varchar(255)"`
	CompanyLine  string    `gorm:"column:company_line;type:varchar(128)"`
	Category     string    `gorm:"column:category;type:varchar(128)"`
	SubCategory  string    `gorm:"column:sub_category;type:varchar(128)"`
	MarModelLm   string    `gorm:"column:mar_model_lm;type:varchar(128)"`
	DesignLine   string    `gorm:"column:design_line;type:varchar(128)"`
	Brand        string    `gorm:"column:brand;type:varchar(128)"`
	Equivalent   string    `gorm:"column:equivalent;type:varchar(128)"`
	Discontinued bool      `gorm:"column:discontinued;type:boolean;default:false"`
	Status       bool      `gorm:"column:status;type:boolean;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductSic) TableName() string { return "products_sic" }

// StoreSic catálogo canónico de almacenes (solo lectura). distributor2 es el
// distribuidor autorizado que se copia al consolidado.
type StoreSic struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	StoreCode    int64     `gorm:"column:store_code;type:bigint;uniqueIndex;not null"`
	StoreName    string    `gorm:"column:store_name;type:varchar(255);not null"`
	Distributor  *string   `gorm:"column:distributor;type:varchar(255)"`
	Distributor2 *string   `gorm:"column:distributor2;type:varchar(255)"` // distribuidor autorizado
	Channel      *string   `gorm:"column:channel;type:varchar(128)"`
	City         *string   `gorm:"column:city;type:varchar(128)"`
	Region       *string   `gorm:"column:region;type:varchar(128)"`
	Status       bool      `gorm:"column:status;type:boolean;default:true"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (StoreSic) TableName() string { return "stores_sic" }
