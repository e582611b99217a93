package model

import (
	"time"

	"gorm.io/datatypes"
)

// MatriculationTemplate plantilla de matriculación: identifica la carga
// (distribuidor + almacén) a la que pertenecen los consolidados.
type MatriculationTemplate struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string    `gorm:"column:name;type:varchar(255);not null"`
	Distributor *string   `gorm:"column:distributor;type:varchar(255)"`
	StoreName   *string   `gorm:"column:store_name;type:varchar(255)"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (MatriculationTemplate) TableName() string { return "matriculation_templates" }

// MatriculationLog bitácora de cargas por plantilla y período.
type MatriculationLog struct {
	ID              int64     `gorm:"column:id;primaryKey;autoIncrement"`
	MatriculationID int64     `gorm:"column:matriculation_id;type:bigint;index;not null"`
	CalculateDate   time.Time `gorm:"column:calculate_date;type:date;index;not null"`
	RowsCount       int       `gorm:"column:rows_count;type:int;default:0"`
	ProductCount    int       `gorm:"column:product_count;type:int;default:0"`
	UploadTotal     int       `gorm:"column:upload_total;type:int;default:1"`
	UploadCount     int       `gorm:"column:upload_count;type:int;default:1"`
	Distributor     *string   `gorm:"column:distributor;type:varchar(255)"`
	StoreName       *string   `gorm:"column:store_name;type:varchar(255)"`
	CreatedAt       time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (MatriculationLog) TableName() string { return "matriculation_logs" }

// ExtractedDataSellout payload crudo recibido del extractor, con el detalle
// del procesamiento en jsonb.
type ExtractedDataSellout struct {
	ID                int64          `gorm:"column:id;primaryKey;autoIncrement"`
	DataContent       datatypes.JSON `gorm:"column:data_content;type:jsonb;not null"`
	DataName          string         `gorm:"column:data_name;type:varchar(128)"` // nombre del bloque de datos
	RecordCount       int            `gorm:"column:record_count;type:int;default:0"`
	IsProcessed       bool           `gorm:"column:is_processed;type:boolean;default:false"`
	ProcessedDate     *time.Time     `gorm:"column:processed_date;type:timestamp"`
	ProcessingDetails datatypes.JSON `gorm:"column:processing_details;type:jsonb"`
	CalculateDate     *time.Time     `gorm:"column:calculate_date;type:date"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

func (ExtractedDataSellout) TableName() string { return "extracted_data_sellout" }

// ExtractionLogSellout resumen persistido de una corrida de procesamiento.
type ExtractionLogSellout struct {
	ID               int64          `gorm:"column:id;primaryKey;autoIncrement"`
	RunID            string         `gorm:"column:run_id;type:varchar(64);index"`
	StartTime        time.Time      `gorm:"column:start_time;type:timestamp;not null"`
	EndTime          time.Time      `gorm:"column:end_time;type:timestamp;not null"`
	Status           string         `gorm:"column:status;type:varchar(16);not null"` // SUCCESS / FAILURE
	RecordsExtracted int            `gorm:"column:records_extracted;type:int;default:0"`
	RecordsProcessed int            `gorm:"column:records_processed;type:int;default:0"`
	RecordsFailed    int            `gorm:"column:records_failed;type:int;default:0"`
	ErrorMessage     *string        `gorm:"column:error_message;type:text"`
	ExecutionDetails datatypes.JSON `gorm:"column:execution_details;type:jsonb"`
	CreatedAt        time.Time      `gorm:"column:created_at;autoCreateTime"`
}

func (ExtractionLogSellout) TableName() string { return "extraction_logs_sellout" }
