package entity

import "time"

// 维修业务的只读视图，通知模块只用来拼装 data

type Customer struct {
	Id        int64     `gorm:"column:id;primaryKey;autoIncrement"`
	FullName  string    `gorm:"column:full_name;type:varchar(128);not null"`
	Phone     string    `gorm:"column:phone;type:varchar(32)"`
	Email     string    `gorm:"column:email;type:varchar(255)"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (Customer) TableName() string { return "customers" }

type DeviceType struct {
	Id   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(64);not null"`
}

func (DeviceType) TableName() string { return "device_types" }

type Brand struct {
	Id   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(64);not null"`
}

func (Brand) TableName() string { return "brands" }

type DeviceModel struct {
	Id      int64  `gorm:"column:id;primaryKey;autoIncrement"`
	BrandId int64  `gorm:"column:brand_id;index"`
	Name    string `gorm:"column:name;type:varchar(64);not null"`
}

func (DeviceModel) TableName() string { return "device_models" }

type ServiceType struct {
	Id   int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name string `gorm:"column:name;type:varchar(64);not null"`
}

func (ServiceType) TableName() string { return "service_types" }

// Device 送修设备
type Device struct {
	Id                 int64     `gorm:"column:id;primaryKey;autoIncrement"`
	TicketNumber       string    `gorm:"column:ticket_number;type:varchar(32);uniqueIndex"`
	CustomerId         int64     `gorm:"column:customer_id;index"`
	DeviceTypeId       *int64    `gorm:"column:device_type_id"`
	BrandId            *int64    `gorm:"column:brand_id"`
	ModelId            *int64    `gorm:"column:model_id"`
	ServiceTypeId      *int64    `gorm:"column:service_type_id"`
	SerialNumber       string    `gorm:"column:serial_number;type:varchar(64)"`
	ProblemDescription string    `gorm:"column:problem_description;type:text"`
	Status             string    `gorm:"column:status;type:varchar(32);index"`
	AssignedTo         string    `gorm:"column:assigned_to;type:char(36);index"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (Device) TableName() string { return "devices" }

type InventoryItem struct {
	Id           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Name         string    `gorm:"column:name;type:varchar(128);not null"`
	Sku          string    `gorm:"column:sku;type:varchar(64);index"`
	Category     string    `gorm:"column:category;type:varchar(64)"`
	Quantity     int       `gorm:"column:quantity"`
	ReorderLevel int       `gorm:"column:reorder_level"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (InventoryItem) TableName() string { return "inventory_items" }

type CustomerFeedback struct {
	Id         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	CustomerId int64     `gorm:"column:customer_id;index"`
	DeviceId   *int64    `gorm:"column:device_id"`
	Rating     int       `gorm:"column:rating"`
	Comment    string    `gorm:"column:comment;type:text"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (CustomerFeedback) TableName() string { return "customer_feedback" }

// DeviceDetail 设备及其关联信息（左连接，关联缺失时为空串）
type DeviceDetail struct {
	DeviceId      int64
	TicketNumber  string
	SerialNumber  string
	Status        string
	AssignedTo    string
	CustomerId    int64
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	DeviceType    string
	Brand         string
	Model         string
	ServiceType   string
}

// FeedbackDetail 客户评价及关联客户、设备
type FeedbackDetail struct {
	FeedbackId   int64
	Rating       int
	Comment      string
	CustomerId   int64
	CustomerName string
	DeviceId     *int64
	TicketNumber string
}
