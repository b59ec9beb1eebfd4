package models

import "time"

// AppointmentStatus is a per-tenant lookup table. Engine code resolves
// statuses by code and never relies on numeric ids having fixed values.
type AppointmentStatus struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	TenantID uint `gorm:"uniqueIndex:idx_status_tenant_code" json:"tenant_id"`

	Code  string `gorm:"size:20;uniqueIndex:idx_status_tenant_code;not null" json:"code"`
	Label string `gorm:"size:50" json:"label"`

	CreatedAt time.Time `json:"created_at"`
}
