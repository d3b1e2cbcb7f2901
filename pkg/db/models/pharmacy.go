package models

import (
	"time"

	"github.com/google/uuid"
)

// Pharmacy represents the canonical tenant model. Delivery credentials are an
// opaque blob; encryption and decryption happen outside this service.
type Pharmacy struct {
	ID                  uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name                string    `gorm:"column:name;not null"`
	ContactEmail        *string   `gorm:"column:contact_email"`
	ContactPhone        *string   `gorm:"column:contact_phone"`
	DeliveryCredentials []byte    `gorm:"column:delivery_credentials"`
	CreatedAt           time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
