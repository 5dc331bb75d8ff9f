package company

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Company is the tenant root. Code is globally unique among non-deleted
// rows; the partial index lets a deleted company's code be reused.
type Company struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name      string    `gorm:"type:varchar(150);not null"`
	Code      string    `gorm:"type:varchar(30);not null;uniqueIndex:uq_companies_code,where:deleted_at IS NULL"`
	Country   string    `gorm:"type:varchar(100);not null"`
	Currency  string    `gorm:"type:varchar(10);not null;default:'USD'"`
	Timezone  string    `gorm:"type:varchar(50);not null;default:'UTC'"`
	Address   *string   `gorm:"type:text"`
	Phone     *string   `gorm:"type:varchar(30)"`
	Email     *string   `gorm:"type:varchar(255)"`
	Website   *string   `gorm:"type:varchar(255)"`
	LogoURL   *string   `gorm:"type:varchar(500)"`
	IsActive  bool      `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Company) TableName() string {
	return "companies"
}
