package entities

import (
	"time"

	"github.com/google/uuid"
)

// Business is a provider-side storefront eligible to receive leads.
//
// Domain notes:
//   - OwnerID is nullable: imported directory records may not have a claimed
//     owner yet. Ownerless businesses are never candidates for assignment.
//   - Category/Subcategory/ZipCode drive the ranking engine's candidate query.
type Business struct {
	ID      uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	OwnerID *uuid.UUID `gorm:"type:uuid;index" json:"owner_id,omitempty"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Category    string `gorm:"type:varchar(128);not null;index" json:"category"`
	Subcategory string `gorm:"type:varchar(128)" json:"subcategory"`
	ZipCode     string `gorm:"type:varchar(16);not null;index" json:"zip_code"`
	Active      bool   `gorm:"not null;default:true;index" json:"active"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`

	Owner *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"owner,omitempty"`
}
