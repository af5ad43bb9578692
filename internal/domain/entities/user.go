package entities

import (
	"time"

	"github.com/google/uuid"
)

// User is a marketplace account. The same table backs customers and providers;
// the distinction is behavioral (owning businesses vs. creating requests).
type User struct {
	ID uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`

	Email    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	Phone    string `gorm:"type:varchar(32)" json:"phone"`
	FullName string `gorm:"type:varchar(255)" json:"full_name"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}
