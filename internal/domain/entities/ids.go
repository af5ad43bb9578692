package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ensureID fills a primary key that the caller left unset. Postgres could do
// this with its column default, but generating client-side keeps the id
// available immediately after Create and works on test databases too.
func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error            { ensureID(&u.ID); return nil }
func (b *Business) BeforeCreate(*gorm.DB) error        { ensureID(&b.ID); return nil }
func (p *ProviderProfile) BeforeCreate(*gorm.DB) error { ensureID(&p.ID); return nil }
func (s *Subscription) BeforeCreate(*gorm.DB) error    { ensureID(&s.ID); return nil }
func (r *ServiceRequest) BeforeCreate(*gorm.DB) error  { ensureID(&r.ID); return nil }
func (l *Lead) BeforeCreate(*gorm.DB) error            { ensureID(&l.ID); return nil }
func (p *Proposal) BeforeCreate(*gorm.DB) error        { ensureID(&p.ID); return nil }
func (w *WorkOrder) BeforeCreate(*gorm.DB) error       { ensureID(&w.ID); return nil }
func (r *Review) BeforeCreate(*gorm.DB) error          { ensureID(&r.ID); return nil }
