package response

import (
	"aiexchange/internal/core/domain/user"
	"time"
)

type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	FullName   string    `json:"full_name"`
	Role       string    `json:"role"`
	IsActive   bool      `json:"is_active"`
	IsApproved bool      `json:"is_approved"`
	CreatedAt  time.Time `json:"created_at"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = int64(du.ID)
	u.Email = string(du.Email)
	u.FullName = du.FullName
	u.Role = string(du.Role)
	u.IsActive = du.IsActive
	u.IsApproved = du.IsApproved
	u.CreatedAt = du.CreatedAt
}
