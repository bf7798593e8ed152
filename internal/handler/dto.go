package handler

import (
	"time"

	"github.com/mkerrall/waypost/internal/domain"
)

type userDTO struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toUserDTO(u *domain.User) userDTO {
	return userDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		CreatedAt:   u.CreatedAt,
	}
}

// dashboardDTO mirrors what the HTML dashboard shows.
type dashboardDTO struct {
	DisplayName string    `json:"displayName"`
	Email       string    `json:"email"`
	MemberSince time.Time `json:"memberSince"`
}

func toDashboardDTO(u *domain.User) dashboardDTO {
	return dashboardDTO{
		DisplayName: u.DisplayName,
		Email:       u.Email,
		MemberSince: u.CreatedAt,
	}
}
