package repoargs

import "github.com/fsdevblog/luffy-streaming/internal/domain"

type CreateUser struct {
	Email        string
	Password     string
	Name         string
	Phone        *string
	Role         domain.RoleType
	Status       domain.UserStatusType
	ReferralCode *string
	ReferredBy   *int64
}

// UpdateUser частичное обновление, nil поля не трогаются.
type UpdateUser struct {
	Name         *string
	Phone        *string
	Role         *domain.RoleType
	Status       *domain.UserStatusType
	ReferralCode *string
}

type UserFilter struct {
	Role   *domain.RoleType
	Status *domain.UserStatusType
	Search string
	Page
}
