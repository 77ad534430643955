package application

import "github.com/oksasatya/user-orders-api/internal/domain/entity"

// UserView is the single-record response shape: the full record minus
// the password hash and the soft-delete flag.
type UserView struct {
	UserID   int             `json:"userId"`
	Username string          `json:"username"`
	FullName entity.FullName `json:"fullName"`
	Age      int             `json:"age"`
	Email    string          `json:"email"`
	IsActive bool            `json:"isActive"`
	Hobbies  []string        `json:"hobbies"`
	Address  entity.Address  `json:"address"`
	Orders   []entity.Order  `json:"orders,omitempty"`
}

// UserListItem is the list projection. Fields absent on a stored record
// come through as zero values, never as an error; legacy records with
// missing fields must still list cleanly.
type UserListItem struct {
	Username string          `json:"username"`
	FullName entity.FullName `json:"fullName"`
	Age      int             `json:"age"`
	Email    string          `json:"email"`
	Address  entity.Address  `json:"address"`
}

func NewUserView(u *entity.User) *UserView {
	v := &UserView{
		UserID:   u.UserID,
		Username: u.Username,
		FullName: u.FullName,
		Age:      u.Age,
		Email:    u.Email,
		IsActive: u.IsActive,
		Hobbies:  u.Hobbies,
		Address:  u.Address,
		Orders:   u.Orders,
	}
	if v.Hobbies == nil {
		v.Hobbies = []string{}
	}
	return v
}

func NewUserList(users []entity.User) []UserListItem {
	out := make([]UserListItem, 0, len(users))
	for i := range users {
		u := &users[i]
		out = append(out, UserListItem{
			Username: u.Username,
			FullName: u.FullName,
			Age:      u.Age,
			Email:    u.Email,
			Address:  u.Address,
		})
	}
	return out
}
