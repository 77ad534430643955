package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/user-orders-api/internal/domain/entity"
)

var (
	// ErrNotFound means the target user is absent or soft-deleted.
	ErrNotFound = errors.New("user not found")
	// ErrConflict means a uniqueness constraint was violated on create.
	ErrConflict = errors.New("user already exists")
)

// UserUpdate is a partial patch; nil fields are left untouched.
// Password, when set, must already be hashed by the caller.
type UserUpdate struct {
	Username  *string
	Password  *string
	FullName  *entity.FullName
	Age       *int
	Email     *string
	IsActive  *bool
	Hobbies   *[]string
	Address   *entity.Address
	IsDeleted *bool
}

// UserRepository defines the persistence gateway for user documents.
// Every read and update excludes soft-deleted users. Operations scoped
// to a userID return ErrNotFound when the target is absent; Create
// returns ErrConflict on a uniqueness violation.
type UserRepository interface {
	// Exists reports whether a non-deleted user with the id exists.
	Exists(ctx context.Context, userID int) (bool, error)
	// FindConflict returns true when userId, username or email is
	// already taken by a non-deleted user.
	FindConflict(ctx context.Context, userID int, username, email string) (bool, error)
	Create(ctx context.Context, u *entity.User) error
	// ListAll returns non-deleted users with the list projection
	// (username, fullName, age, email, address).
	ListAll(ctx context.Context) ([]entity.User, error)
	GetByUserID(ctx context.Context, userID int) (*entity.User, error)
	// Update applies a partial patch and returns the post-update document.
	Update(ctx context.Context, userID int, patch UserUpdate) (*entity.User, error)
	SoftDelete(ctx context.Context, userID int) error
	AppendOrder(ctx context.Context, userID int, order entity.Order) (*entity.User, error)
	ListOrders(ctx context.Context, userID int) ([]entity.Order, error)
}
