package application

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-orders-api/internal/domain/entity"
	repo "github.com/oksasatya/user-orders-api/internal/domain/repository"
	"github.com/oksasatya/user-orders-api/pkg/helpers"
)

// Sentinel errors aliased from the repository so errors.Is works across
// both layers.
var (
	ErrUserNotFound = repo.ErrNotFound
	ErrUserExists   = repo.ErrConflict
)

// Service runs the mutation pipeline for every user operation:
// typed input -> existence/uniqueness check -> hash -> persist -> shape.
// Redis holds a short-lived cache of single-user views; it is optional
// and every cache failure is fail-open.
type Service struct {
	Repo       repo.UserRepository
	Redis      *redis.Client
	Logger     *logrus.Logger
	BcryptCost int
	CacheTTL   time.Duration
}

func NewService(r repo.UserRepository, rdb *redis.Client, logger *logrus.Logger, bcryptCost int, cacheTTL time.Duration) *Service {
	return &Service{
		Repo:       r,
		Redis:      rdb,
		Logger:     logger,
		BcryptCost: bcryptCost,
		CacheTTL:   cacheTTL,
	}
}

func viewKey(userID int) string {
	return "user:view:" + strconv.Itoa(userID)
}

// CreateUserInput carries a validated create payload. Password is still
// plaintext here; the pipeline hashes it before persistence.
type CreateUserInput struct {
	UserID   int
	Username string
	Password string
	FullName entity.FullName
	Age      int
	Email    string
	IsActive bool
	Hobbies  []string
	Address  entity.Address
	Orders   []entity.Order
}

// UpdateUserInput is a partial patch; nil fields are not touched.
type UpdateUserInput struct {
	Username *string
	Password *string
	FullName *entity.FullName
	Age      *int
	Email    *string
	IsActive *bool
	Hobbies  *[]string
	Address  *entity.Address
}

type OrderInput struct {
	ProductName string
	Price       float64
	Quantity    int
}

// Create checks the identity invariants, hashes the password, persists
// the user and returns the shaped view.
func (s *Service) Create(ctx context.Context, in CreateUserInput) (*UserView, error) {
	taken, err := s.Repo.FindConflict(ctx, in.UserID, in.Username, in.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrUserExists
	}

	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	u := &entity.User{
		UserID:   in.UserID,
		Username: in.Username,
		Password: hash,
		FullName: in.FullName,
		Age:      in.Age,
		Email:    in.Email,
		IsActive: in.IsActive,
		Hobbies:  in.Hobbies,
		Address:  in.Address,
		Orders:   in.Orders,
	}
	if u.Orders == nil {
		u.Orders = []entity.Order{}
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		return nil, err
	}

	s.Logger.WithField("user_id", u.UserID).Info("user created")
	return NewUserView(u), nil
}

func (s *Service) List(ctx context.Context) ([]UserListItem, error) {
	users, err := s.Repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return NewUserList(users), nil
}

// Get serves the single-user view, read-through cached in Redis.
func (s *Service) Get(ctx context.Context, userID int) (*UserView, error) {
	if s.Redis != nil {
		var cached UserView
		found, err := helpers.RedisGetJSON(ctx, s.Redis, viewKey(userID), &cached)
		if err != nil {
			s.Logger.WithError(err).Warn("user view cache read failed")
		} else if found {
			return &cached, nil
		}
	}

	u, err := s.Repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := NewUserView(u)
	s.cacheView(ctx, userID, view)
	return view, nil
}

func (s *Service) Update(ctx context.Context, userID int, in UpdateUserInput) (*UserView, error) {
	ok, err := s.Repo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	patch := repo.UserUpdate{
		Username: in.Username,
		FullName: in.FullName,
		Age:      in.Age,
		Email:    in.Email,
		IsActive: in.IsActive,
		Hobbies:  in.Hobbies,
		Address:  in.Address,
	}
	// A plaintext password in the patch is replaced by its hash before
	// it reaches the gateway.
	if in.Password != nil {
		hash, err := helpers.HashPassword(*in.Password, s.BcryptCost)
		if err != nil {
			return nil, err
		}
		patch.Password = &hash
	}

	u, err := s.Repo.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	view := NewUserView(u)
	s.cacheView(ctx, userID, view)
	s.Logger.WithField("user_id", userID).Info("user updated")
	return view, nil
}

// Delete marks the user deleted; the record persists but disappears
// from every read.
func (s *Service) Delete(ctx context.Context, userID int) error {
	ok, err := s.Repo.Exists(ctx, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUserNotFound
	}
	if err := s.Repo.SoftDelete(ctx, userID); err != nil {
		return err
	}
	s.dropView(ctx, userID)
	s.Logger.WithField("user_id", userID).Info("user soft-deleted")
	return nil
}

func (s *Service) AppendOrder(ctx context.Context, userID int, in OrderInput) (*UserView, error) {
	ok, err := s.Repo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrUserNotFound
	}

	order := entity.Order{ProductName: in.ProductName, Price: in.Price, Quantity: in.Quantity}
	u, err := s.Repo.AppendOrder(ctx, userID, order)
	if err != nil {
		return nil, err
	}

	s.dropView(ctx, userID)
	s.Logger.WithFields(logrus.Fields{"user_id": userID, "product": in.ProductName}).Info("order appended")
	return NewUserView(u), nil
}

func (s *Service) ListOrders(ctx context.Context, userID int) ([]entity.Order, error) {
	return s.Repo.ListOrders(ctx, userID)
}

// TotalPrice reduces the user's orders to sum(price * quantity).
// A user without orders totals zero.
func (s *Service) TotalPrice(ctx context.Context, userID int) (float64, error) {
	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		return 0, err
	}
	var total float64
	for _, o := range orders {
		total += o.Total()
	}
	return total, nil
}

func (s *Service) cacheView(ctx context.Context, userID int, view *UserView) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisSetJSON(ctx, s.Redis, viewKey(userID), view, s.CacheTTL); err != nil {
		s.Logger.WithError(err).Warn("user view cache write failed")
	}
}

func (s *Service) dropView(ctx context.Context, userID int) {
	if s.Redis == nil {
		return
	}
	if err := helpers.RedisDel(ctx, s.Redis, viewKey(userID)); err != nil {
		s.Logger.WithError(err).Warn("user view cache invalidation failed")
	}
}
