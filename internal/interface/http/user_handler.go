package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/oksasatya/user-orders-api/internal/application"
	"github.com/oksasatya/user-orders-api/internal/domain/entity"
	"github.com/oksasatya/user-orders-api/pkg/response"
	"github.com/oksasatya/user-orders-api/pkg/validation"
)

const (
	codeValidation = "VALIDATION_ERROR"
	codeNotFound   = "USER_NOT_FOUND"
	codeConflict   = "USER_EXISTS"
	codeInternal   = "INTERNAL_ERROR"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type fullNameRequest struct {
	FirstName string `json:"firstName" binding:"required,max=50,capitalized"`
	LastName  string `json:"lastName" binding:"required,max=50"`
}

type addressRequest struct {
	Street  string `json:"street" binding:"required,max=100"`
	City    string `json:"city" binding:"required,max=50"`
	Country string `json:"country" binding:"required,max=50"`
}

type orderRequest struct {
	ProductName string   `json:"productName" binding:"required,max=100"`
	Price       *float64 `json:"price" binding:"required,gte=0"`
	Quantity    int      `json:"quantity" binding:"required,gte=1"`
}

type createUserRequest struct {
	UserID   int             `json:"userId" binding:"required,gte=1"`
	Username string          `json:"username" binding:"required,max=20"`
	Password string          `json:"password" binding:"required"`
	FullName fullNameRequest `json:"fullName" binding:"required"`
	Age      int             `json:"age" binding:"required,gte=1"`
	Email    string          `json:"email" binding:"required,email,max=50"`
	IsActive *bool           `json:"isActive" binding:"required"`
	Hobbies  []string        `json:"hobbies" binding:"required,dive,min=1"`
	Address  addressRequest  `json:"address" binding:"required"`
	Orders   []orderRequest  `json:"orders" binding:"omitempty,dive"`
}

// updateUserRequest is a partial patch: every field optional, validated
// only when present.
type updateUserRequest struct {
	Username *string          `json:"username" binding:"omitempty,max=20"`
	Password *string          `json:"password" binding:"omitempty,min=1"`
	FullName *fullNameRequest `json:"fullName" binding:"omitempty"`
	Age      *int             `json:"age" binding:"omitempty,gte=1"`
	Email    *string          `json:"email" binding:"omitempty,email,max=50"`
	IsActive *bool            `json:"isActive"`
	Hobbies  *[]string        `json:"hobbies" binding:"omitempty,dive,min=1"`
	Address  *addressRequest  `json:"address" binding:"omitempty"`
}

// parseUserID parses the :userId segment. Non-numeric values behave
// like a missing user rather than a malformed request.
func parseUserID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("userId"))
	if err != nil {
		response.Error(c, http.StatusNotFound, "user not found", codeNotFound, "userId must be numeric")
		return 0, false
	}
	return id, true
}

func (h *UserHandler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, userapp.ErrUserExists):
		response.Error(c, http.StatusConflict, "user already exists", codeConflict, nil)
	case errors.Is(err, userapp.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "user not found", codeNotFound, nil)
	default:
		h.Logger.WithError(err).WithField("path", c.FullPath()).Error("storage operation failed")
		response.Error(c, http.StatusInternalServerError, "something went wrong", codeInternal, nil)
	}
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", codeValidation, validation.ToDetails(err))
		return
	}

	orders := make([]entity.Order, 0, len(req.Orders))
	for _, o := range req.Orders {
		orders = append(orders, entity.Order{ProductName: o.ProductName, Price: *o.Price, Quantity: o.Quantity})
	}

	view, err := h.Svc.Create(c.Request.Context(), userapp.CreateUserInput{
		UserID:   req.UserID,
		Username: req.Username,
		Password: req.Password,
		FullName: entity.FullName{FirstName: req.FullName.FirstName, LastName: req.FullName.LastName},
		Age:      req.Age,
		Email:    req.Email,
		IsActive: *req.IsActive,
		Hobbies:  req.Hobbies,
		Address:  entity.Address{Street: req.Address.Street, City: req.Address.City, Country: req.Address.Country},
		Orders:   orders,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "User is created successfully")
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.Svc.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, users, "Users are retrieved successfully")
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	view, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "User is retrieved successfully")
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", codeValidation, validation.ToDetails(err))
		return
	}

	in := userapp.UpdateUserInput{
		Username: req.Username,
		Password: req.Password,
		Age:      req.Age,
		Email:    req.Email,
		IsActive: req.IsActive,
		Hobbies:  req.Hobbies,
	}
	if req.FullName != nil {
		in.FullName = &entity.FullName{FirstName: req.FullName.FirstName, LastName: req.FullName.LastName}
	}
	if req.Address != nil {
		in.Address = &entity.Address{Street: req.Address.Street, City: req.Address.City, Country: req.Address.Country}
	}

	view, err := h.Svc.Update(c.Request.Context(), id, in)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "User is updated successfully")
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "User is deleted successfully")
}

func (h *UserHandler) AppendOrder(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid payload", codeValidation, validation.ToDetails(err))
		return
	}

	view, err := h.Svc.AppendOrder(c.Request.Context(), id, userapp.OrderInput{
		ProductName: req.ProductName,
		Price:       *req.Price,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view, "Order created successfully")
}

func (h *UserHandler) ListOrders(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	orders, err := h.Svc.ListOrders(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"orders": orders}, "Orders retrieved successfully")
}

func (h *UserHandler) TotalPrice(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}
	total, err := h.Svc.TotalPrice(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"totalPrice": total}, "Total price calculated successfully")
}
