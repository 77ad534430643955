package entity

// User is the aggregate root for the user domain.
// UserID is the external numeric identity; Mongo's _id stays internal.
// Password holds a bcrypt hash and is never serialized to JSON.
type User struct {
	UserID    int      `bson:"userId" json:"userId"`
	Username  string   `bson:"username" json:"username"`
	Password  string   `bson:"password" json:"-"`
	FullName  FullName `bson:"fullName" json:"fullName"`
	Age       int      `bson:"age" json:"age"`
	Email     string   `bson:"email" json:"email"`
	IsActive  bool     `bson:"isActive" json:"isActive"`
	Hobbies   []string `bson:"hobbies" json:"hobbies"`
	Address   Address  `bson:"address" json:"address"`
	Orders    []Order  `bson:"orders,omitempty" json:"orders,omitempty"`
	IsDeleted bool     `bson:"isDeleted" json:"-"`
}

type FullName struct {
	FirstName string `bson:"firstName" json:"firstName"`
	LastName  string `bson:"lastName" json:"lastName"`
}

type Address struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	Country string `bson:"country" json:"country"`
}

// Order is owned by a User, embedded in its document, and never
// referenced independently.
type Order struct {
	ProductName string  `bson:"productName" json:"productName"`
	Price       float64 `bson:"price" json:"price"`
	Quantity    int     `bson:"quantity" json:"quantity"`
}

// Total is the order's contribution to the user's total price.
func (o Order) Total() float64 {
	return o.Price * float64(o.Quantity)
}
