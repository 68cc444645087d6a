package models

// User is a registered account.
type User struct {
	BaseModel
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// NewUser creates a user with a fresh identity and empty fields
func NewUser() *User {
	return &User{BaseModel: NewBaseModel()}
}

func (u *User) TypeName() string { return "User" }

func (u *User) Fields() []Field {
	return []Field{
		stringField("email", &u.Email),
		stringField("password", &u.Password),
		stringField("first_name", &u.FirstName),
		stringField("last_name", &u.LastName),
	}
}

func (u *User) String() string { return Render(u) }
