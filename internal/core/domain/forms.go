package domain

import "github.com/shopspring/decimal"

// Form types are validated client-side before any network call and double as
// request bodies where the JSON shapes match.

type LoginForm struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterForm struct {
	Username        string `json:"username" validate:"required,min=3,max=150"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name" validate:"max=150"`
	LastName        string `json:"last_name" validate:"max=150"`
}

type ResetRequestForm struct {
	Email string `json:"email" validate:"required,email"`
}

type OTPForm struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ResetConfirmForm struct {
	Email           string `json:"email" validate:"required,email"`
	OTP             string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword     string `json:"new_password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type ChangePasswordForm struct {
	OldPassword     string `json:"old_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,nefield=OldPassword"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=NewPassword"`
}

type ProfileForm struct {
	FirstName string `json:"first_name" validate:"required,max=150"`
	LastName  string `json:"last_name" validate:"required,max=150"`
}

type NewOrderForm struct {
	ServiceID ID     `json:"service_id" validate:"required"`
	Link      string `json:"link" validate:"required,url"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Comments  string `json:"comments,omitempty"`
}

type PaymentForm struct {
	Amount   decimal.Decimal `validate:"gt=0"`
	Method   PaymentMethod   `validate:"required,oneof=invoice static"`
	Currency string          `validate:"required"`
	Network  string
}

type TicketForm struct {
	Subject  string `json:"subject" validate:"required,max=200"`
	Message  string `json:"message" validate:"required"`
	Priority string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
}

type TicketReplyForm struct {
	Message string `json:"message" validate:"required"`
}

type APIKeyForm struct {
	Name string `json:"name" validate:"required,max=100"`
}

type SMSRentForm struct {
	Service string `json:"service" validate:"required"`
	Country string `json:"country" validate:"required"`
}
