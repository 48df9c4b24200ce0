package models

type SignUpRequest struct {
	Username    string `json:"username" validate:"required,min=3,max=150,alphanum"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	Email       string `json:"email" validate:"required,email"`
	FullName    string `json:"fullName" validate:"required,max=255"`
	PhoneNumber string `json:"phoneNumber,omitempty" validate:"max=15"`
	Address     string `json:"address,omitempty"`
}

func (r SignUpRequest) Validate() error {
	return validateStruct(r)
}

type SignUpResponse struct {
	UserID   string          `json:"userId"`
	Username string          `json:"username"`
	Email    string          `json:"email"`
	FullName string          `json:"fullName"`
	Account  AccountResponse `json:"account"`
}
