package dto

type CreateUserInput struct {
	Username string `validate:"required"`
	Password string `validate:"required"`
	Role     string `validate:"required,oneof=admin guest"`
}
