package dto

type RegisterRequestDTO struct {
	Login    string `json:"login" example:"jane"`
	Password string `json:"password" example:"s3cret-pass"`
	Role     string `json:"role" example:"FREELANCER" enums:"FREELANCER,CLIENT"`
}

type RegisterResponseDTO struct {
	Message string `json:"message"`
	UserID  string `json:"user_id" example:"0b6f1c3e-3a52-4c1b-9a8e-2f3d0f6c9a11"`
}

type LoginRequestDTO struct {
	Login    string `json:"login" example:"jane"`
	Password string `json:"password" example:"s3cret-pass"`
}

type LoginResponseDTO struct {
	Message string `json:"message"`
}

type ExchangeTokenResponseDTO struct {
	Token string `json:"token" example:"k3Jx9w..."`
}

type ExchangeRequestDTO struct {
	Token string `json:"token" example:"k3Jx9w..."`
}
