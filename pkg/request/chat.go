package request

type ChatTurn struct {
	Role string `json:"role" validate:"required,oneof=user model"`
	Text string `json:"text" validate:"required"`
}

type Chat struct {
	History []ChatTurn `json:"history" validate:"omitempty,dive"`
	Message string     `json:"message" validate:"required"`
}
