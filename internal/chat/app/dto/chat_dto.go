package dto

// CreateChatRequest - тело запроса создания чата.
type CreateChatRequest struct {
	Title string `json:"title" validate:"max=200"`
}
