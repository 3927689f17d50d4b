package request

type LockQuoteRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	Direction string `json:"direction" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}
