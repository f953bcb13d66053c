package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/shaymaabd/AMPA/internal/service"
)

var validate = validator.New()

type SearchRequestDTO struct {
	Term        string `json:"term" validate:"max=200"`
	Category    string `json:"category" validate:"max=100"`
	Subcategory string `json:"subcategory" validate:"max=100"`
	Condition   string `json:"condition" validate:"max=50"`
	MaxPrice    int    `json:"max_price" validate:"gte=0"`
	Sort        string `json:"sort"`
}

type AddCartItemRequestDTO struct {
	ListingID string `json:"listing_id" validate:"required"`
}

type ChatRequestDTO struct {
	Message string `json:"message" validate:"required"`
	Model   string `json:"model"`
}

type InquiryRequestDTO struct {
	ListingID       string `json:"listing_id" validate:"required"`
	To              string `json:"to" validate:"required,email"`
	Subject         string `json:"subject" validate:"max=300"`
	Body            string `json:"body" validate:"max=10000"`
	AttachAgreement bool   `json:"attach_agreement"`
}

type SessionResponse struct {
	SessionID string `json:"session_id"`
}

type CartItemResponse struct {
	Added bool              `json:"added"`
	Cart  *service.CartView `json:"cart"`
}
