package ebay

import "github.com/shaymaabd/AMPA/internal/domain/entity"

type searchResponse struct {
	Total         int           `json:"total"`
	ItemSummaries []itemSummary `json:"itemSummaries"`
}

type itemSummary struct {
	ItemID string `json:"itemId"`
	Title  string `json:"title"`
	Price  *struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"price"`
	Image *struct {
		ImageURL string `json:"imageUrl"`
	} `json:"image"`
	Condition string `json:"condition"`
	Seller    *struct {
		Username string `json:"username"`
	} `json:"seller"`
	ItemWebURL       string `json:"itemWebUrl"`
	ItemEndDate      string `json:"itemEndDate"`
	ItemCreationDate string `json:"itemCreationDate"`
}

func (s itemSummary) toRaw() entity.RawListing {
	raw := entity.RawListing{
		ItemID:    s.ItemID,
		Title:     s.Title,
		Condition: s.Condition,
		URL:       s.ItemWebURL,
		EndTime:   s.ItemEndDate,
		ListedAt:  s.ItemCreationDate,
	}
	if s.Price != nil {
		raw.Price = s.Price.Value
		raw.Currency = s.Price.Currency
	}
	if s.Image != nil {
		raw.ImageURL = s.Image.ImageURL
	}
	if s.Seller != nil {
		raw.Seller = s.Seller.Username
	}
	return raw
}
