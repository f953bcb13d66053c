package entity

// Attachment is an in-memory file sent with an email.
type Attachment struct {
	FileName    string
	ContentType string
	Data        []byte
}

type Email struct {
	To         string
	Subject    string
	Body       string
	Attachment *Attachment
}

// InquiryDraft is the pre-filled supplier inquiry for one listing.
type InquiryDraft struct {
	ListingID string `json:"listing_id"`
	Seller    string `json:"seller"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}
