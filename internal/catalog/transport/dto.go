package transport

// Product is the normalized catalog product exposed to the rest of the
// application and over HTTP.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Brand       string  `json:"brand"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Description string  `json:"description,omitempty"`
	Unit        string  `json:"unit"`
	Barcode     string  `json:"barcode,omitempty"`
}

type SearchProductsRequest struct {
	Query      string `form:"q" validate:"required,min=1,max=200"`
	PetType    string `form:"petType" validate:"omitempty,max=50"`
	MaxResults int    `form:"maxResults" validate:"omitempty,min=1,max=50"`
}

type SearchProductsResponse struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
}

type ListByCategoryRequest struct {
	Category   string `form:"category" validate:"required,min=1,max=100"`
	PetType    string `form:"petType" validate:"omitempty,max=50"`
	MaxResults int    `form:"maxResults" validate:"omitempty,min=1,max=50"`
}
