package schema

import "github.com/shopspring/decimal"

type Dimensions struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

type Review struct {
	Rating        float64 `json:"rating"`
	Comment       string  `json:"comment"`
	Date          string  `json:"date" validate:"datetime=2006-01-02T15:04:05Z07:00"`
	ReviewerName  string  `json:"reviewerName"`
	ReviewerEmail string  `json:"reviewerEmail" validate:"email"`
}

// Product is read-only on the client side.
type Product struct {
	ID                   string          `json:"_id" validate:"required"`
	Title                string          `json:"title"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
	Brand                string          `json:"brand,omitempty"`
	Price                decimal.Decimal `json:"price"`
	DiscountPercentage   float64         `json:"discountPercentage"`
	Rating               float64         `json:"rating"`
	Stock                int             `json:"stock"`
	Tags                 []string        `json:"tags"`
	SKU                  string          `json:"sku"`
	Weight               float64         `json:"weight"`
	Dimensions           Dimensions      `json:"dimensions"`
	WarrantyInformation  string          `json:"warrantyInformation"`
	ShippingInformation  string          `json:"shippingInformation"`
	AvailabilityStatus   string          `json:"availabilityStatus"`
	Reviews              []Review        `json:"reviews" validate:"dive"`
	ReturnPolicy         string          `json:"returnPolicy"`
	MinimumOrderQuantity int             `json:"minimumOrderQuantity"`
	Images               []string        `json:"images" validate:"min=1,dive,url"`
	Thumbnail            string          `json:"thumbnail" validate:"url"`
}

var productRequired = []string{
	"_id", "title", "description", "category", "price", "discountPercentage",
	"rating", "stock", "tags", "sku", "weight", "dimensions",
	"warrantyInformation", "shippingInformation", "availabilityStatus",
	"reviews", "returnPolicy", "minimumOrderQuantity", "images", "thumbnail",
}

var productMessages = messages{
	"images.min": "product must have at least one image",
}

// ParseProduct validates one product document from the remote service.
func ParseProduct(raw []byte) (Product, error) {
	var p Product
	if err := decodeObject(raw, &p, productRequired...); err != nil {
		return Product{}, err
	}
	if err := check(p, productMessages); err != nil {
		return Product{}, err
	}
	return p, nil
}

func ParseProducts(raw []byte) ([]Product, error) {
	return decodeList(raw, ParseProduct)
}

// FinalPrice is the price after discountPercentage, rounded to cents.
func (p Product) FinalPrice() decimal.Decimal {
	if p.DiscountPercentage <= 0 {
		return p.Price
	}
	factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(p.DiscountPercentage)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

func (p Product) InStock() bool {
	return p.Stock > 0
}
