package models

// OperationType value understood by the downstream upsert pipeline.
const OperationInsert = "INSERT"

// Variant represents one purchasable color/size combination of a Product
type Variant struct {
	PriceCurrency      string   `json:"price_currency" bson:"price_currency"`
	OriginalPrice      float64  `json:"original_price" bson:"original_price"`
	SellingPrice       float64  `json:"selling_price" bson:"selling_price"`
	SalePrice          float64  `json:"sale_price" bson:"sale_price"`
	FinalPrice         float64  `json:"final_price" bson:"final_price"`
	Discount           int      `json:"discount" bson:"discount"`
	IsOnSale           bool     `json:"is_on_sale" bson:"is_on_sale"`
	IsInStock          bool     `json:"is_in_stock" bson:"is_in_stock"`
	Size               string   `json:"size" bson:"size"`
	Color              string   `json:"color" bson:"color"`
	MPN                string   `json:"mpn" bson:"mpn"`
	VariantID          string   `json:"variant_id" bson:"variant_id"`
	LinkURL            string   `json:"link_url" bson:"link_url"`
	DeeplinkURL        string   `json:"deeplink_url" bson:"deeplink_url"`
	ImageURL           string   `json:"image_url" bson:"image_url"`
	AlternateImageURLs []string `json:"alternate_image_urls" bson:"alternate_image_urls"`
	RatingsCount       int      `json:"ratings_count" bson:"ratings_count"`
	AverageRatings     float64  `json:"average_ratings" bson:"average_ratings"`
	ReviewCount        int      `json:"review_count" bson:"review_count"`
}

// Product represents one catalog entry for a retailer's item family
type Product struct {
	ParentProductID     string    `json:"parent_product_id" bson:"parent_product_id"`
	Name                string    `json:"name" bson:"name"`
	Description         string    `json:"description" bson:"description"`
	Category            string    `json:"category" bson:"category"`
	Brand               string    `json:"brand" bson:"brand"`
	Gender              string    `json:"gender" bson:"gender"`
	Materials           string    `json:"materials" bson:"materials"`
	RetailerDomain      string    `json:"retailer_domain" bson:"retailer_domain"`
	Source              string    `json:"source" bson:"source"`
	ReturnPolicyLink    string    `json:"return_policy_link" bson:"return_policy_link"`
	ReturnPolicy        string    `json:"return_policy" bson:"return_policy"`
	SizeChart           string    `json:"size_chart" bson:"size_chart"`
	AvailableBankOffers string    `json:"available_bank_offers" bson:"available_bank_offers"`
	AvailableCoupons    string    `json:"available_coupons" bson:"available_coupons"`
	Variants            []Variant `json:"variants" bson:"variants"`
	OperationType       string    `json:"operation_type" bson:"operation_type"`
}

// StoreInfo identifies the retailer a catalog was scraped from
type StoreInfo struct {
	Name     string `json:"name" bson:"name"`
	Brand    string `json:"brand" bson:"brand"`
	Domain   string `json:"domain" bson:"domain"`
	Country  string `json:"country" bson:"country"`
	Currency string `json:"currency" bson:"currency"`
	Source   string `json:"source" bson:"source"`
}

// Catalog is the root output document written per scraper run
type Catalog struct {
	StoreInfo StoreInfo `json:"store_info" bson:"store_info"`
	Products  []Product `json:"products" bson:"products"`
}
