package model

// Product types match the values persisted in products.product_type.
const (
	ProductTypeFood     = "food"
	ProductTypeGoods    = "goods"
	ProductTypeActivity = "activity"
)

// Product is a purchasable or reservable offering scoped to exactly one
// festival.  A product cannot outlive its festival: deleting a festival
// removes its products after their reservations have been removed.
// This struct corresponds to a row in the `products` table.
//
// Fields:
//  ID            – primary key identifier.
//  FestivalID    – owning festival (required, enforced on create/update).
//  Name          – product name.
//  Price         – selling price, non-negative integer.
//  OriginalPrice – optional pre-discount price (nil when absent).
//  Stock         – remaining stock count.
//  Type          – one of food, goods, activity.
//  ImageURL      – optional image reference.
//  Description   – optional free-text description.
type Product struct {
	ID            uint64  // products.id
	FestivalID    uint64  // products.festival_id
	Name          string  // products.name
	Price         int     // products.price
	OriginalPrice *int    // products.original_price (nullable)
	Stock         int     // products.stock
	Type          string  // products.product_type
	ImageURL      *string // products.image_url (nullable)
	Description   *string // products.description (nullable)
}
