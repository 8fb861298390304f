package entity

import "time"

const (
	ProductStatusAvailable = "available"
	DefaultFarmName        = "My Farm"
	UnknownLocation        = "Unknown"
)

var ProductCategories = []string{
	"Vegetables",
	"Fruits",
	"Dairy",
	"Eggs",
	"Meat",
	"Herbs",
	"Other Farm Produce",
}

var ProductTags = []string{"Organic", "Local", "Fresh", "Sustainable", "Seasonal"}

type FarmLocation struct {
	Name    string `json:"name" firestore:"name"`
	Address string `json:"address" firestore:"address"`
	City    string `json:"city" firestore:"city"`
	State   string `json:"state" firestore:"state"`
	ZipCode string `json:"zip_code" firestore:"zipCode"`
}

type ContactInfo struct {
	Phone string `json:"phone" firestore:"phone"`
	Email string `json:"email" firestore:"email"`
}

type Product struct {
	ID             string       `json:"id" firestore:"-"`
	Name           string       `json:"name" firestore:"name"`
	Description    string       `json:"description" firestore:"description"`
	Price          float64      `json:"price" firestore:"price"`
	Category       string       `json:"category" firestore:"category"`
	Quantity       int          `json:"quantity" firestore:"quantity"`
	Image          string       `json:"image" firestore:"image"`
	Organic        bool         `json:"organic" firestore:"organic"`
	Tags           []string     `json:"tags" firestore:"tags"`
	SellerID       string       `json:"seller_id" firestore:"sellerId"`
	SellerUsername string       `json:"seller_username" firestore:"sellerUsername"`
	Status         string       `json:"status" firestore:"status"`
	FarmLocation   FarmLocation `json:"farm_location" firestore:"farmLocation"`
	ContactInfo    ContactInfo  `json:"contact_info" firestore:"contactInfo"`
	CreatedAt      time.Time    `json:"created_at" firestore:"createdAt"`
	UpdatedAt      time.Time    `json:"updated_at" firestore:"updatedAt"`
}

func (p *Product) IsOwnedBy(uid string) bool {
	return p.SellerID != "" && p.SellerID == uid
}

// ApplySellerDefaults fills farm and contact details the seller left blank
// from their profile.
func (p *Product) ApplySellerDefaults(seller *User) {
	if p.FarmLocation.Name == "" {
		p.FarmLocation.Name = DefaultFarmName
		if seller != nil && seller.FarmName != "" {
			p.FarmLocation.Name = seller.FarmName
		}
	}
	if p.FarmLocation.City == "" {
		p.FarmLocation.City = UnknownLocation
	}
	if p.FarmLocation.State == "" {
		p.FarmLocation.State = UnknownLocation
	}
	if seller == nil {
		return
	}
	if p.ContactInfo.Phone == "" {
		p.ContactInfo.Phone = seller.PhoneNumber
	}
	if p.ContactInfo.Email == "" {
		p.ContactInfo.Email = seller.Email
	}
	if p.SellerUsername == "" {
		p.SellerUsername = seller.Username
	}
}
