// Package serializers converts between models and their JSON representations
// and validates inbound payloads.
package serializers

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nikhilrana/saman/app/models"
	"github.com/nikhilrana/saman/pkg/collection"
	"github.com/nikhilrana/saman/pkg/validate"
)

const (
	descMaxLen     = 50
	priceMaxDigits = 5
	priceDecimals  = 2
)

// ProductPayload is the wire shape of a product. Every field is present on
// every read; email is derived from the owning user and never accepted on
// writes.
type ProductPayload struct {
	ID          uint            `json:"id"`
	User        *uint           `json:"user"`
	Desc        *string         `json:"desc"`
	Price       decimal.Decimal `json:"price"`
	CreatedTime time.Time       `json:"createdTime"`
	Image       string          `json:"image"`
	Email       *string         `json:"email"`
}

// Product serializes one record. The User association must be preloaded for
// email derivation; products without an owner serialize user/email as null.
func Product(p models.Product) ProductPayload {
	payload := ProductPayload{
		ID:          p.ID,
		User:        p.UserID,
		Desc:        p.Desc,
		Price:       p.Price,
		CreatedTime: p.CreatedTime,
		Image:       p.Image,
	}
	if p.User != nil {
		email := p.User.Email
		payload.Email = &email
	}
	return payload
}

// Products serializes a slice of records.
func Products(ps []models.Product) []ProductPayload {
	return collection.Map(ps, Product)
}

// ProductInput is the writable subset of a product. Pointer fields
// distinguish "omitted" from "set to zero", which is what makes partial
// updates possible: nil fields are left untouched.
type ProductInput struct {
	User  *uint            `json:"user"`
	Desc  *string          `json:"desc"`
	Price *decimal.Decimal `json:"price"`
	Image *string          `json:"image"`
}

// Validate checks the supplied fields against the schema constraints.
// With partial=false (create), price is required.
func (in *ProductInput) Validate(partial bool) validate.Errors {
	errs := validate.Errors{}

	if in.Price == nil {
		if !partial {
			errs.Add("price", "The price field is required.")
		}
	} else {
		validate.Money(errs, "price", *in.Price, priceMaxDigits, priceDecimals)
	}

	if in.Desc != nil {
		validate.MaxLen(errs, "desc", *in.Desc, descMaxLen)
	}

	return errs
}

// Model builds a new record from the input. Absent image falls back to the
// placeholder; id and createdTime are left for the store to assign.
func (in *ProductInput) Model() models.Product {
	p := models.Product{
		UserID: in.User,
		Desc:   in.Desc,
		Image:  models.PlaceholderImage,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Image != nil {
		p.Image = *in.Image
	}
	return p
}

// Changes returns a column→value map holding only the supplied fields, for
// partial updates. createdTime is never part of the map.
func (in *ProductInput) Changes() map[string]interface{} {
	changes := map[string]interface{}{}
	if in.User != nil {
		changes["user_id"] = *in.User
	}
	if in.Desc != nil {
		changes["desc"] = *in.Desc
	}
	if in.Price != nil {
		changes["price"] = *in.Price
	}
	if in.Image != nil {
		changes["image"] = *in.Image
	}
	return changes
}
