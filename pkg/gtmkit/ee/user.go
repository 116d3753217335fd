package ee

import "github.com/analyzify/gtmkit/pkg/gtmkit/shopify"

// User is a flattened contact/address record. Absent fields marshal as
// null rather than being omitted; the downstream tag templates key on the
// full field set.
type User struct {
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	FirstName    *string `json:"first_name"`
	LastName     *string `json:"last_name"`
	Address1     *string `json:"address1"`
	Address2     *string `json:"address2"`
	City         *string `json:"city"`
	Country      *string `json:"country"`
	CountryCode  *string `json:"countryCode"`
	Province     *string `json:"province"`
	ProvinceCode *string `json:"provinceCode"`
	Zip          *string `json:"zip"`
}

// UserFrom flattens a checkout's contact information.
//
// The shipping address wins when it carries a last name, else the billing
// address when it carries one, else every address field is null. Shipping
// is preferred because it is delivery intent, which matters more for
// conversion attribution than billing identity. Email and phone prefer the
// checkout-level values and fall back to the chosen address.
func UserFrom(c *shopify.Checkout) User {
	var addr shopify.Address
	switch {
	case c.ShippingAddress != nil && c.ShippingAddress.LastName != "":
		addr = *c.ShippingAddress
	case c.BillingAddress != nil && c.BillingAddress.LastName != "":
		addr = *c.BillingAddress
	}

	return User{
		Email:        firstNonEmpty(c.Email, addr.Email),
		Phone:        firstNonEmpty(c.Phone, addr.Phone),
		FirstName:    firstNonEmpty(addr.FirstName),
		LastName:     firstNonEmpty(addr.LastName),
		Address1:     firstNonEmpty(addr.Address1),
		Address2:     firstNonEmpty(addr.Address2),
		City:         firstNonEmpty(addr.City),
		Country:      firstNonEmpty(addr.Country),
		CountryCode:  firstNonEmpty(addr.CountryCode),
		Province:     firstNonEmpty(addr.Province),
		ProvinceCode: firstNonEmpty(addr.ProvinceCode),
		Zip:          firstNonEmpty(addr.Zip),
	}
}

// firstNonEmpty returns a pointer to the first non-empty value, or nil.
func firstNonEmpty(vals ...string) *string {
	for _, v := range vals {
		if v != "" {
			return &v
		}
	}
	return nil
}
