package product

import "strings"

// Gender values after normalization. The catalog historically stored mixed
// casing, so input is folded before the enum check.
const (
	GenderMen    = "men"
	GenderWomen  = "women"
	GenderUnisex = "unisex"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message,omitempty"`
}

// NormalizeGender folds a raw gender value onto the canonical enum. Returns
// the normalized value and whether it was recognized. Empty input is allowed
// and stays empty.
func NormalizeGender(raw string) (string, bool) {
	g := strings.ToLower(strings.TrimSpace(raw))

	switch g {
	case "", GenderMen, GenderWomen, GenderUnisex:
		return g, true
	default:
		return g, false
	}
}

// Validate applies the catalog rules that binding tags cannot express and
// normalizes the payload in place. It is independent of the persistence
// layer; repositories assume an already validated request.
func (r *CreateProductRequest) Validate() []FieldError {
	var errs []FieldError

	r.Name = strings.TrimSpace(r.Name)
	r.SKU = strings.TrimSpace(r.SKU)

	g, ok := NormalizeGender(r.Gender)
	if !ok {
		errs = append(errs, FieldError{
			Field:   "gender",
			Rule:    "oneof",
			Message: "must be one of men, women, unisex",
		})
	} else {
		r.Gender = g
	}

	if r.Discount > r.Price {
		errs = append(errs, FieldError{
			Field:   "discount",
			Rule:    "ltefield",
			Message: "must not exceed price",
		})
	}

	return errs
}
