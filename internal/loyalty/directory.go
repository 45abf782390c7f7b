package loyalty

import "sort"

// DefaultCustomerName is used when a customer signs up without a name.
const DefaultCustomerName = "Customer"

// SignIn returns the customer for phone, creating it on first sign-in.
//
// The phone is normalized to digits; an empty result is a validation error.
// An existing record is returned unchanged (its name is never overwritten)
// and created is false. A new record starts with zero stamps and a signup
// activity entry is appended.
func SignIn(doc *Document, env Env, phone, name string) (c Customer, created bool, err error) {
	p := NormalizePhone(phone)
	if p == "" {
		return Customer{}, false, NewValidationError("phone", "phone number is required")
	}

	if existing, ok := doc.Customers[p]; ok {
		return existing, false, nil
	}

	name = normalizeText(name)
	if name == "" {
		name = DefaultCustomerName
	}

	c = Customer{
		Phone:     p,
		Name:      name,
		CreatedAt: env.nowMillis(),
	}
	if doc.Customers == nil {
		doc.Customers = make(map[string]Customer)
	}
	doc.Customers[p] = c
	AppendActivity(doc, env, ActivitySignup, p, nil)

	return c, true, nil
}

// Lookup finds a customer by phone or by derived code.
//
// A digit-normalized query that is a phone key wins. Otherwise the raw query
// is compared to each customer's derived code, in ascending phone order, and
// the first match is returned.
func Lookup(doc *Document, query string) (Customer, error) {
	if p := NormalizePhone(query); p != "" {
		if c, ok := doc.Customers[p]; ok {
			return c, nil
		}
	}

	for _, c := range doc.SortedCustomers() {
		if DeriveCode(c.Phone) == query {
			return c, nil
		}
	}

	return Customer{}, NewNotFoundError(query)
}

// SortedCustomers returns every customer ordered by phone.
func (d *Document) SortedCustomers() []Customer {
	out := make([]Customer, 0, len(d.Customers))
	for _, c := range d.Customers {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Phone < out[j].Phone })
	return out
}
