package services

import (
	"productcatalog/internal/models"
	"productcatalog/internal/validation"
)

// productField names a user-editable column of a product.
type productField string

const (
	fieldName        productField = "name"
	fieldDescription productField = "description"
	fieldPrice       productField = "price"
)

// changeSet lists the fields an update request actually changes.
type changeSet []productField

// diffProduct compares req against current field by field. A field counts
// as changed when it is present, non-blank, different from the stored value
// and, for price, positive.
func diffProduct(current models.Product, req models.ProductRequest) changeSet {
	var changes changeSet
	if !validation.IsBlank(req.Name) && *req.Name != current.Name {
		changes = append(changes, fieldName)
	}
	if !validation.IsBlank(req.Description) && *req.Description != current.Description {
		changes = append(changes, fieldDescription)
	}
	if req.Price != nil && req.Price.IsPositive() && !req.Price.Equal(current.Price) {
		changes = append(changes, fieldPrice)
	}
	return changes
}

func (c changeSet) empty() bool {
	return len(c) == 0
}

// apply copies the changed fields from req onto p.
func (c changeSet) apply(p *models.Product, req models.ProductRequest) {
	for _, f := range c {
		switch f {
		case fieldName:
			p.Name = *req.Name
		case fieldDescription:
			p.Description = *req.Description
		case fieldPrice:
			p.Price = *req.Price
		}
	}
}

func (c changeSet) strings() []string {
	out := make([]string, len(c))
	for i, f := range c {
		out[i] = string(f)
	}
	return out
}
