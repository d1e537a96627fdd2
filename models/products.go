package models

// Product represents a product in the catalog.
// It belongs to exactly one category and may carry any number of tags.
type Product struct {
	ID          uint     `gorm:"primaryKey"`
	Name        string   `gorm:"not null"`
	Cost        int64    `gorm:"not null"`
	Description string   `gorm:"type:text;not null"`
	CategoryID  uint     `gorm:"not null"`
	Category    Category `gorm:"foreignKey:CategoryID"`
	Tags        []Tag    `gorm:"many2many:products_tags;"`
}

func (p *Product) TableName() string {
	return "products"
}

// TagIDs returns the ids of the tags attached to the product, in load order.
func (p *Product) TagIDs() []uint {
	ids := make([]uint, len(p.Tags))
	for i, t := range p.Tags {
		ids[i] = t.ID
	}
	return ids
}

// ProductChangeSet holds the scalar columns written by an update.
type ProductChangeSet struct {
	Name        string
	Cost        int64
	Description string
	CategoryID  uint
}

func (c ProductChangeSet) toMap() map[string]interface{} {
	return map[string]interface{}{
		"name":        c.Name,
		"cost":        c.Cost,
		"description": c.Description,
		"category_id": c.CategoryID,
	}
}
