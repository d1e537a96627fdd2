package models

// Tag is a label that can be attached to any number of products.
type Tag struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (t *Tag) TableName() string {
	return "tags"
}

// ProductTag is one row of the products_tags association table.
type ProductTag struct {
	ProductID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey"`
}

func (pt *ProductTag) TableName() string {
	return "products_tags"
}
