package util

import "gorm.io/gorm"

type DbOptions struct {
	Transaction *gorm.DB
}

func ToPointer[T any](v T) *T {
	return &v
}
