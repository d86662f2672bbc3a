package repository

import (
	"database/sql"

	"gorm.io/gorm"
)

// TxRunner is the slice of *gorm.DB the services need to run a multi-repository
// unit of work. *gorm.DB satisfies it directly.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
