package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateDocument = errors.New("document already exists")
	ErrDuplicateCategory = errors.New("category already exists")
	ErrInvalidDocument   = errors.New("document must contain digits")
)

// mapeia erro de chave duplicada (11000) para o sentinel do domínio
func mapDuplicate(err error, sentinel error) error {
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return sentinel
	}
	return err
}

func mapNoDocuments(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
