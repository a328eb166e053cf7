package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var ErrWrongPassword = errors.New("wrong password")

// AdminService checks the single configured admin password. The password is
// hashed once at construction so it is not kept around in plain text.
type AdminService struct {
	hash []byte
}

func NewAdminService(password string) (*AdminService, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}

	return &AdminService{
		hash: hash,
	}, nil
}

func (s *AdminService) Login(_ context.Context, password string) error {
	if err := bcrypt.CompareHashAndPassword(s.hash, []byte(password)); err != nil {
		return ErrWrongPassword
	}

	return nil
}
