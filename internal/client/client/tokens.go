package client

import (
	"context"

	"github.com/dmitrijs2005/socialhub/internal/client/repositories/metadata"
)

const (
	accessTokenKey  = "access_token"
	refreshTokenKey = "refresh_token"
)

// Tokens is the session pair held by a logged in CLI.
type Tokens struct {
	AccessToken  string
	RefreshToken string
}

// TokenStore persists the session pair in the metadata table.
type TokenStore struct {
	repo metadata.Repository
}

func NewTokenStore(repo metadata.Repository) *TokenStore {
	return &TokenStore{repo: repo}
}

func (s *TokenStore) Load(ctx context.Context) (Tokens, error) {
	access, err := s.repo.Get(ctx, accessTokenKey)
	if err != nil {
		return Tokens{}, err
	}
	refresh, err := s.repo.Get(ctx, refreshTokenKey)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{AccessToken: string(access), RefreshToken: string(refresh)}, nil
}

func (s *TokenStore) Save(ctx context.Context, t Tokens) error {
	if err := s.repo.Set(ctx, accessTokenKey, []byte(t.AccessToken)); err != nil {
		return err
	}
	return s.repo.Set(ctx, refreshTokenKey, []byte(t.RefreshToken))
}

func (s *TokenStore) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, accessTokenKey, refreshTokenKey)
}
