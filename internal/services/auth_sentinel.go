package services

import (
	"sbd/internal/badge"
	"sbd/internal/models"
	"sbd/internal/providers"
	"sbd/internal/storage"
)

// AuthSentinel is the 401 side effect: erase the stored credential and
// raise the red alert badge. The in-flight request is not interrupted.
type AuthSentinel struct {
	store  *storage.Store
	badge  badge.Surface
	logger providers.Logger
}

func NewAuthSentinel(store *storage.Store, badgeSurface badge.Surface, logger providers.Logger) *AuthSentinel {
	return &AuthSentinel{
		store:  store,
		badge:  badgeSurface,
		logger: logger,
	}
}

func (a *AuthSentinel) HandleUnauthorized() {
	if err := a.store.ClearToken(); err != nil {
		a.logger.Errorf(providers.TypeApp, "clearing credential: %s", err)
	}
	a.badge.Set(models.BadgeColorAlert, "!")
}
