package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/domain"
	"github.com/SIRI-bit-tech/MSE-Logistics-sub000/internal/repository"
)

// Reconciler converges validated external identity claims with the local
// account record. It never accepts a caller-supplied role and never mutates
// the role of an existing account.
type Reconciler struct {
	accounts repository.AccountRepository
	logger   *zap.Logger
}

// NewReconciler builds the reconciler.
func NewReconciler(accounts repository.AccountRepository, logger *zap.Logger) *Reconciler {
	return &Reconciler{accounts: accounts, logger: logger}
}

// Reconcile finds or creates the account bound to claims.Subject. The
// override profile, when present, supplies caller-editable fields; the
// email always comes from the validated claims when they carry one.
// Repeated calls with the same claims converge to the same state, and the
// returned bool reports whether this call created the account.
func (r *Reconciler) Reconcile(ctx context.Context, claims *domain.ExternalIdentity, override *domain.Profile) (*domain.Account, bool, error) {
	profile := mergeProfile(claims, override)

	if _, err := r.accounts.FindByExternalID(ctx, claims.Subject); err == nil {
		updated, err := r.accounts.UpdateProfile(ctx, claims.Subject, profile)
		if err != nil {
			return nil, false, err
		}
		return updated, false, nil
	} else if !errors.Is(err, repository.ErrAccountNotFound) {
		return nil, false, err
	}

	created, err := r.accounts.Create(ctx, claims.Subject, profile)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, repository.ErrDuplicateExternalID) {
		return nil, false, err
	}

	// A concurrent first sync won the race on the unique constraint. Adopt
	// the winner instead of failing.
	r.logger.Debug("concurrent provisioning detected, adopting existing account",
		zap.String("external_id", claims.Subject))
	winner, err := r.accounts.FindByExternalID(ctx, claims.Subject)
	if err != nil {
		return nil, false, err
	}
	return winner, false, nil
}

// mergeProfile builds the profile to persist. Claims are the trusted source
// for email and, absent caller input, the name fields.
func mergeProfile(claims *domain.ExternalIdentity, override *domain.Profile) domain.Profile {
	first, last := claims.FirstLast()
	profile := domain.Profile{
		Email:     claims.Email,
		FirstName: first,
		LastName:  last,
	}

	if override == nil {
		return profile
	}
	if override.FirstName != "" {
		profile.FirstName = override.FirstName
	}
	if override.LastName != "" {
		profile.LastName = override.LastName
	}
	if profile.Email == "" {
		profile.Email = override.Email
	}
	profile.Phone = override.Phone
	profile.Avatar = override.Avatar
	return profile
}
