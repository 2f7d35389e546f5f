package service

import "github.com/stackit-qa/stackit-api/internal/domain"

// WritePolicy decides whether a profile may create or mutate content.
// Read operations are never policy-gated.
type WritePolicy func(profile *domain.Profile) bool

// DefaultWritePolicy permits USER and ADMIN profiles and denies GUEST.
func DefaultWritePolicy(profile *domain.Profile) bool {
	return profile.CanPost()
}
