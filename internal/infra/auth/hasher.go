package auth

import (
	"postboard/config"
	"postboard/internal/domain/service"
)

// NewPasswordHasher selects the hashing algorithm configured under auth.passwordAlgorithm.
func NewPasswordHasher(cfg *config.Config) service.PasswordHasher {
	if cfg.Auth.PasswordAlgorithm == config.PasswordAlgorithmArgon2id {
		return NewArgon2Hasher(DefaultArgon2Params())
	}

	return NewBcryptHasherWithCost(cfg.Auth.BcryptCost)
}
