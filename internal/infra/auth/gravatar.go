package auth

import (
	"crypto/md5" //nolint:gosec // gravatar addresses avatars by the md5 of the email
	"encoding/hex"
	"net/url"
	"strconv"

	"postboard/config"
	"postboard/internal/domain/entity"
	"postboard/internal/domain/service"
)

const gravatarBaseURL = "//www.gravatar.com/avatar/"

type gravatarResolver struct {
	size     int
	rating   string
	fallback string
}

// NewGravatarResolver builds protocol-relative gravatar URLs from configuration.
func NewGravatarResolver(cfg *config.Config) service.AvatarResolver {
	return &gravatarResolver{
		size:     cfg.Avatar.Size,
		rating:   cfg.Avatar.Rating,
		fallback: cfg.Avatar.Default,
	}
}

// AvatarURL returns e.g. //www.gravatar.com/avatar/<md5>?d=mm&r=pg&s=200
func (r *gravatarResolver) AvatarURL(email string) string {
	sum := md5.Sum([]byte(entity.NormalizeEmail(email))) //nolint:gosec // see import

	query := url.Values{}
	if r.size > 0 {
		query.Set("s", strconv.Itoa(r.size))
	}
	if r.rating != "" {
		query.Set("r", r.rating)
	}
	if r.fallback != "" {
		query.Set("d", r.fallback)
	}

	avatar := gravatarBaseURL + hex.EncodeToString(sum[:])
	if encoded := query.Encode(); encoded != "" {
		avatar += "?" + encoded
	}

	return avatar
}
