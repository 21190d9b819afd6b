package service

// AvatarResolver derives an avatar reference from an email address.
type AvatarResolver interface {
	AvatarURL(email string) string
}
