package redis

const (
	// KeyPrefixProfile is the prefix for profile document keys
	KeyPrefixProfile = "linkring:profile:"
	// KeyPrefixLink is the prefix for link document keys
	KeyPrefixLink = "linkring:link:"
	// KeyAllLinks is the key for the set of all link IDs
	KeyAllLinks = "linkring:links:all"

	// ChannelLinks is the pub/sub channel notified on every link collection change
	ChannelLinks = "linkring:changed:links"
	// ChannelProfilePrefix is the pub/sub channel prefix for per-user profile changes
	ChannelProfilePrefix = "linkring:changed:profile:"
)

// ProfileKey returns the Redis key for a user's profile document
func ProfileKey(userID string) string {
	return KeyPrefixProfile + userID
}

// LinkKey returns the Redis key for a link document by ID
func LinkKey(id string) string {
	return KeyPrefixLink + id
}

// AllLinksKey returns the key for the set of all link IDs
func AllLinksKey() string {
	return KeyAllLinks
}

// ProfileChannel returns the pub/sub channel for a user's profile document
func ProfileChannel(userID string) string {
	return ChannelProfilePrefix + userID
}
