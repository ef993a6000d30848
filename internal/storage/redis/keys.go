package redis

import (
	"fmt"
	"strings"

	"github.com/mcoot/stadiumdash/internal/model"
)

// Key prefix for all dashboard data
const keyPrefix = "stadiumdash"

// accountKey returns the Redis key for an Account
func accountKey(uid model.UserID) string {
	return fmt.Sprintf("%s:account:%s", keyPrefix, uid)
}

// emailIndexKey returns the Redis key for the email -> uid index
func emailIndexKey(email string) string {
	return fmt.Sprintf("%s:idx:email:%s", keyPrefix, strings.ToLower(email))
}

// federatedIndexKey returns the Redis key for the provider subject -> uid index
func federatedIndexKey(provider model.Provider, subject string) string {
	return fmt.Sprintf("%s:idx:federated:%s:%s", keyPrefix, provider, subject)
}

// resetTokenKey returns the Redis key for a ResetToken
func resetTokenKey(token string) string {
	return fmt.Sprintf("%s:reset:%s", keyPrefix, token)
}

// managerKey mirrors the managers/{uid} document path
func managerKey(uid model.UserID) string {
	return fmt.Sprintf("%s:managers:%s", keyPrefix, uid)
}

// stadiumKey mirrors the stadiums/{id} document path
func stadiumKey(id model.StadiumID) string {
	return fmt.Sprintf("%s:stadiums:%s", keyPrefix, id)
}
