// Copyright Just Adios contributors.
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/base64"
	"fmt"
)

// NATS Key-Value store bucket names
const (
	KVStoreNameUsers    = "users"
	KVStoreNameMeetings = "meetings"
)

// Common key prefixes
const (
	// Entity prefixes
	KeyPrefixUser    = "user"
	KeyPrefixMeeting = "meeting"

	// Index prefixes
	KeyPrefixIndex       = "index"
	KeyPrefixIndexUser   = "user"
	KeyPrefixIndexZoomID = "zoom-user-id"
	KeyPrefixIndexUUID   = "zoom-uuid"
)

// KeyBuilder provides utilities for building consistent NATS KV keys.
// Values that come from Zoom, such as meeting UUIDs, can contain
// characters that are invalid in NATS keys, so those segments are
// base64 encoded with the URL-safe alphabet.
type KeyBuilder struct{}

// NewKeyBuilder creates a new key builder
func NewKeyBuilder() *KeyBuilder {
	return &KeyBuilder{}
}

// EntityKey builds a key for an entity (e.g., "meeting/uid-123")
func (kb *KeyBuilder) EntityKey(entityType, uid string) string {
	return fmt.Sprintf("%s/%s", entityType, uid)
}

// UniqueIndexKey builds a key for a unique index whose value is the
// entity UID (e.g., "index/zoom-uuid/<encoded uuid>")
func (kb *KeyBuilder) UniqueIndexKey(indexType, indexValue string) string {
	return fmt.Sprintf("%s/%s/%s", KeyPrefixIndex, indexType, kb.EncodeSegment(indexValue))
}

// IndexKey builds a key for a membership index with an empty value
// (e.g., "index/user/user-uid/meeting-uid")
func (kb *KeyBuilder) IndexKey(indexType, indexValue, entityUID string) string {
	return fmt.Sprintf("%s/%s/%s/%s", KeyPrefixIndex, indexType, kb.EncodeSegment(indexValue), entityUID)
}

// EncodeSegment encodes a single key segment for the NATS KV store.
// Already-safe segments pass through unchanged so that keys built from
// our own UIDs stay readable.
//
// NATS limitations: https://docs.nats.io/nats-concepts/jetstream/key-value-store#notes
func (kb *KeyBuilder) EncodeSegment(segment string) string {
	if isSafeSegment(segment) {
		return segment
	}
	return "b64." + base64.RawURLEncoding.EncodeToString([]byte(segment))
}

func isSafeSegment(segment string) bool {
	if segment == "" {
		return false
	}
	for _, c := range segment {
		switch {
		case c >= 'a' && c <= 'z':
		case c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
