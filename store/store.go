// Package store defines the contracts shared by the durable backends and the
// in-memory cache in front of them.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Kind separates the values stored under the same key, so that e.g. a string
// and a JSON document with the same key don't overwrite each other.
type Kind string

// Value kinds.
const (
	KindBytes  Kind = "b"
	KindString Kind = "s"
	KindJSON   Kind = "j"
)

// ErrEmptyKey is returned when an empty key is used.
var ErrEmptyKey = errors.New("key must not be empty")

// Backend is a durable key-value store. A missing key is reported with
// ok=false and a nil error. The error is reserved for actual I/O failures.
type Backend interface {
	Get(kind Kind, key string) (value []byte, ok bool, err error)
	Put(kind Kind, key string, value []byte) error
}

// GetBytes returns the bytes stored under key.
func GetBytes(b Backend, key string) ([]byte, bool, error) {
	return b.Get(KindBytes, key)
}

// PutBytes stores value under key.
func PutBytes(b Backend, key string, value []byte) error {
	return b.Put(KindBytes, key, value)
}

// GetString returns the string stored under key.
func GetString(b Backend, key string) (string, bool, error) {
	val, ok, err := b.Get(KindString, key)
	if err != nil || !ok {
		return "", ok, err
	}
	return string(val), true, nil
}

// PutString stores value under key.
func PutString(b Backend, key, value string) error {
	return b.Put(KindString, key, []byte(value))
}

// GetJSON decodes the JSON document stored under key into a new T.
func GetJSON[T any](b Backend, key string) (*T, bool, error) {
	data, ok, err := b.Get(KindJSON, key)
	if err != nil || !ok {
		return nil, ok, err
	}

	v := new(T)
	if err = json.Unmarshal(data, v); err != nil {
		return nil, false, fmt.Errorf("failed decoding JSON value of key '%s': %w", key, err)
	}

	return v, true, nil
}

// PutJSON stores value under key as an indented JSON document.
func PutJSON(b Backend, key string, value any) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("failed encoding JSON value of key '%s': %w", key, err)
	}
	return b.Put(KindJSON, key, data)
}
