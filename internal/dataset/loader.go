// Package dataset locates and validates the bundled dictionary image.
//
// The image is tried at a primary location and, on any failure, at a
// secondary one. There are no retries beyond that single fallback.
package dataset

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/http"
)

// Signature is the 16-byte header every SQLite database file starts with.
var Signature = []byte("SQLite format 3\x00")

var (
	ErrInvalidSignature = errors.New("dataset is not a SQLite database")
	ErrUnavailable      = errors.New("dataset unavailable at every location")
)

// Loader fetches the dataset from Primary, falling back to Secondary.
type Loader struct {
	Primary   Source
	Secondary Source
}

// NewLoader builds a loader from two locations (paths or http(s) URLs).
// client is used for http(s) locations and may be nil.
func NewLoader(primary, secondary string, client *http.Client) *Loader {
	return &Loader{
		Primary:   NewSource(primary, client),
		Secondary: NewSource(secondary, client),
	}
}

// Fetch returns the raw bytes from the first location that answers.
// It does not check the bytes.
func (l *Loader) Fetch(ctx context.Context) ([]byte, error) {
	data, primaryErr := l.Primary.Fetch(ctx)
	if primaryErr == nil {
		return data, nil
	}
	log.Printf("Dataset: primary location %s failed: %v", l.Primary.Location(), primaryErr)

	if l.Secondary == nil {
		return nil, errors.Join(ErrUnavailable, primaryErr)
	}

	data, secondaryErr := l.Secondary.Fetch(ctx)
	if secondaryErr == nil {
		log.Printf("Dataset: loaded from secondary location %s", l.Secondary.Location())
		return data, nil
	}
	log.Printf("Dataset: secondary location %s failed: %v", l.Secondary.Location(), secondaryErr)

	return nil, errors.Join(ErrUnavailable, primaryErr, secondaryErr)
}

// Load fetches the image and checks its signature.
func (l *Loader) Load(ctx context.Context) ([]byte, error) {
	data, err := l.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := ValidateSignature(data); err != nil {
		return nil, err
	}
	return data, nil
}

// ValidateSignature reports ErrInvalidSignature unless data starts with the SQLite header.
func ValidateSignature(data []byte) error {
	if bytes.HasPrefix(data, Signature) {
		return nil
	}
	head := data
	if len(head) > len(Signature) {
		head = head[:len(Signature)]
	}
	return fmt.Errorf("%w: header %s", ErrInvalidSignature, hex.EncodeToString(head))
}
