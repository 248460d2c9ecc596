package history

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// DomainItem is the domain prefix for item ids.
// The version suffix leaves room for a future algorithm change.
const DomainItem = "histview/item/v1"

// visitDayLayout buckets visits by UTC calendar day.
const visitDayLayout = "2006-01-02"

// hashWithDomain computes SHA256(domain + 0x00 + data) as hex.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ItemID computes the content-addressed id of a history entry.
//
// The history keeps one entry per page per source per day: visiting the
// same page twice on the same UTC day yields the same id, so the second
// visit updates the first instead of adding a row.
func ItemID(sourceID, pageURL string, visitedAt time.Time) (string, error) {
	if sourceID == "" {
		return "", fmt.Errorf("ItemID: source id is required")
	}
	if pageURL == "" {
		return "", fmt.Errorf("ItemID: page url is required")
	}

	canonical, err := MarshalCanonical(map[string]any{
		"source_id": sourceID,
		"page_url":  pageURL,
		"visit_day": visitedAt.UTC().Format(visitDayLayout),
	})
	if err != nil {
		return "", fmt.Errorf("ItemID: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainItem, canonical), nil
}

// MustItemID is ItemID for fixtures and tests. Panics on error.
func MustItemID(sourceID, pageURL string, visitedAt time.Time) string {
	id, err := ItemID(sourceID, pageURL, visitedAt)
	if err != nil {
		panic(err)
	}
	return id
}
