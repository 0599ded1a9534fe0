package service

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"
)

const base36Chars = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewBookingReference generates a human-shareable booking reference:
// BK-<base36 epoch millis>-<5 random base36 chars>, upper-cased.
// Collisions are astronomically rare; the store's unique constraint on
// booking_reference is the authoritative guard.
func NewBookingReference() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	suffix := make([]byte, 5)
	for i := range suffix {
		suffix[i] = base36Chars[rand.Intn(len(base36Chars))]
	}

	return strings.ToUpper(fmt.Sprintf("BK-%s-%s", ts, suffix))
}
