package core

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Clock is the wall-clock time source.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)

// IDGenerator produces unique opaque ids.
type IDGenerator interface {
	NewID() string
}

// IDFunc adapts a function to IDGenerator.
type IDFunc func() string

func (f IDFunc) NewID() string { return f() }

// UUIDGenerator returns random (v4) UUIDs.
func UUIDGenerator() IDGenerator {
	return IDFunc(func() string {
		return uuid.NewString()
	})
}

// FallbackGenerator builds ids from the clock plus a random suffix, in the
// form id-<unix millis>-<hex>.
func FallbackGenerator(clock Clock) IDGenerator {
	return IDFunc(func() string {
		var buf [6]byte
		suffix := ""
		if _, err := rand.Read(buf[:]); err == nil {
			suffix = hex.EncodeToString(buf[:])
		} else {
			suffix = fmt.Sprintf("%x", clock.Now().UnixNano())
		}
		return fmt.Sprintf("id-%d-%s", clock.Now().UnixMilli(), suffix)
	})
}

// SelectIDGenerator probes the uuid source once and picks a strategy.
func SelectIDGenerator(clock Clock) IDGenerator {
	if _, err := uuid.NewRandom(); err == nil {
		return UUIDGenerator()
	}
	return FallbackGenerator(clock)
}
