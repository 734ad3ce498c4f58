package llm

import (
	"errors"
	"strings"
)

// Mode controls how many model calls an analysis takes.
type Mode string

const (
	// ModeCombined asks for all three sections in one call.
	ModeCombined Mode = "combined"
	// ModeSeparate asks for transcript, summary and mind map in three calls.
	ModeSeparate Mode = "separate"
)

// ParseMode normalizes and validates a mode string. Empty input means combined.
func ParseMode(raw string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", string(ModeCombined):
		return ModeCombined, nil
	case string(ModeSeparate):
		return ModeSeparate, nil
	default:
		return "", errors.New("analysis mode is invalid")
	}
}
