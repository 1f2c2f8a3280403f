package domain

import (
	"fmt"
	"strings"
)

// NotifyChannel is a delivery channel for the signing link
type NotifyChannel string

const (
	ChannelSMS   NotifyChannel = "sms"
	ChannelEmail NotifyChannel = "email"
)

// ParseNotifyChannel validates and converts a string into a NotifyChannel
func ParseNotifyChannel(s string) (NotifyChannel, error) {
	switch NotifyChannel(s) {
	case ChannelSMS:
		return ChannelSMS, nil
	case ChannelEmail:
		return ChannelEmail, nil
	default:
		return "", fmt.Errorf("unknown notification channel %q", s)
	}
}

// ChannelSet is a fixed-capacity, deduplicated set of delivery channels.
// The capacity equals the number of known channels, so the set can never
// grow unbounded.
type ChannelSet struct {
	channels [2]NotifyChannel
	size     int
}

// Add inserts a channel into the set; duplicates are ignored
func (s *ChannelSet) Add(c NotifyChannel) {
	if s.Contains(c) {
		return
	}
	if s.size >= len(s.channels) {
		return
	}
	s.channels[s.size] = c
	s.size++
}

// Contains returns true if the channel is in the set
func (s *ChannelSet) Contains(c NotifyChannel) bool {
	for i := 0; i < s.size; i++ {
		if s.channels[i] == c {
			return true
		}
	}
	return false
}

// Len returns the number of channels in the set
func (s *ChannelSet) Len() int {
	return s.size
}

// Slice returns the channels in insertion order
func (s *ChannelSet) Slice() []NotifyChannel {
	out := make([]NotifyChannel, s.size)
	copy(out, s.channels[:s.size])
	return out
}

// String returns a comma-joined representation, the storage format
func (s ChannelSet) String() string {
	parts := make([]string, s.size)
	for i := 0; i < s.size; i++ {
		parts[i] = string(s.channels[i])
	}
	return strings.Join(parts, ",")
}

// ParseChannelSet restores a ChannelSet from its storage format.
// Unknown channel names are skipped.
func ParseChannelSet(s string) ChannelSet {
	var set ChannelSet
	if s == "" {
		return set
	}
	for _, part := range strings.Split(s, ",") {
		c, err := ParseNotifyChannel(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		set.Add(c)
	}
	return set
}
