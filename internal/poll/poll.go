// Package poll defines the immutable poll definition a moderator
// submits and the validation applied before it goes live.
package poll

import "fmt"

// Option is a single answer choice. Correct is moderator-declared
// metadata echoed back to clients; the engine never acts on it.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// Poll is a multiple-choice question. TimerSeconds is advisory display
// metadata unless auto-close is enabled server-side.
type Poll struct {
	Question     string   `json:"question"`
	Options      []Option `json:"options"`
	TimerSeconds int      `json:"timer"`
}

// Validate rejects polls a client form should never produce: an empty
// question, fewer than two options, or a blank option.
func (p Poll) Validate() error {
	if p.Question == "" {
		return fmt.Errorf("poll question is empty")
	}
	if len(p.Options) < 2 {
		return fmt.Errorf("poll needs at least 2 options, got %d", len(p.Options))
	}
	for i, opt := range p.Options {
		if opt.Text == "" {
			return fmt.Errorf("poll option %d has no text", i+1)
		}
	}
	if p.TimerSeconds < 0 {
		return fmt.Errorf("poll timer is negative")
	}
	return nil
}
