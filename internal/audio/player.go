// Package audio plays the kiosk's feedback cues (success, error,
// enter-name) through whatever command-line audio player the host has.
// Cues are fire-and-forget: they never block the session loop, and a
// missing player or sound directory just disables them.
package audio

import (
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

const (
	successFile   = "swipe-success.wav"
	errorFile     = "swipe-error.wav"
	enterNameFile = "swipe-boing.wav"
)

// players, in preference order.
var players = []string{
	"/usr/bin/afplay",
	"/usr/bin/play",
	"/usr/bin/ffplay",
	"/usr/bin/mplayer",
}

// Player plays cue files from a sound directory. A nil *Player is valid and
// silent, so callers never need to guard cue calls.
type Player struct {
	dir    string
	prog   string
	logger *slog.Logger
}

// NewPlayer returns a Player for the given sound directory, or nil when the
// directory is empty/missing or no known audio player binary exists.
func NewPlayer(dir string, logger *slog.Logger) *Player {
	if dir == "" {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		logger.Warn("sound directory unavailable, cues disabled", "dir", dir)
		return nil
	}
	for _, prog := range players {
		if _, err := os.Stat(prog); err == nil {
			return &Player{dir: dir, prog: prog, logger: logger}
		}
	}
	logger.Warn("no audio player found, cues disabled")
	return nil
}

// Success plays the recorded-attendance cue.
func (p *Player) Success() { p.play(successFile) }

// Error plays the invalid-input cue.
func (p *Player) Error() { p.play(errorFile) }

// EnterName plays the new-user cue before the enrollment prompt.
func (p *Player) EnterName() { p.play(enterNameFile) }

func (p *Player) play(name string) {
	if p == nil || p.prog == "" {
		return
	}
	cmd := exec.Command(p.prog, filepath.Join(p.dir, name))
	cmd.Stdout = nil
	cmd.Stderr = nil
	if err := cmd.Start(); err != nil {
		p.logger.Debug("audio cue failed", "file", name, "error", err)
		return
	}
	// Reap the player in the background so it doesn't linger as a zombie.
	go func() { _ = cmd.Wait() }()
}
