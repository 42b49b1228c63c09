package audio

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"
)

// CommandFunc builds the process that plays a file
type CommandFunc func(file string) (*exec.Cmd, error)

// Device is the application's single playback handle. Only one stream plays
// at a time; starting playback stops whatever was playing before.
type Device struct {
	mu      sync.Mutex
	command CommandFunc
	file    string
	cmd     *exec.Cmd
	done    chan struct{}
}

// NewDevice creates a playback device that uses the platform's audio player
func NewDevice() *Device {
	return NewDeviceWithCommand(PlayerCommand)
}

// NewDeviceWithCommand creates a device with a custom player command
func NewDeviceWithCommand(command CommandFunc) *Device {
	return &Device{command: command}
}

// Load selects the file for the next Play, stopping current playback
func (d *Device) Load(file string) error {
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("cannot load audio file: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.file = file
	return nil
}

// Play starts playback of the loaded file in the background
func (d *Device) Play() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.file == "" {
		return fmt.Errorf("no audio file loaded")
	}

	d.stopLocked()

	cmd, err := d.command(d.file)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start audio player: %w", err)
	}

	done := make(chan struct{})
	d.cmd = cmd
	d.done = done

	go func() {
		// Exit status is irrelevant: a killed player is a stopped one
		_ = cmd.Wait()
		close(done)
	}()

	return nil
}

// Stop halts playback immediately
func (d *Device) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
}

// stopLocked kills the player process and waits for it to be reaped
func (d *Device) stopLocked() {
	if d.cmd == nil {
		return
	}
	if d.cmd.Process != nil {
		if err := d.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			fmt.Printf("Warning: failed to stop audio player: %v\n", err)
		}
	}
	<-d.done
	d.cmd = nil
	d.done = nil
}

// Unload stops playback and forgets the loaded file
func (d *Device) Unload() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.file = ""
}

// Busy reports whether audio is currently playing
func (d *Device) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.done == nil {
		return false
	}
	select {
	case <-d.done:
		return false
	default:
		return true
	}
}

// Loaded returns the currently loaded file
func (d *Device) Loaded() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.file
}

// PlayerCommand returns the platform-specific command that plays file to completion
func PlayerCommand(file string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case "darwin": // macOS
		return exec.Command("afplay", file), nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		if _, err := exec.LookPath("mpg123"); err == nil {
			return exec.Command("mpg123", "-q", file), nil
		} else if _, err := exec.LookPath("ffplay"); err == nil {
			return exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", file), nil
		} else if _, err := exec.LookPath("play"); err == nil {
			// SoX play command
			return exec.Command("play", "-q", file), nil
		} else if _, err := exec.LookPath("paplay"); err == nil {
			return exec.Command("paplay", file), nil
		} else if _, err := exec.LookPath("aplay"); err == nil {
			return exec.Command("aplay", "-q", file), nil
		}
		return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		// PowerShell's media player blocks until the file has been played
		script := fmt.Sprintf("(New-Object Media.SoundPlayer %s).PlaySync()", powerShellQuote(file))
		return exec.Command("powershell", "-NoProfile", "-Command", script), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// powerShellQuote wraps s in single quotes; embedded quotes are doubled
func powerShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
