package audio

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// CachingProvider keeps a copy of every synthesized word so that a word
// heard once during reading is not fetched again during the test. The cache
// lives only as long as the program run; ClearCache removes it.
type CachingProvider struct {
	provider Provider
	cacheDir string
	keyParts []string
}

// NewCachingProvider wraps provider with an on-disk cache below cacheDir.
// keyParts are the settings that influence the audio (voice, model, speed...).
func NewCachingProvider(provider Provider, cacheDir string, keyParts ...string) (*CachingProvider, error) {
	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &CachingProvider{
		provider: provider,
		cacheDir: cacheDir,
		keyParts: keyParts,
	}, nil
}

// NewSessionCache wraps provider with a cache in a fresh directory below
// parent (os.TempDir() when empty)
func NewSessionCache(provider Provider, parent string, keyParts ...string) (*CachingProvider, error) {
	dir, err := os.MkdirTemp(parent, "spellbee-audio-")
	if err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return NewCachingProvider(provider, dir, keyParts...)
}

// GenerateAudio serves the word from cache or delegates and stores the result
func (c *CachingProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	cacheFile := c.getCacheFilePath(text, filepath.Ext(outputFile))
	if _, err := os.Stat(cacheFile); err == nil {
		return copyFile(cacheFile, outputFile)
	}

	if err := c.provider.GenerateAudio(ctx, text, outputFile); err != nil {
		return err
	}

	_ = copyFile(outputFile, cacheFile) // Ignore cache errors
	return nil
}

// Name returns the wrapped provider name
func (c *CachingProvider) Name() string {
	return c.provider.Name()
}

// IsAvailable delegates to the wrapped provider
func (c *CachingProvider) IsAvailable() error {
	return c.provider.IsAvailable()
}

// getCacheFilePath generates a cache file path for the given text
func (c *CachingProvider) getCacheFilePath(text, ext string) string {
	h := md5.New()
	h.Write([]byte(strings.TrimSpace(text)))
	for _, part := range c.keyParts {
		h.Write([]byte{0})
		h.Write([]byte(part))
	}
	hash := hex.EncodeToString(h.Sum(nil))

	if ext == "" {
		ext = ".mp3"
	}

	// Use first 2 chars as subdirectory for better file system performance
	subdir := hash[:2]
	filename := hash[2:] + ext

	return filepath.Join(c.cacheDir, subdir, filename)
}

// ClearCache removes the cache directory and every clip in it
func (c *CachingProvider) ClearCache() error {
	if c.cacheDir == "" {
		return nil
	}
	return os.RemoveAll(c.cacheDir)
}

// copyFile copies a file from src to dst
func copyFile(src, dst string) error {
	dir := filepath.Dir(dst)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	source, err := os.Open(src)
	if err != nil {
		return err
	}
	defer source.Close()

	destination, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destination.Close()

	_, err = io.Copy(destination, source)
	return err
}
