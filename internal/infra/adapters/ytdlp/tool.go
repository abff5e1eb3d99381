package ytdlp

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
)

var _ adapter.MediaTool = (*Tool)(nil)

// Runner abstracts command execution so tests can fake the external process.
type Runner interface {
	Run(ctx context.Context, binary string, args []string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, binary string, args []string) ([]byte, error) {
	return exec.CommandContext(ctx, binary, args...).CombinedOutput()
}

// Tool drives the yt-dlp binary for subtitle and audio acquisition.
// The tool's exit code is unreliable for the subtitle path (yt-dlp exits 0
// when no auto-subs exist), so success is judged by the output file showing
// up on disk.
type Tool struct {
	binary  string
	tempDir string
	lang    string
	runner  Runner
	log     *zerolog.Logger
}

func New(binary, tempDir, lang string, log *zerolog.Logger) *Tool {
	if binary == "" {
		binary = "yt-dlp"
	}
	if lang == "" {
		lang = "en"
	}
	return &Tool{binary: binary, tempDir: tempDir, lang: lang, runner: execRunner{}, log: log}
}

// WithRunner replaces the process runner; test hook.
func (t *Tool) WithRunner(r Runner) *Tool {
	t.runner = r
	return t
}

func (t *Tool) DownloadSubtitles(ctx context.Context, videoRef, destBase string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(destBase), 0o755); err != nil {
		return "", err
	}
	args := []string{
		"--write-auto-sub",
		"--sub-lang", t.lang,
		"--skip-download",
		"--output", destBase,
		videoRef,
	}
	out, err := t.runner.Run(ctx, t.binary, args)
	if err != nil {
		t.log.Debug().Err(err).Str("video", videoRef).Bytes("output", out).Msg("yt-dlp subtitle run failed")
	}

	want := destBase + "." + t.lang + ".vtt"
	if waitForFile(ctx, want, 2*time.Second) {
		return want, nil
	}
	return "", domain.ErrTranscriptUnavailable
}

func (t *Tool) DownloadAudio(ctx context.Context, videoRef string) (string, error) {
	dir := filepath.Join(t.tempDir, "audio")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dest := filepath.Join(dir, uuid.NewString()+".m4a")

	args := []string{
		"-x",
		"--audio-format", "m4a",
		"-o", dest,
		"--extractor-args", "youtube:player_client=default",
		"--no-playlist",
		videoRef,
	}
	out, err := t.runner.Run(ctx, t.binary, args)
	if err != nil {
		return "", fmt.Errorf("yt-dlp failed to download audio: %w (%s)", err, string(out))
	}
	if !waitForFile(ctx, dest, 2*time.Second) {
		return "", fmt.Errorf("yt-dlp reported success but %s does not exist", dest)
	}
	return dest, nil
}

// waitForFile polls for path until it exists or the grace period elapses.
func waitForFile(ctx context.Context, path string, grace time.Duration) bool {
	deadline := time.Now().Add(grace)
	for {
		if _, err := os.Stat(path); err == nil {
			return true
		}
		if time.Now().After(deadline) || ctx.Err() != nil {
			return false
		}
		time.Sleep(100 * time.Millisecond)
	}
}
