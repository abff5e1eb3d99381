package transcript

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
)

// Acquirer produces a cleaned plain-text transcript for a video reference.
// It prefers the cheap subtitle extraction and falls back to downloading the
// audio track and transcribing it with the generative capability. The
// fallback text is persisted to the path subtitles would have occupied so
// either path leaves the same artifact behind.
type Acquirer struct {
	tool        adapter.MediaTool
	transcriber adapter.AudioTranscriber
	tempDir     string
	lang        string
	log         *zerolog.Logger
}

func NewAcquirer(tool adapter.MediaTool, transcriber adapter.AudioTranscriber, tempDir, lang string, log *zerolog.Logger) *Acquirer {
	if lang == "" {
		lang = "en"
	}
	return &Acquirer{tool: tool, transcriber: transcriber, tempDir: tempDir, lang: lang, log: log}
}

// Acquire returns the normalized transcript for videoRef, or an error
// wrapping domain.ErrTranscriptUnavailable when both paths fail.
func (a *Acquirer) Acquire(ctx context.Context, videoRef string) (*model.Transcript, error) {
	base := filepath.Join(a.tempDir, "transcript", uuid.NewString())
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		return nil, fmt.Errorf("acquire transcript: %w", err)
	}

	path, err := a.tool.DownloadSubtitles(ctx, videoRef, base)
	if err != nil {
		if !errors.Is(err, domain.ErrTranscriptUnavailable) {
			return nil, fmt.Errorf("acquire transcript: %w", err)
		}
		a.log.Info().Str("video", videoRef).Msg("no auto subtitles, falling back to audio transcription")
		path, err = a.transcribeAudio(ctx, videoRef, base+"."+a.lang+".vtt")
		if err != nil {
			return nil, fmt.Errorf("acquire transcript: %w: %w", domain.ErrTranscriptUnavailable, err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("acquire transcript: read %s: %w", path, err)
	}
	return &model.Transcript{Text: Clean(string(raw)), Path: path}, nil
}

func (a *Acquirer) transcribeAudio(ctx context.Context, videoRef, transcriptPath string) (string, error) {
	if a.transcriber == nil {
		return "", errors.New("audio transcription not configured")
	}

	audioPath, err := a.tool.DownloadAudio(ctx, videoRef)
	if err != nil {
		return "", err
	}
	defer os.Remove(audioPath)

	audio, err := os.ReadFile(audioPath)
	if err != nil {
		return "", err
	}

	text, err := a.transcriber.TranscribeAudio(ctx, "audio/m4a", audio)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(transcriptPath, []byte(text), 0o644); err != nil {
		return "", err
	}
	return transcriptPath, nil
}
