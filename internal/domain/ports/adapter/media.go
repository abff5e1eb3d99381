package adapter

import "context"

// MediaTool is the port for the external subtitle/audio acquisition process
// (yt-dlp). Implementations poll for the expected output file rather than
// trusting the tool's exit code alone.
type MediaTool interface {
	// DownloadSubtitles writes auto-generated subtitles for videoRef to
	// destBase plus a language suffix and returns the resulting path.
	// Returns domain.ErrTranscriptUnavailable when the tool produced no
	// subtitle file.
	DownloadSubtitles(ctx context.Context, videoRef, destBase string) (string, error)

	// DownloadAudio extracts the audio track of videoRef into a temp file
	// and returns its path. The caller owns the file.
	DownloadAudio(ctx context.Context, videoRef string) (string, error)
}
