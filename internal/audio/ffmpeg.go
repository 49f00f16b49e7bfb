// Package audio converts downloaded media into audio files using
// FFmpeg, embedding metadata and cover art.
package audio

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
)

// Supported audio file extensions and their corresponding FFmpeg codecs and formats
var supportedExtensions = map[string]struct {
	codec  string
	format string
}{
	"mp3":  {"libmp3lame", "mp3"},
	"m4a":  {"aac", "mp4"},
	"wav":  {"pcm_s16le", "wav"},
	"flac": {"flac", "flac"},
}

const (
	defaultAudioBitrate = "192k"
	defaultID3Version   = "3"
)

var (
	ErrFileNotFound      = fmt.Errorf("file not found")
	ErrFileEmpty         = fmt.Errorf("file is empty")
	ErrUnsupportedFormat = fmt.Errorf("unsupported output format")
)

// ffmpegError wraps FFmpeg command errors with additional context
type ffmpegError struct {
	cmd     string
	output  string
	wrapped error
}

func (e *ffmpegError) Error() string {
	return fmt.Sprintf("ffmpeg error: %s\nCommand: %s\nOutput: %s", e.wrapped, e.cmd, e.output)
}

func (e *ffmpegError) Unwrap() error {
	return e.wrapped
}

// newFFmpegError creates a new ffmpegError with truncated command output
func newFFmpegError(cmd *exec.Cmd, output []byte, err error) error {
	cmdStr := cmd.String()
	if len(cmdStr) > 200 {
		cmdStr = cmdStr[:200] + "..."
	}
	outStr := string(output)
	if len(outStr) > 500 {
		outStr = outStr[len(outStr)-500:]
	}
	return &ffmpegError{
		cmd:     cmdStr,
		output:  outStr,
		wrapped: err,
	}
}

type ffmpeg struct{}

func NewFFMPEGEngine() *ffmpeg {
	return &ffmpeg{}
}

func (f *ffmpeg) validateFile(path string) error {
	fileInfo, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return fmt.Errorf("unable to access file: %s: %w", path, err)
	}

	if fileInfo.Size() == 0 {
		return fmt.Errorf("%w: %s", ErrFileEmpty, path)
	}

	return nil
}

// Transcode converts the raw input into the target container. The
// output is written to a temporary path and renamed into place, so a
// partially written file is never visible under the final name.
func (f *ffmpeg) Transcode(ctx context.Context, p TranscodeParams) error {
	if err := f.validateFile(p.InputPath); err != nil {
		return fmt.Errorf("transcode failed: %w", err)
	}

	if _, ok := supportedExtensions[p.FileExtension]; !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, p.FileExtension)
	}

	if err := os.MkdirAll(filepath.Dir(p.OutputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tempPath := tempOutputPath(p.OutputPath)
	defer os.Remove(tempPath)

	withCover := p.CoverArtPath != ""
	if withCover {
		if err := f.validateFile(p.CoverArtPath); err != nil {
			slog.Warn("Cover art unusable, producing cover-less output", "cover", p.CoverArtPath, "error", err)
			withCover = false
		}
	}

	if withCover {
		if err := f.run(ctx, buildArgs(p, tempPath, true)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Cover embedding is best-effort; fall back rather than
			// failing the item.
			slog.Warn("Cover art embedding failed, retrying without cover", "output", p.OutputPath, "error", err)
			withCover = false
		}
	}

	if !withCover {
		if err := f.run(ctx, buildArgs(p, tempPath, false)); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
	}

	if err := os.Rename(tempPath, p.OutputPath); err != nil {
		return fmt.Errorf("failed to move output into place: %w", err)
	}

	return nil
}

func (f *ffmpeg) run(ctx context.Context, args []string) error {
	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return newFFmpegError(cmd, output, err)
	}
	return nil
}

// buildArgs assembles the ffmpeg invocation for one transcode.
func buildArgs(p TranscodeParams, outputPath string, withCover bool) []string {
	codecInfo := supportedExtensions[p.FileExtension]

	bitrate := p.Bitrate
	if bitrate == "" {
		bitrate = defaultAudioBitrate
	}

	args := []string{
		"-y",
		"-i", p.InputPath,
	}

	if withCover {
		args = append(args,
			"-i", p.CoverArtPath,
			"-map", "0:a",
			"-map", "1:v",
			"-c:v", "mjpeg",
			"-disposition:v:0", "attached_pic",
			"-metadata:s:v", "title=Album cover",
			"-metadata:s:v", "comment=Cover (front)",
		)
	} else {
		args = append(args, "-vn")
	}

	args = append(args,
		"-c:a", codecInfo.codec,
		"-b:a", bitrate,
		"-f", codecInfo.format,
		"-id3v2_version", defaultID3Version,
	)

	if p.Title != "" {
		args = append(args, "-metadata", fmt.Sprintf("title=%s", p.Title))
	}

	args = append(args, outputPath)
	return args
}

// tempOutputPath derives the hidden temporary path the transcode
// writes to before the atomic rename.
func tempOutputPath(outputPath string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	return filepath.Join(dir, "."+base+".part")
}
