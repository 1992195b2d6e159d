// Package media shells out to ffmpeg and ffprobe for the video features:
// probing uploaded match footage and cutting clips out of it.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Clipper wraps the external ffmpeg/ffprobe binaries. The zero value is not
// usable; construct it with the configured binary paths.
type Clipper struct {
	FFmpeg  string
	FFprobe string
}

// New returns a Clipper, defaulting to binaries on PATH when the configured
// paths are empty.
func New(ffmpeg, ffprobe string) Clipper {
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return Clipper{FFmpeg: ffmpeg, FFprobe: ffprobe}
}

// Duration probes a video file and returns its duration in seconds.
func (cl Clipper) Duration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, cl.FFprobe,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return 0, fmt.Errorf("ffprobe %s: %w: %s", path, err, stderr.String())
	}

	var probe struct {
		Format struct {
			Duration string `json:"duration"`
		} `json:"format"`
	}
	if err := json.Unmarshal(out.Bytes(), &probe); err != nil {
		return 0, fmt.Errorf("ffprobe %s: decode output: %w", path, err)
	}
	secs, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe %s: bad duration %q: %w", path, probe.Format.Duration, err)
	}
	return secs, nil
}

// Cut copies the [start, end) window of src into dst without re-encoding.
func (cl Clipper) Cut(ctx context.Context, src, dst string, start, end float64) error {
	cmd := exec.CommandContext(ctx, cl.FFmpeg,
		"-y",
		"-i", src,
		"-ss", fmt.Sprintf("%.3f", start),
		"-to", fmt.Sprintf("%.3f", end),
		"-c", "copy",
		dst)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg cut %s: %w: %s", src, err, stderr.String())
	}
	return nil
}
