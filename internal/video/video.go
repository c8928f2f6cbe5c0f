package video

import (
	"context"
	"fmt"
	"os/exec"
)

// VideoEncoder turns a numbered sequence of preview frames into a clip.
type VideoEncoder interface {
	Assemble(ctx context.Context, framePattern string, fps int, outputPath string) error
}

type FFmpegEncoder struct {
	Name    string // libx264, h264_nvenc, h264_videotoolbox
	Quality int
}

func NewFFmpegEncoder(name string, quality int) *FFmpegEncoder {
	if name == "" {
		name = "libx264"
	}
	return &FFmpegEncoder{Name: name, Quality: quality}
}

// Assemble encodes frames matching framePattern (printf style, e.g. frame_%05d.png).
func (e *FFmpegEncoder) Assemble(ctx context.Context, framePattern string, fps int, outputPath string) error {
	if fps <= 0 {
		return fmt.Errorf("fps must be positive, got %d", fps)
	}
	args := e.buildFFmpegArgs(framePattern, fps, outputPath)

	cmd := exec.CommandContext(ctx, "ffmpeg", args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg assemble error: %w, output: %s", err, string(out))
	}
	return nil
}

func (e *FFmpegEncoder) buildFFmpegArgs(framePattern string, fps int, outputPath string) []string {
	args := []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", framePattern,
		// yuv420p требует четных размеров кадра
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-r", fmt.Sprintf("%d", fps),
		"-pix_fmt", "yuv420p",
		"-c:v", e.Name,
	}

	// Качество в зависимости от энкодера
	switch e.Name {
	case "h264_videotoolbox":
		bitrate := e.Quality * 100
		args = append(args, "-b:v", fmt.Sprintf("%dk", bitrate))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", e.Quality))
	default: // libx264
		args = append(args, "-crf", fmt.Sprintf("%d", e.Quality), "-preset", "medium")
	}

	args = append(args, outputPath)
	return args
}
