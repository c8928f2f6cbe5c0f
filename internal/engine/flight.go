package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/sync/errgroup"

	"github.com/ivlev/scrollrig/internal/analyzer"
	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/renderer"
	"github.com/ivlev/scrollrig/internal/source"
	"github.com/ivlev/scrollrig/internal/system"
	"github.com/ivlev/scrollrig/internal/trace"
	"github.com/ivlev/scrollrig/internal/video"
)

// FramePattern names preview frames inside the frames directory.
const FramePattern = "frame_%05d.png"

// ThumbnailScale divides the preview size for the flight thumbnail.
const ThumbnailScale = 4

// Flight runs the control loop offline over a recorded or scripted input.
type Flight struct {
	Config    *config.Config
	World     *World
	Source    source.Source
	Encoder   video.VideoEncoder
	Detectors []analyzer.Detector
	SceneName string
}

// Report summarizes a finished flight.
type Report struct {
	Trace     *trace.Trace
	Findings  []analyzer.Finding
	Previews  int
	Thumbnail string
	Skipped   int
	Video     string
}

func NewFlight(cfg *config.Config, w *World, src source.Source, ve video.VideoEncoder, detectors ...analyzer.Detector) *Flight {
	return &Flight{
		Config:    cfg,
		World:     w,
		Source:    src,
		Encoder:   ve,
		Detectors: detectors,
	}
}

func (f *Flight) Run(ctx context.Context) (*Report, error) {
	startTime := time.Now()

	frameCount := f.Source.FrameCount()
	if frameCount == 0 {
		return nil, fmt.Errorf("источник не содержит кадров")
	}

	fmt.Println("--- [PROJECT: SCROLL RIG] ---")
	fmt.Printf("[*] Сцена: %s | Кадров: %d | Точек интереса: %d\n", f.SceneName, frameCount, len(f.World.Points))
	fmt.Printf("[*] Путь: %.1f ед. | FRICTION_DISTANCE: %.1f\n", f.World.Curve.Length(), f.World.Tunables.FrictionDistance)
	fmt.Println("-----------------------------")

	// 1. Simulation (single-threaded, frame order matters)
	simStart := time.Now()
	tr, skipped, err := f.simulate(ctx, frameCount)
	if err != nil {
		return nil, err
	}
	simTime := time.Since(simStart)

	report := &Report{Trace: tr, Skipped: skipped}
	if skipped > 0 {
		fmt.Printf("[!] Пропущено кадров: %d\n", skipped)
	}

	// 2. Analysis
	for _, det := range f.Detectors {
		findings, err := det.Detect(tr)
		if err != nil {
			return nil, fmt.Errorf("ошибка анализа траектории: %w", err)
		}
		report.Findings = append(report.Findings, findings...)
	}
	for _, fd := range report.Findings {
		fmt.Printf("[*] %s: кадры %d-%d (%s, %.3f)\n", fd.Kind, fd.Start, fd.End, fd.Label, fd.Value)
	}

	if f.Config.TracePath != "" {
		if err := os.MkdirAll(filepath.Dir(f.Config.TracePath), 0755); err != nil {
			return nil, err
		}
		if err := trace.Write(tr, f.Config.TracePath); err != nil {
			return nil, fmt.Errorf("ошибка записи траектории: %w", err)
		}
		fmt.Printf("[*] Траектория сохранена: %s\n", f.Config.TracePath)
	}

	// 3. Previews (CPU bound, parallel)
	renderStart := time.Now()
	framesDir := filepath.Join(f.Config.OutputDir, "frames")
	if f.Config.PreviewStride > 0 {
		report.Previews, report.Thumbnail, err = f.renderPreviews(ctx, tr, framesDir)
		if err != nil {
			return nil, err
		}
	}
	renderTime := time.Since(renderStart)

	// 4. Optional video
	if f.Config.RenderVideo && report.Previews > 0 && f.Encoder != nil {
		fmt.Println("[*] Сборка видео из превью...")
		out := filepath.Join(f.Config.OutputDir, "flight.mp4")
		fps := max(f.Config.FPS/max(f.Config.PreviewStride, 1), 1)
		if err := f.Encoder.Assemble(ctx, filepath.Join(framesDir, FramePattern), fps, out); err != nil {
			return nil, fmt.Errorf("ошибка сборки видео: %w", err)
		}
		report.Video = out
	}

	if f.Config.ShowStats {
		totalTime := time.Since(startTime)
		fps := float64(frameCount) / simTime.Seconds()
		fmt.Printf(
			"--- [PERFORMANCE REPORT] ---\n"+
				"Build: %s\n"+
				"Total Time: %.2fs\n"+
				"Simulation: %.3fs (%.0f frames/s)\n"+
				"Previews: %.2fs (%d, %d буферов)\n"+
				"----------------------------\n",
			f.Config.BuildVersion, totalTime.Seconds(), simTime.Seconds(), fps, renderTime.Seconds(), report.Previews, system.AllocatedFrames(),
		)
		stats, err := system.Snapshot()
		if err != nil {
			fmt.Printf("[!] Статистика неполная: %v\n", err)
		}
		fmt.Printf("[*] %s\n", stats)
	}

	return report, nil
}

func (f *Flight) simulate(ctx context.Context, frameCount int) (*trace.Trace, int, error) {
	state, err := f.World.Initial()
	if err != nil {
		return nil, 0, err
	}

	tr := &trace.Trace{
		Scene:    f.SceneName,
		Tunables: f.World.Tunables,
		Frames:   make([]trace.Frame, 0, frameCount),
	}
	for _, p := range f.World.Points {
		tr.Points = append(tr.Points, trace.Point{Label: p.Label, Position: vec(p.Position)})
	}

	skipped := 0
	for i := 0; i < frameCount; i++ {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
		}
		in, err := f.Source.Input(i)
		if err != nil {
			return nil, 0, fmt.Errorf("кадр %d: %w", i, err)
		}

		next, err := f.World.Update(state, in.Delta, in.Ratio)
		rejected := errors.Is(err, ErrInvalidDelta)
		switch {
		case rejected:
			skipped++
		case errors.Is(err, ErrNonFinite):
			fmt.Printf("[!] Кадр %d: %v\n", next.Frame, err)
		case err != nil:
			return nil, 0, fmt.Errorf("кадр %d: %w", i, err)
		}
		state = next

		rec := frameOf(state, in)
		rec.Skipped = rejected
		tr.Frames = append(tr.Frames, rec)
	}
	return tr, skipped, nil
}

func frameOf(s ControlLoopState, in source.Input) trace.Frame {
	a, b := s.Colors.Hex()
	return trace.Frame{
		Index:    s.Frame,
		Time:     s.Time,
		Delta:    in.Delta,
		Ratio:    in.Ratio,
		Progress: s.Progress.Last,
		Position: vec(s.Rig.Position),
		Look:     vec(s.Rig.LookDir()),
		Rail:     s.Rig.Rail.X(),
		Bank:     mgl64.RadToDeg(s.Body.Bank),
		Roll:     mgl64.RadToDeg(s.Body.Roll()),
		Near:     s.Near.Index,
		ColorA:   a,
		ColorB:   b,
	}
}

func vec(v mgl64.Vec3) trace.Vec {
	return trace.Vec{v[0], v[1], v[2]}
}

// milestoneCount is the number of arc-length spans marked on previews.
const milestoneCount = 10

func (f *Flight) renderPreviews(ctx context.Context, tr *trace.Trace, dir string) (int, string, error) {
	preview, err := renderer.NewPreview(f.World.Polyline(), f.World.Points, f.Config.PreviewWidth, f.Config.PreviewHeight)
	if err != nil {
		return 0, "", err
	}
	marks, err := f.World.Milestones(milestoneCount)
	if err != nil {
		return 0, "", err
	}
	preview.SetMilestones(marks)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, "", err
	}

	var frames []trace.Frame
	for i, fr := range tr.Accepted() {
		if i%f.Config.PreviewStride == 0 {
			frames = append(frames, fr)
		}
	}
	if len(frames) == 0 {
		return 0, "", nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(f.Config.Workers, 1))
	for n, fr := range frames {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			img := preview.Render(fr)
			defer system.PutImage(img)

			path := filepath.Join(dir, fmt.Sprintf(FramePattern, n))
			if err := renderer.SavePNG(img, path); err != nil {
				return fmt.Errorf("превью %d: %w", n, err)
			}
			if (n+1)%100 == 0 || n+1 == len(frames) {
				fmt.Printf("[>] Ready: %d/%d\n", n+1, len(frames))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, "", err
	}

	// the last frame, scaled down, stands for the whole flight
	img := preview.Render(frames[len(frames)-1])
	defer system.PutImage(img)
	thumb := renderer.Thumbnail(img, max(f.Config.PreviewWidth/ThumbnailScale, 1), max(f.Config.PreviewHeight/ThumbnailScale, 1))
	thumbPath := filepath.Join(f.Config.OutputDir, "thumbnail.png")
	if err := renderer.SavePNG(thumb, thumbPath); err != nil {
		return 0, "", fmt.Errorf("миниатюра: %w", err)
	}
	fmt.Printf("[*] Миниатюра: %s\n", thumbPath)

	return len(frames), thumbPath, nil
}
