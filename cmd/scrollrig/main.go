package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ivlev/scrollrig/internal/analyzer"
	"github.com/ivlev/scrollrig/internal/config"
	"github.com/ivlev/scrollrig/internal/director"
	"github.com/ivlev/scrollrig/internal/engine"
	"github.com/ivlev/scrollrig/internal/scene"
	"github.com/ivlev/scrollrig/internal/source"
	"github.com/ivlev/scrollrig/internal/system"
	"github.com/ivlev/scrollrig/internal/video"
)

var version = "dev"

func main() {
	scenePtr := flag.String("scene", "", "Путь к YAML-сцене (по умолчанию: встроенная reference-сцена)")
	scenarioPtr := flag.String("scenario", "", "Путь к сценарию прокрутки, 'latest' - самый свежий в internal/scenarios/")
	generatePtr := flag.Bool("generate-scenario", false, "Сгенерировать сценарий по точкам интереса сцены и выйти")
	scenarioDurationPtr := flag.Float64("scenario-duration", 20, "Длительность генерируемого сценария (сек)")
	recordingPtr := flag.String("recording", "", "Путь к записи кадров хоста (dt, ratio)")
	dumpScenePtr := flag.String("dump-scene", "", "Сохранить сцену в YAML и выйти")
	fpsPtr := flag.Int("fps", 60, "FPS симуляции")
	rampPtr := flag.Int("ramp", 600, "Кадров прокрутки от 0 до 1 (без сценария)")
	holdPtr := flag.Int("hold", 1200, "Кадров удержания в конце")
	outPtr := flag.String("out", "", "Папка результата (если пусто, генерируется в output/)")
	tracePtr := flag.String("trace", "", "Путь к траектории YAML (по умолчанию: <out>/trace.yaml)")
	widthPtr := flag.Int("width", 360, "Ширина превью")
	heightPtr := flag.Int("height", 640, "Высота превью")
	stridePtr := flag.Int("stride", 2, "Рисовать каждый N-й кадр, 0 - без превью")
	workersPtr := flag.Int("workers", runtime.NumCPU(), "Потоки")
	videoPtr := flag.Bool("video", false, "Собрать видео из превью")
	encoderPtr := flag.String("encoder", "auto", "Энкодер: auto, libx264, h264_nvenc, h264_videotoolbox")
	qualityPtr := flag.Int("quality", 0, "Качество видео (0 - авто, x264: CRF 1-51, VideoToolbox: битрейт = Q*100кбит/с)")
	statsPtr := flag.Bool("stats", false, "Показать отчет о производительности")
	detectorsPtr := flag.String("detectors", "dwell,bank", "Анализаторы траектории через запятую: dwell, bank")

	flag.Parse()

	sc, err := scene.Load(*scenePtr)
	if err != nil {
		log.Fatalf("[-] Ошибка загрузки сцены: %v", err)
	}
	if *dumpScenePtr != "" {
		if err := scene.Write(sc, *dumpScenePtr); err != nil {
			log.Fatalf("[-] Ошибка сохранения сцены: %v", err)
		}
		fmt.Printf("[+++] Сцена сохранена: %s\n", *dumpScenePtr)
		return
	}

	built, err := sc.Build()
	if err != nil {
		log.Fatalf("[-] Ошибка сцены: %v", err)
	}
	fmt.Printf("[*] Сцена: %s (%d точек, %d точек интереса)\n", sc.Name, len(sc.Points), len(built.Points))

	if *generatePtr {
		d := director.NewDirector(built.Curve)
		scenario, err := d.GenerateScenario(built.Points, *scenarioDurationPtr)
		if err != nil {
			log.Fatalf("[-] Ошибка генерации сценария: %v", err)
		}
		if err := os.MkdirAll(director.DefaultScenarioDir, 0755); err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		path := director.GenerateScenarioPath(director.DefaultScenarioDir)
		if err := director.WriteScenario(scenario, path); err != nil {
			log.Fatalf("[-] Ошибка сохранения сценария: %v", err)
		}
		fmt.Printf("[+++] Сценарий сохранен: %s (%d ключевых кадров, %.1fs)\n", path, len(scenario.Keyframes), scenario.Duration())
		return
	}

	src, err := openSource(*recordingPtr, *scenarioPtr, *rampPtr, *holdPtr, *fpsPtr)
	if err != nil {
		log.Fatalf("[-] Ошибка инициализации источника: %v", err)
	}
	defer src.Close()

	outDir := *outPtr
	if outDir == "" {
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		outDir = filepath.Join("output", fmt.Sprintf("%s_%s", strings.ReplaceAll(sc.Name, " ", "_"), timestamp))
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}
	tracePath := *tracePtr
	if tracePath == "" {
		tracePath = filepath.Join(outDir, "trace.yaml")
	}

	encoderName := *encoderPtr
	if encoderName == "auto" {
		encoderName = system.GetBestH264Encoder()
		if encoderName != "libx264" {
			fmt.Printf("[*] Обнаружено аппаратное ускорение: %s\n", encoderName)
		}
	}
	quality := *qualityPtr
	if quality == 0 {
		switch encoderName {
		case "h264_videotoolbox":
			quality = 75
		case "h264_nvenc":
			quality = 28
		default:
			quality = 23
		}
	}

	cfg := &config.Config{
		ScenePath:     *scenePtr,
		ScenarioPath:  *scenarioPtr,
		OutputDir:     outDir,
		TracePath:     tracePath,
		FPS:           *fpsPtr,
		RampFrames:    *rampPtr,
		HoldFrames:    *holdPtr,
		Workers:       *workersPtr,
		PreviewWidth:  *widthPtr,
		PreviewHeight: *heightPtr,
		PreviewStride: *stridePtr,
		RenderVideo:   *videoPtr,
		VideoEncoder:  encoderName,
		Quality:       quality,
		ShowStats:     *statsPtr,
		BuildVersion:  version,
	}

	var detectors []analyzer.Detector
	for _, name := range strings.Split(*detectorsPtr, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		det, err := analyzer.NewDetector(name, built.Tunables.MaxBankDegrees)
		if err != nil {
			log.Fatalf("[-] Ошибка: %v", err)
		}
		detectors = append(detectors, det)
	}

	world, err := engine.NewWorld(built.Curve, built.Points, built.Timeline, built.Tunables)
	if err != nil {
		log.Fatalf("[-] Ошибка: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	flight := engine.NewFlight(cfg, world, src, video.NewFFmpegEncoder(cfg.VideoEncoder, cfg.Quality), detectors...)
	flight.SceneName = sc.Name
	report, err := flight.Run(ctx)
	if err != nil {
		log.Fatalf("[-] Ошибка полета: %v", err)
	}

	result := cfg.TracePath
	if report.Video != "" {
		result = report.Video
	}
	fmt.Printf("[+++] Успех! Результат: %s\n", result)
}

// openSource picks the input in order: recording, scenario, linear ramp.
func openSource(recording, scenario string, ramp, hold, fps int) (source.Source, error) {
	if recording != "" {
		fmt.Printf("[*] Запись: %s\n", recording)
		return source.ReadRecording(recording)
	}
	if scenario != "" {
		path := scenario
		if path == "latest" {
			latest, err := director.FindLatestScenario(director.DefaultScenarioDir)
			if err != nil {
				return nil, fmt.Errorf("%w. Запустите с -generate-scenario", err)
			}
			path = latest
		}
		fmt.Printf("[*] Выбран сценарий: %s\n", path)
		s, err := director.ReadScenario(path)
		if err != nil {
			return nil, err
		}
		return source.NewScenarioSource(s, fps)
	}
	return source.NewRampSource(ramp, hold, fps)
}
