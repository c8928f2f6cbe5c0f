package system

import (
	"image"
	"image/color"
	"sync"
	"sync/atomic"
)

// FramePool переиспользует кадры превью одного размера, чтобы рендер
// в несколько потоков не нагружал Garbage Collector (GC).
// Кадры группируются по размеру, начало координат всегда (0, 0).
type FramePool struct {
	mu        sync.Mutex
	bySize    map[image.Point]*sync.Pool
	allocated atomic.Int64
}

func NewFramePool() *FramePool {
	return &FramePool{bySize: make(map[image.Point]*sync.Pool)}
}

var frames = NewFramePool()

// GetImage берет кадр размера rect из общего пула.
func GetImage(rect image.Rectangle) *image.RGBA {
	return frames.Get(rect.Size())
}

// PutImage возвращает кадр в общий пул.
func PutImage(img *image.RGBA) {
	frames.Put(img)
}

// GetFilledImage возвращает кадр из пула, залитый цветом c.
// Без заливки кадр содержит данные предыдущего использования.
func GetFilledImage(rect image.Rectangle, c color.RGBA) *image.RGBA {
	img := frames.Get(rect.Size())
	pix := img.Pix
	for i := 0; i+3 < len(pix); i += 4 {
		pix[i], pix[i+1], pix[i+2], pix[i+3] = c.R, c.G, c.B, c.A
	}
	return img
}

// AllocatedFrames сообщает, сколько кадров общий пул создал с нуля.
func AllocatedFrames() int64 {
	return frames.Allocated()
}

func (p *FramePool) pool(size image.Point) *sync.Pool {
	p.mu.Lock()
	defer p.mu.Unlock()

	pool, ok := p.bySize[size]
	if !ok {
		pool = &sync.Pool{
			New: func() any {
				p.allocated.Add(1)
				return image.NewRGBA(image.Rectangle{Max: size})
			},
		}
		p.bySize[size] = pool
	}
	return pool
}

func (p *FramePool) Get(size image.Point) *image.RGBA {
	return p.pool(size).Get().(*image.RGBA)
}

// Put принимает только кадры, выданные пулом (начало в (0, 0)).
func (p *FramePool) Put(img *image.RGBA) {
	if img == nil || img.Rect.Min != (image.Point{}) {
		return
	}
	p.pool(img.Rect.Size()).Put(img)
}

func (p *FramePool) Allocated() int64 {
	return p.allocated.Load()
}
