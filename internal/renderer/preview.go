// Package renderer draws top-down previews of a flight: the path, the points
// of interest and the rig, over the background gradient of the frame.
package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ivlev/scrollrig/internal/poi"
	"github.com/ivlev/scrollrig/internal/system"
	"github.com/ivlev/scrollrig/internal/trace"
)

var (
	pathColor  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	poiColor   = color.RGBA{R: 80, G: 170, B: 255, A: 255}
	rigColor   = color.RGBA{R: 255, G: 120, B: 0, A: 255}
	textColor  = color.RGBA{R: 230, G: 230, B: 230, A: 255}
	markColor  = color.RGBA{R: 255, G: 220, B: 0, A: 255}
	minExtentX = 40.0 // world units, keeps straight paths from collapsing to a line
)

// Preview projects the XZ plane of the scene onto an image. The start of the
// path is at the bottom and travel goes up.
type Preview struct {
	Width, Height int
	Padding       int

	minX, maxX, minZ, maxZ float64
	path                   [][2]float32
	marks                  [][2]float32
	points                 []poi.PointOfInterest
}

func NewPreview(polyline []mgl64.Vec3, points []poi.PointOfInterest, width, height int) (*Preview, error) {
	if width < 32 || height < 32 {
		return nil, fmt.Errorf("preview size %dx%d is too small", width, height)
	}
	if len(polyline) < 2 {
		return nil, fmt.Errorf("preview needs a path of at least 2 points")
	}

	p := &Preview{
		Width:   width,
		Height:  height,
		Padding: 20,
		minX:    math.Inf(1),
		maxX:    math.Inf(-1),
		minZ:    math.Inf(1),
		maxZ:    math.Inf(-1),
		points:  append([]poi.PointOfInterest(nil), points...),
	}
	grow := func(v mgl64.Vec3) {
		p.minX, p.maxX = math.Min(p.minX, v.X()), math.Max(p.maxX, v.X())
		p.minZ, p.maxZ = math.Min(p.minZ, v.Z()), math.Max(p.maxZ, v.Z())
	}
	for _, v := range polyline {
		grow(v)
	}
	for _, pt := range points {
		grow(pt.Position)
	}
	if w := p.maxX - p.minX; w < minExtentX {
		mid := (p.maxX + p.minX) / 2
		p.minX, p.maxX = mid-minExtentX/2, mid+minExtentX/2
	}
	if p.maxZ-p.minZ == 0 {
		p.minZ, p.maxZ = p.minZ-1, p.maxZ+1
	}

	p.path = make([][2]float32, len(polyline))
	for i, v := range polyline {
		x, y := p.Project(v)
		p.path[i] = [2]float32{x, y}
	}
	return p, nil
}

// Project maps a world position to image coordinates.
func (p *Preview) Project(v mgl64.Vec3) (float32, float32) {
	pad := float64(p.Padding)
	sx := (float64(p.Width) - 2*pad) / (p.maxX - p.minX)
	sz := (float64(p.Height) - 2*pad) / (p.maxZ - p.minZ)
	x := pad + (v.X()-p.minX)*sx
	y := pad + (v.Z()-p.minZ)*sz
	return float32(x), float32(y)
}

// SetMilestones places distance ticks along the path.
func (p *Preview) SetMilestones(marks []mgl64.Vec3) {
	p.marks = p.marks[:0]
	for _, m := range marks {
		x, y := p.Project(m)
		p.marks = append(p.marks, [2]float32{x, y})
	}
}

// Render draws one frame. The image comes from the shared pool; callers
// return it with system.PutImage when done.
func (p *Preview) Render(f trace.Frame) *image.RGBA {
	top := parseHex(f.ColorA)
	bottom := parseHex(f.ColorB)
	img := system.GetFilledImage(image.Rect(0, 0, p.Width, p.Height), toRGBA(top))
	if top != bottom {
		p.gradient(img, top, bottom)
	}

	p.strokePath(img, 1.5)
	for _, m := range p.marks {
		fillCircle(img, m[0], m[1], 2.5, markColor)
	}
	for i, pt := range p.points {
		x, y := p.Project(pt.Position)
		fillCircle(img, x, y, 4, poiColor)
		c := poiColor
		if i == f.Near {
			c = rigColor
		}
		drawLabel(img, int(x)+7, int(y)+4, pt.Label, c)
	}

	if len(f.Position) == 3 {
		pos := mgl64.Vec3{f.Position[0], f.Position[1], f.Position[2]}
		x, y := p.Project(pos)
		fillCircle(img, x, y, 5, rigColor)
	}

	hud := fmt.Sprintf("#%d p=%.3f rail=%+.2f bank=%+.1f", f.Index, f.Progress, f.Rail, f.Bank)
	drawLabel(img, 6, 14, hud, textColor)
	return img
}

func (p *Preview) gradient(img *image.RGBA, top, bottom colorful.Color) {
	for y := 0; y < p.Height; y++ {
		t := float64(y) / float64(max(p.Height-1, 1))
		c := toRGBA(top.BlendRgb(bottom, t))
		row := img.Pix[y*img.Stride : y*img.Stride+p.Width*4]
		for i := 0; i < len(row); i += 4 {
			row[i], row[i+1], row[i+2], row[i+3] = c.R, c.G, c.B, c.A
		}
	}
}

func (p *Preview) strokePath(img *image.RGBA, halfWidth float32) {
	z := vector.NewRasterizer(p.Width, p.Height)
	for i := 1; i < len(p.path); i++ {
		a, b := p.path[i-1], p.path[i]
		dx, dy := b[0]-a[0], b[1]-a[1]
		l := float32(math.Hypot(float64(dx), float64(dy)))
		if l == 0 {
			continue
		}
		nx, ny := -dy/l*halfWidth, dx/l*halfWidth
		z.MoveTo(a[0]+nx, a[1]+ny)
		z.LineTo(b[0]+nx, b[1]+ny)
		z.LineTo(b[0]-nx, b[1]-ny)
		z.LineTo(a[0]-nx, a[1]-ny)
		z.ClosePath()
	}
	z.Draw(img, img.Bounds(), image.NewUniform(pathColor), image.Point{})
}

func fillCircle(img *image.RGBA, cx, cy, r float32, c color.Color) {
	b := img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	const n = 24
	for i := 0; i < n; i++ {
		a := 2 * math.Pi * float64(i) / n
		x := cx + r*float32(math.Cos(a))
		y := cy + r*float32(math.Sin(a))
		if i == 0 {
			z.MoveTo(x, y)
		} else {
			z.LineTo(x, y)
		}
	}
	z.ClosePath()
	z.Draw(img, b, image.NewUniform(c), image.Point{})
}

func drawLabel(img *image.RGBA, x, y int, s string, c color.Color) {
	if s == "" {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Thumbnail scales img down to fit width x height.
func Thumbnail(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)
	return dst
}

// SavePNG writes img to path.
func SavePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}
	}
	return c
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
