package interact

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/esimov/interact/imop"
	"github.com/esimov/interact/utils"
	"golang.org/x/exp/slices"
	"golang.org/x/image/bmp"
)

// Overlay colors, one per interaction state.
var (
	IdleColor            = color.NRGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}
	DisabledColor        = color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff}
	ContainsPointerColor = color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0x60}
	HoveredColor         = color.NRGBA{R: 0x21, G: 0x96, B: 0xf3, A: 0xc0}
	ClickedColor         = color.NRGBA{R: 0x4c, G: 0xaf, B: 0x50, A: 0xff}
	DraggedColor         = color.NRGBA{R: 0xff, G: 0x98, B: 0x00, A: 0xff}
	DragStartedColor     = color.NRGBA{R: 0xff, G: 0xeb, B: 0x3b, A: 0xff}
	DragEndedColor       = color.NRGBA{R: 0xe9, G: 0x1e, B: 0x63, A: 0xff}
	PointerColor         = color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 0xff}
)

// ErrUnsupportedFormat is returned when encoding an overlay to an unknown image format.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Overlay renders a frame's widgets tinted by their interaction state.
// It is a debugging aid for inspecting recorded scenarios.
type Overlay struct {
	// Size of the rendered image. When empty the image is large enough
	// to hold every widget.
	Size       image.Point
	Background color.NRGBA
	// BlendMode is one of the imop blend modes used to mix the state
	// colors with the widgets underneath.
	BlendMode string
	// Composite is the imop composite operation, imop.SrcOver by default.
	Composite string
}

// NewOverlay creates an overlay with a white background.
func NewOverlay() *Overlay {
	return &Overlay{
		Background: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		BlendMode:  imop.Multiply,
		Composite:  imop.SrcOver,
	}
}

// Render draws the result of a replayed frame.
func (o *Overlay) Render(res FrameResult) (*image.NRGBA, error) {
	bounds := o.bounds(res.Widgets)

	widgets := slices.Clone(res.Widgets.Order())
	slices.SortStableFunc(widgets, func(a, b WidgetRect) bool {
		return a.Layer < b.Layer
	})

	backdrop := image.NewNRGBA(bounds)
	draw.Draw(backdrop, bounds, &image.Uniform{o.Background}, image.Point{}, draw.Src)
	for _, w := range widgets {
		c := IdleColor
		if !w.Enabled {
			c = DisabledColor
		}
		fillRect(backdrop, w.Rect.Image(), c)
		strokeRect(backdrop, w.Rect.Image(), color.NRGBA{A: 0xff})
	}

	source := image.NewNRGBA(bounds)
	snap := res.Snapshot
	for _, w := range widgets {
		if c, ok := o.stateColor(snap, w.ID); ok {
			fillRect(source, w.Rect.Image(), c)
		}
	}

	op := imop.InitOp()
	if o.Composite != "" {
		if err := op.Set(o.Composite); err != nil {
			return nil, err
		}
	}
	var blend *imop.Blend
	if o.BlendMode != "" {
		blend = imop.NewBlend()
		if err := blend.Set(o.BlendMode); err != nil {
			return nil, err
		}
	}

	bitmap := imop.NewBitmap(bounds)
	op.Draw(bitmap, source, backdrop, blend)

	if res.InWindow {
		drawCross(bitmap.Img, image.Pt(int(res.Pointer.X), int(res.Pointer.Y)), 4, PointerColor)
	}
	return bitmap.Img, nil
}

// stateColor returns the color of the most relevant state of a widget.
func (o *Overlay) stateColor(snap *Snapshot, id ID) (color.NRGBA, bool) {
	switch {
	case snap.IsDragStarted(id):
		return DragStartedColor, true
	case snap.IsDragEnded(id):
		return DragEndedColor, true
	case snap.IsDragged(id):
		return DraggedColor, true
	case snap.IsClicked(id):
		return ClickedColor, true
	case snap.IsHovered(id):
		return HoveredColor, true
	case snap.ContainsPointerOf(id):
		return ContainsPointerColor, true
	}
	return color.NRGBA{}, false
}

func (o *Overlay) bounds(widgets *WidgetRects) image.Rectangle {
	if o.Size.X > 0 && o.Size.Y > 0 {
		return image.Rectangle{Max: o.Size}
	}
	var max image.Point
	for _, w := range widgets.Order() {
		r := w.Rect.Image()
		max.X = utils.Max(max.X, r.Max.X)
		max.Y = utils.Max(max.Y, r.Max.Y)
	}
	// Leave some room around the outermost widgets.
	const margin = 8
	return image.Rect(0, 0, utils.Max(max.X+margin, 1), utils.Max(max.Y+margin, 1))
}

func fillRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), &image.Uniform{c}, image.Point{}, draw.Src)
}

func strokeRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

func drawCross(img *image.NRGBA, p image.Point, size int, c color.NRGBA) {
	for d := -size; d <= size; d++ {
		img.SetNRGBA(p.X+d, p.Y, c)
		img.SetNRGBA(p.X, p.Y+d, c)
	}
}

// EncodeOverlay writes the overlay image into w in the format matching the
// file extension ext (".png", ".jpg", ".jpeg" or ".bmp"). The image is
// scaled by scale first when it differs from 1.
func EncodeOverlay(w io.Writer, img image.Image, ext string, scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("invalid overlay scale: %v", scale)
	}
	if scale != 1 {
		width := int(float64(img.Bounds().Dx()) * scale)
		img = imaging.Resize(img, utils.Max(width, 1), 0, imaging.NearestNeighbor)
	}

	ext = strings.ToLower(ext)
	if ext == ".bmp" {
		return bmp.Encode(w, img)
	}
	format, err := imaging.FormatFromExtension(ext)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
	switch format {
	case imaging.PNG:
		return imaging.Encode(w, img, imaging.PNG)
	case imaging.JPEG:
		return imaging.Encode(w, img, imaging.JPEG, imaging.JPEGQuality(100))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}
