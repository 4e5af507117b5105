package imop

import (
	"fmt"
	"image"
	"math"

	"github.com/esimov/interact/utils"
)

const (
	Clear   = "clear"
	Copy    = "copy"
	Dst     = "dst"
	SrcOver = "src_over"
	DstOver = "dst_over"
	SrcIn   = "src_in"
	DstIn   = "dst_in"
	SrcOut  = "src_out"
	DstOut  = "dst_out"
	SrcAtop = "src_atop"
	DstAtop = "dst_atop"
	Xor     = "xor"
)

// Bitmap is the destination of a composite operation.
type Bitmap struct {
	Img *image.NRGBA
}

// Composite holds the currently active composite operation.
type Composite struct {
	current string
	ops     []string
}

// NewBitmap allocates a transparent bitmap.
func NewBitmap(rect image.Rectangle) *Bitmap {
	return &Bitmap{
		Img: image.NewNRGBA(rect),
	}
}

// InitOp initializes a new Composite using the source-over operation.
func InitOp() *Composite {
	return &Composite{
		current: SrcOver,
		ops: []string{
			Clear,
			Copy,
			Dst,
			SrcOver,
			DstOver,
			SrcIn,
			DstIn,
			SrcOut,
			DstOut,
			SrcAtop,
			DstAtop,
			Xor,
		},
	}
}

// Set activates one of the supported composite operations.
func (op *Composite) Set(cop string) error {
	if !utils.Contains(op.ops, cop) {
		return fmt.Errorf("unsupported composite operation: %q", cop)
	}
	op.current = cop
	return nil
}

// Get returns the active composite operation.
func (op *Composite) Get() string {
	return op.current
}

// Draw composites src over the dst backdrop into bitmap. When blend is not nil
// the source colors are blended with the backdrop before being composited.
// Only the area shared by the three images is touched.
func (op *Composite) Draw(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend) {
	op.DrawRect(bitmap, src, dst, blend, src.Bounds())
}

// DrawRect is like Draw, restricted to the r rectangle.
func (op *Composite) DrawRect(bitmap *Bitmap, src, dst *image.NRGBA, blend *Blend, r image.Rectangle) {
	if bitmap == nil {
		return
	}
	r = r.Intersect(src.Bounds()).Intersect(dst.Bounds()).Intersect(bitmap.Img.Bounds())

	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			si, di, bi := src.PixOffset(x, y), dst.PixOffset(x, y), bitmap.Img.PixOffset(x, y)
			s := src.Pix[si : si+4 : si+4]
			d := dst.Pix[di : di+4 : di+4]

			as, ab := norm(s[3]), norm(d[3])
			var out [4]float64
			for c := 0; c < 3; c++ {
				cs, cb := norm(s[c]), norm(d[c])
				if blend != nil {
					cs = (1-ab)*cs + ab*blend.mix(cs, cb)
				}
				out[c] = op.channel(cs, cb, as, ab)
			}
			out[3] = op.alpha(as, ab)

			// The channels are premultiplied at this point.
			px := bitmap.Img.Pix[bi : bi+4 : bi+4]
			if out[3] == 0 {
				px[0], px[1], px[2], px[3] = 0, 0, 0, 0
				continue
			}
			for c := 0; c < 3; c++ {
				px[c] = denorm(out[c] / out[3])
			}
			px[3] = denorm(out[3])
		}
	}
}

// channel returns the premultiplied value of a color channel.
func (op *Composite) channel(cs, cb, as, ab float64) float64 {
	switch op.current {
	case Copy:
		return as * cs
	case Dst:
		return ab * cb
	case SrcOver:
		return as*cs + ab*cb*(1-as)
	case DstOver:
		return as*cs*(1-ab) + ab*cb
	case SrcIn:
		return as * cs * ab
	case DstIn:
		return ab * cb * as
	case SrcOut:
		return as * cs * (1 - ab)
	case DstOut:
		return ab * cb * (1 - as)
	case SrcAtop:
		return as*cs*ab + (1-as)*ab*cb
	case DstAtop:
		return as*cs*(1-ab) + ab*cb*as
	case Xor:
		return as*cs*(1-ab) + ab*cb*(1-as)
	default:
		return 0
	}
}

// alpha returns the resulting alpha value.
func (op *Composite) alpha(as, ab float64) float64 {
	switch op.current {
	case Copy:
		return as
	case Dst:
		return ab
	case SrcOver:
		return as + ab*(1-as)
	case DstOver:
		return as*(1-ab) + ab
	case SrcIn, DstIn:
		return as * ab
	case SrcOut:
		return as * (1 - ab)
	case DstOut:
		return ab * (1 - as)
	case SrcAtop:
		return ab
	case DstAtop:
		return as
	case Xor:
		return as*(1-ab) + ab*(1-as)
	default:
		return 0
	}
}

func norm(v uint8) float64 {
	return float64(v) / 255
}

func denorm(v float64) uint8 {
	return uint8(math.Round(utils.Clamp(v, 0, 1) * 255))
}
