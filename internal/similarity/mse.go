package similarity

import (
	"image"

	"golang.org/x/image/draw"
)

// resizeTo scales img to the given bounds. The resize deliberately ignores
// aspect ratio: the comparison wants pixel grids of equal shape, and a
// stretched near-duplicate still lands well under the MSE threshold.
func resizeTo(img image.Image, bounds image.Rectangle) image.Image {
	dst := image.NewNRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst
}

// meanSquaredError averages the squared per-channel difference over the RGB
// channels of two same-sized images, on the 0..255 scale.
func meanSquaredError(a, b image.Image) float64 {
	boundsA, boundsB := a.Bounds(), b.Bounds()
	width, height := boundsA.Dx(), boundsA.Dy()
	if width != boundsB.Dx() || height != boundsB.Dy() || width == 0 || height == 0 {
		return maxMSE
	}

	var sum float64
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			ar, ag, ab, _ := a.At(boundsA.Min.X+x, boundsA.Min.Y+y).RGBA()
			br, bg, bb, _ := b.At(boundsB.Min.X+x, boundsB.Min.Y+y).RGBA()
			dr := float64(ar>>8) - float64(br>>8)
			dg := float64(ag>>8) - float64(bg>>8)
			db := float64(ab>>8) - float64(bb>>8)
			sum += dr*dr + dg*dg + db*db
		}
	}
	return sum / float64(width*height*3)
}

// maxMSE is the worst possible score on the 8-bit scale, returned for shape
// mismatches that should never survive a threshold check.
const maxMSE = 255.0 * 255.0
