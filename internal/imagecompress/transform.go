package imagecompress

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// flatten returns an opaque RGBA copy of img. Images that can carry
// transparency are composited over white; others are converted as is.
func flatten(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	if hasAlpha(img) {
		draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
		draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
		return dst
	}

	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

func hasAlpha(img image.Image) bool {
	switch img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.RGBA, *image.RGBA64,
		*image.Paletted, *image.Alpha, *image.Alpha16, *image.NYCbCrA:
		return true
	}
	return false
}

// fit downscales src so its longer edge is maxEdge. Smaller images are
// returned unchanged.
func fit(src *image.RGBA, maxEdge int) *image.RGBA {
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	nw, nh := scaledSize(w, h, maxEdge)
	if nw == w && nh == h {
		return src
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func scaledSize(w, h, maxEdge int) (int, int) {
	if w <= maxEdge && h <= maxEdge {
		return w, h
	}
	if w >= h {
		return maxEdge, scaleEdge(h, maxEdge, w)
	}
	return scaleEdge(w, maxEdge, h), maxEdge
}

func scaleEdge(edge, target, long int) int {
	n := int(math.Round(float64(edge) * float64(target) / float64(long)))
	return max(n, 1)
}
