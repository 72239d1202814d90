package project

import (
	"fmt"
	"image"
	"sort"

	xdraw "golang.org/x/image/draw"

	"github.com/milk9111/cellfill/grid"
)

// quantization bucket resolution: 4 bits per channel
const bucketBits = 4

// FromImage converts a source image into a new project: the image is
// downscaled so its longer side is maxDim cells, a palette of at most
// maxColors is derived by popularity, and each cell's target becomes
// its nearest palette entry.
func FromImage(name string, src image.Image, maxDim, maxColors int) (*Project, error) {
	if maxDim <= 0 || maxDim > grid.MaxDim {
		maxDim = grid.MaxDim
	}
	if maxColors <= 1 || maxColors > grid.MaxColors {
		maxColors = grid.MaxColors
	}

	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("empty source image")
	}

	w, h := fitDims(b.Dx(), b.Dy(), maxDim)
	scaled := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), src, b, xdraw.Src, nil)

	palette := buildPalette(scaled, maxColors)
	targets := make([]int, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, bl := pixelAt(scaled, x, y)
			targets[y*w+x] = nearest(palette, r, g, bl)
		}
	}

	hexes := make([]string, len(palette))
	for i, c := range palette {
		hexes[i] = fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
	}

	p := &Project{
		Name:    name,
		Width:   w,
		Height:  h,
		Palette: hexes,
		Targets: targets,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func fitDims(w, h, maxDim int) (int, int) {
	if w >= h {
		nh := h * maxDim / w
		if nh < 1 {
			nh = 1
		}
		return maxDim, nh
	}
	nw := w * maxDim / h
	if nw < 1 {
		nw = 1
	}
	return nw, maxDim
}

func pixelAt(img *image.RGBA, x, y int) (r, g, b int) {
	i := img.PixOffset(x, y)
	return int(img.Pix[i]), int(img.Pix[i+1]), int(img.Pix[i+2])
}

// buildPalette buckets pixels to 4 bits per channel, keeps the most
// popular buckets, and returns each kept bucket's mean color.
func buildPalette(img *image.RGBA, maxColors int) [][3]int {
	type bucket struct {
		count   int
		r, g, b int
	}
	shift := 8 - bucketBits
	buckets := make(map[int]*bucket)
	bd := img.Bounds()
	for y := bd.Min.Y; y < bd.Max.Y; y++ {
		for x := bd.Min.X; x < bd.Max.X; x++ {
			r, g, b := pixelAt(img, x, y)
			key := (r>>shift)<<(2*bucketBits) | (g>>shift)<<bucketBits | b>>shift
			bk := buckets[key]
			if bk == nil {
				bk = &bucket{}
				buckets[key] = bk
			}
			bk.count++
			bk.r += r
			bk.g += g
			bk.b += b
		}
	}

	all := make([]*bucket, 0, len(buckets))
	for _, bk := range buckets {
		all = append(all, bk)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].count > all[j].count })
	if len(all) > maxColors {
		all = all[:maxColors]
	}

	palette := make([][3]int, len(all))
	for i, bk := range all {
		palette[i] = [3]int{bk.r / bk.count, bk.g / bk.count, bk.b / bk.count}
	}
	return palette
}

func nearest(palette [][3]int, r, g, b int) int {
	best, bestDist := 0, 1<<31
	for i, c := range palette {
		dr := c[0] - r
		dg := c[1] - g
		db := c[2] - b
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
