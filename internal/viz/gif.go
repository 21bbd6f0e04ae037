package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"math"
	"os"
)

const (
	gifCharW = 8
	gifCharH = 16
)

// CanvasImage rasterises the canvas, one gifCharW x gifCharH cell per
// braille character.
func CanvasImage(c *Canvas) *image.Paletted {
	imgW, imgH := c.Width*gifCharW, c.Height*gifCharH
	img := image.NewPaletted(image.Rect(0, 0, imgW, imgH), color.Palette{color.Black, color.White})
	dotW, dotH := gifCharW/2, gifCharH/4
	for row := 0; row < c.Height; row++ {
		for col := 0; col < c.Width; col++ {
			pattern := int(c.Grid[row][col] - 0x2800)
			if pattern <= 0 {
				continue
			}
			baseX, baseY := col*gifCharW, row*gifCharH
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] == 0 {
						continue
					}
					for py := 0; py < dotH; py++ {
						for px := 0; px < dotW; px++ {
							img.SetColorIndex(baseX+dx*dotW+px, baseY+dy*dotH+py, 1)
						}
					}
				}
			}
		}
	}
	return img
}

// gifDelay is the per-frame delay for a capture rate of fps, rounded to the
// 1/100 s resolution of the format.
func gifDelay(fps int) int {
	return max(int(math.Round(100/float64(fps))), 1)
}

// WriteGIF encodes frames as a looping animation. delay is in 1/100 s.
func WriteGIF(w io.Writer, frames []*image.Paletted, delay int) error {
	if len(frames) == 0 {
		return fmt.Errorf("no frames recorded")
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, &anim)
}

func SaveGIF(path string, frames []*image.Paletted, delay int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteGIF(f, frames, delay); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
