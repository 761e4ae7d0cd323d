package imagegen

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	noticeWidth  = 1000
	noticeHeight = 500
	watermark    = "gramatike.com.br"
	marginX      = 60
)

// Brand purple, the background of every generated notice.
var background = color.RGBA{R: 155, G: 93, B: 229, A: 255}

// Notice renders a 1000x500 PNG with the title, the wrapped message body
// and the site watermark.
func Notice(titulo, mensagem string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, noticeWidth, noticeHeight))
	draw.Draw(img, img.Bounds(), image.NewUniform(background), image.Point{}, draw.Src)

	face := basicfont.Face7x13
	white := image.NewUniform(color.White)
	d := &font.Drawer{Dst: img, Src: white, Face: face}

	y := 90
	for _, line := range wrapText(d, strings.TrimSpace(titulo), noticeWidth-2*marginX) {
		d.Dot = fixed.P(marginX, y)
		d.DrawString(line)
		y += 26
	}

	y += 24
	for _, line := range wrapText(d, strings.TrimSpace(mensagem), noticeWidth-2*marginX) {
		if y > noticeHeight-60 {
			break
		}
		d.Dot = fixed.P(marginX, y)
		d.DrawString(line)
		y += 20
	}

	wmWidth := d.MeasureString(watermark).Ceil()
	d.Dot = fixed.P(noticeWidth-wmWidth-30, noticeHeight-24)
	d.DrawString(watermark)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// wrapText splits text into lines that fit maxWidth under the drawer's face.
func wrapText(d *font.Drawer, text string, maxWidth int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if d.MeasureString(candidate).Ceil() > maxWidth {
			lines = append(lines, current)
			current = word
			continue
		}
		current = candidate
	}
	return append(lines, current)
}
