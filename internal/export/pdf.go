package export

import (
	"bytes"
	"image"
	"image/png"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// pointsPerPixel maps 96 dpi screen pixels to PDF points.
const pointsPerPixel = 72.0 / 96.0

// writePDF places img on a single page sized to fit it exactly.
func writePDF(w io.Writer, img image.Image) error {
	var raster bytes.Buffer
	if err := png.Encode(&raster, img); err != nil {
		return err
	}
	b := img.Bounds()
	pw, ph := float64(b.Dx())*pointsPerPixel, float64(b.Dy())*pointsPerPixel
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pw, Ht: ph},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader("annotated", opts, &raster)
	pdf.ImageOptions("annotated", 0, 0, pw, ph, false, opts, 0, "")
	return pdf.Output(w)
}
