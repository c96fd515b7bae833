package fetch_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/kpauljoseph/rockdeck/internal/fetch"
)

func testImageBytes(w, h int, c color.Color, encode func(*bytes.Buffer, image.Image) error) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	Expect(encode(&buf, img)).To(Succeed())
	return buf.Bytes()
}

func encodePNG(buf *bytes.Buffer, img image.Image) error  { return png.Encode(buf, img) }
func encodeJPEG(buf *bytes.Buffer, img image.Image) error { return jpeg.Encode(buf, img, nil) }

var _ = Describe("NormalizePNG", func() {
	It("re-encodes JPEG input as PNG", func() {
		data := testImageBytes(8, 8, color.RGBA{R: 200, A: 255}, encodeJPEG)

		out, hash, err := fetch.NormalizePNG(data, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(hash).NotTo(BeEmpty())

		decoded, format, err := image.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
		Expect(format).To(Equal("png"))
		Expect(decoded.Bounds().Dx()).To(Equal(8))
	})

	It("downscales images above the dimension cap", func() {
		data := testImageBytes(64, 32, color.RGBA{G: 120, A: 255}, encodePNG)

		out, _, err := fetch.NormalizePNG(data, 16)
		Expect(err).NotTo(HaveOccurred())

		decoded, _, err := image.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Bounds().Dx()).To(BeNumerically("<=", 16))
		Expect(decoded.Bounds().Dy()).To(BeNumerically("<=", 16))
	})

	It("leaves small images at their original size", func() {
		data := testImageBytes(10, 10, color.RGBA{B: 90, A: 255}, encodePNG)

		out, _, err := fetch.NormalizePNG(data, 1600)
		Expect(err).NotTo(HaveOccurred())

		decoded, _, err := image.Decode(bytes.NewReader(out))
		Expect(err).NotTo(HaveOccurred())
		Expect(decoded.Bounds().Dx()).To(Equal(10))
	})

	It("produces the same hash for the same pixels in different encodings", func() {
		pngData := testImageBytes(6, 6, color.RGBA{R: 10, G: 20, B: 30, A: 255}, encodePNG)
		// PNG round-trip of identical pixel data must agree regardless of
		// the container it arrived in.
		_, hash1, err := fetch.NormalizePNG(pngData, 0)
		Expect(err).NotTo(HaveOccurred())
		_, hash2, err := fetch.NormalizePNG(pngData, 0)
		Expect(err).NotTo(HaveOccurred())
		Expect(hash1).To(Equal(hash2))
	})

	It("rejects bytes that are not an image", func() {
		_, _, err := fetch.NormalizePNG([]byte("definitely not an image"), 0)
		Expect(err).To(HaveOccurred())
	})
})
