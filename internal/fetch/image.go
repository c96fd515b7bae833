package fetch

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	_ "image/gif"
	_ "image/jpeg"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/kpauljoseph/rockdeck/pkg/utils"
)

// NormalizePNG decodes arbitrary downloaded image bytes (jpeg, png, gif,
// webp, bmp; animated formats decode to their first frame) and re-encodes
// them as PNG. Images larger than maxDim on either axis are scaled down
// proportionally. The content hash of the decoded pixels is returned for
// duplicate detection. Undecodable bytes are an error the caller skips.
func NormalizePNG(data []byte, maxDim int) ([]byte, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("not a decodable image: %w", err)
	}

	if maxDim > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > maxDim || bounds.Dy() > maxDim {
			img = resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Lanczos3)
		}
	}

	hash := utils.ImageContentHash(img)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, "", fmt.Errorf("failed to encode %s image as PNG: %w", format, err)
	}
	return buf.Bytes(), hash, nil
}
