package utils

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"image"
)

// ImageContentHash hashes the decoded pixel data of an image. Two downloads
// of the same picture in different encodings produce the same hash, which is
// what the duplicate filter in the fetch pipeline needs.
func ImageContentHash(img image.Image) string {
	hasher := sha256.New()
	bounds := img.Bounds()
	var px [8]byte
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, a := img.At(x, y).RGBA()
			binary.BigEndian.PutUint16(px[0:2], uint16(r))
			binary.BigEndian.PutUint16(px[2:4], uint16(g))
			binary.BigEndian.PutUint16(px[4:6], uint16(b))
			binary.BigEndian.PutUint16(px[6:8], uint16(a))
			hasher.Write(px[:])
		}
	}

	return hex.EncodeToString(hasher.Sum(nil))
}
