package classify

import "regexp"

// CategoryPEMHeader is the buffer-level category for PEM public key markers.
const CategoryPEMHeader = "pem_header"

// PEMHeaderHit is the advisory note stored when a PEM marker is present; the
// full block is left for manual follow-up in a hex viewer.
const PEMHeaderHit = "PEM public key header found (see binary in hex/strings for full block)"

var rePEMHeader = regexp.MustCompile(`-----BEGIN (RSA |EC |)PUBLIC KEY-----`)

// PEMHeader checks the raw buffer for an RSA/EC public key header. The bytes
// are matched permissively: the marker is pure ASCII, so surrounding invalid
// text never prevents a hit. Runs once per file, not per string.
func PEMHeader(data []byte) bool {
	return rePEMHeader.Match(data)
}

// fieldTagByte marks plausible protobuf varint field-tag bytes: wire type 0
// with field numbers 1..31.
var fieldTagByte = func() [256]bool {
	var t [256]bool
	for b := 0x08; b <= 0xf8; b += 0x08 {
		t[b] = true
	}
	return t
}()

// FieldTagScore counts two-byte sequences that look like consecutive
// protobuf field tags. This is an extremely crude density heuristic, not a
// structural parse; the score is advisory only and false positives are
// expected. Matches are non-overlapping.
func FieldTagScore(data []byte) int {
	score := 0
	for i := 0; i+1 < len(data); {
		if fieldTagByte[data[i]] && data[i+1] >= 0x01 && data[i+1] <= 0x7f {
			score++
			i += 2
			continue
		}
		i++
	}
	return score
}
