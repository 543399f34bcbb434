package lottery

import (
	"crypto/sha256"
	"encoding/binary"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

const dstChallenge = "Chall//"

// getChallenge derives the per-party lottery challenge
//
//	x = topBits(SHA256("Chall//", uncompressed(pk.Com), pid, i, lseed), logK)
//
// read as an integer in {0, ..., 2^logK - 1} and interpreted as a field
// element, giving a winning probability of 1/2^logK against a uniformly
// random committed entry.
func getChallenge(logK uint, pk PublicKey, pid, i uint32, lseed Seed) fr.Element {
	h := sha256.New()
	h.Write([]byte(dstChallenge))

	comRaw := pk.Com.ComKZG.RawBytes()
	h.Write(comRaw[:])
	y0Bytes := pk.Com.Y0.Bytes()
	h.Write(y0Bytes[:])
	hatYBytes := pk.Com.Tau0.HatY.Bytes()
	h.Write(hatYBytes[:])
	vRaw := pk.Com.Tau0.V.RawBytes()
	h.Write(vRaw[:])

	var pidBytes, iBytes [4]byte
	binary.BigEndian.PutUint32(pidBytes[:], pid)
	binary.BigEndian.PutUint32(iBytes[:], i)
	h.Write(pidBytes[:])
	h.Write(iBytes[:])
	h.Write(lseed[:])

	digest := h.Sum(nil)
	masked := maskTopBits(digest, logK)

	var asInt big.Int
	asInt.SetBytes(masked)
	// masked keeps the partial byte's bits at the top of that byte; shift
	// them down so x is exactly the logK-bit value.
	if partialBits := logK % 8; partialBits > 0 {
		asInt.Rsh(&asInt, 8-partialBits)
	}
	var x fr.Element
	x.SetBigInt(&asInt)
	return x
}

// maskTopBits returns the first logK bits of digest, full bytes taken
// directly and the trailing partial byte masked down to (logK mod 8) bits,
// as the remaining prefix of a big-endian byte string.
func maskTopBits(digest []byte, logK uint) []byte {
	fullBytes := logK / 8
	partialBits := logK % 8

	n := fullBytes
	if partialBits > 0 {
		n++
	}
	out := make([]byte, n)
	copy(out, digest[:n])
	if partialBits > 0 {
		mask := byte(0xFF) << (8 - partialBits)
		out[fullBytes] &= mask
	}
	return out
}
