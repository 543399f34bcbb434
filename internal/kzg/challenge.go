package kzg

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"math/big"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
)

// Domain-separation tags for the two hash-to-field challenges this package
// derives. Changing either tag, or hashToField's prefix||body||counter
// layout, changes every challenge derived from it, so do not change either
// casually: every verifier needs to agree on exactly the same bytes.
const (
	dstSimExt = "KZG-SIM-EXT//"
	dstAgg    = "KZG-AGG//"
)

// hashToField repeatedly hashes prefix||body||counter (counter an
// incrementing big-endian u64, restarting from 1 on every call so
// re-derivation is stable) until the digest parses as a field element,
// and returns it. Both challenges this package derives (z0 and chi) funnel
// through this one rejection-sampling loop; the lottery's per-party
// challenge in package lottery is derived separately, by bit-masking a
// single SHA-256 digest.
func hashToField(newHasher func() hash.Hash, prefix string, body [][]byte) fr.Element {
	modulus := fr.Modulus()
	var counter uint64
	for {
		counter++
		h := newHasher()
		h.Write([]byte(prefix))
		for _, b := range body {
			h.Write(b)
		}
		var counterBytes [8]byte
		binary.BigEndian.PutUint64(counterBytes[:], counter)
		h.Write(counterBytes[:])
		digest := h.Sum(nil)

		var candidate big.Int
		candidate.SetBytes(digest)
		if candidate.Cmp(modulus) < 0 {
			var z fr.Element
			z.SetBigInt(&candidate)
			return z
		}
		// digest, read as a big-endian integer, landed outside [0, modulus):
		// reject and rehash with the next counter.
	}
}

func newSHA256() hash.Hash { return sha256.New() }

// GetZ0 derives the KZG-SIM-EXT self-opening challenge from a commitment:
// z0 = Hash("KZG-SIM-EXT//", RawBytes(comKZG), counter), rejection-sampled
// until the digest parses as a field element.
func GetZ0(comKZG *bls12381.G1Affine) fr.Element {
	raw := comKZG.RawBytes()
	return hashToField(newSHA256, dstSimExt, [][]byte{raw[:]})
}

// GetChi derives the aggregation challenge for openings at position i of a
// batch of (mis[j], coms[j].ComKZG) pairs:
// chi = Hash("KZG-AGG//", i (big-endian u32), (mis[j], coms[j])_j, counter).
func GetChi(i uint32, mis []fr.Element, coms []*Commitment) fr.Element {
	var iBytes [4]byte
	binary.BigEndian.PutUint32(iBytes[:], i)

	body := make([][]byte, 0, 1+2*len(mis))
	body = append(body, iBytes[:])
	for j := range mis {
		miBytes := mis[j].Bytes()
		comBytes := coms[j].ComKZG.RawBytes()
		body = append(body, append([]byte(nil), miBytes[:]...))
		body = append(body, append([]byte(nil), comBytes[:]...))
	}
	return hashToField(newSHA256, dstAgg, body)
}
