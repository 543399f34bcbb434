// Package params provides the canonical on-disk encoding for a commitment
// key, and a way to bootstrap one from an externally produced trusted-setup
// transcript instead of running kzg.Setup locally.
package params

import (
	"encoding/binary"
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"

	"github.com/b-wagn/jack-go/internal/kzg"
)

func writeUint64(w io.Writer, v uint64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

func writeG1Slice(w io.Writer, pts []bls12381.G1Affine) error {
	if err := writeUint64(w, uint64(len(pts))); err != nil {
		return err
	}
	for i := range pts {
		b := pts[i].Bytes()
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

func readG1Slice(r io.Reader) ([]bls12381.G1Affine, error) {
	n, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	out := make([]bls12381.G1Affine, n)
	var buf [bls12381.SizeOfG1AffineCompressed]byte
	for i := range out {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		if _, err := out[i].SetBytes(buf[:]); err != nil {
			return nil, fmt.Errorf("params: decoding G1 point %d: %w", i, err)
		}
	}
	return out, nil
}

func writeG2Slice(w io.Writer, pts []bls12381.G2Affine) error {
	if err := writeUint64(w, uint64(len(pts))); err != nil {
		return err
	}
	for i := range pts {
		b := pts[i].Bytes()
		if _, err := w.Write(b[:]); err != nil {
			return err
		}
	}
	return nil
}

func readG2Slice(r io.Reader) ([]bls12381.G2Affine, error) {
	n, err := readUint64(r)
	if err != nil {
		return nil, err
	}
	out := make([]bls12381.G2Affine, n)
	var buf [bls12381.SizeOfG2AffineCompressed]byte
	for i := range out {
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return nil, err
		}
		if _, err := out[i].SetBytes(buf[:]); err != nil {
			return nil, fmt.Errorf("params: decoding G2 point %d: %w", i, err)
		}
	}
	return out, nil
}

// WriteCommitmentKey serializes ck in canonical form: message length (u64
// LE), a domain descriptor (the domain's cardinality, u64 LE — both
// ck.Domain and ck.Domain2N are fully determined by it), then u, hat_u,
// lagranges, g2, r, d, y, hat_y in order, each a length-prefixed sequence
// of compressed curve points.
func WriteCommitmentKey(w io.Writer, ck *kzg.CommitmentKey) error {
	if err := writeUint64(w, ck.MessageLength); err != nil {
		return fmt.Errorf("params: writing message length: %w", err)
	}
	if err := writeUint64(w, ck.Domain.Cardinality); err != nil {
		return fmt.Errorf("params: writing domain descriptor: %w", err)
	}
	if err := writeG1Slice(w, ck.U); err != nil {
		return fmt.Errorf("params: writing u: %w", err)
	}
	if err := writeG1Slice(w, ck.HatU); err != nil {
		return fmt.Errorf("params: writing hat_u: %w", err)
	}
	if err := writeG1Slice(w, ck.Lagranges); err != nil {
		return fmt.Errorf("params: writing lagranges: %w", err)
	}
	g2Bytes := ck.G2.Bytes()
	if _, err := w.Write(g2Bytes[:]); err != nil {
		return fmt.Errorf("params: writing g2: %w", err)
	}
	rBytes := ck.R.Bytes()
	if _, err := w.Write(rBytes[:]); err != nil {
		return fmt.Errorf("params: writing r: %w", err)
	}
	if err := writeG2Slice(w, ck.D); err != nil {
		return fmt.Errorf("params: writing d: %w", err)
	}
	if err := writeG1Slice(w, ck.Y); err != nil {
		return fmt.Errorf("params: writing y: %w", err)
	}
	if err := writeG1Slice(w, ck.HatY); err != nil {
		return fmt.Errorf("params: writing hat_y: %w", err)
	}
	return nil
}

// ReadCommitmentKey parses the layout WriteCommitmentKey produces.
func ReadCommitmentKey(r io.Reader) (*kzg.CommitmentKey, error) {
	messageLength, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading message length: %w", err)
	}
	cardinality, err := readUint64(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading domain descriptor: %w", err)
	}
	if !kzg.DomainFits(2 * cardinality) {
		return nil, fmt.Errorf("params: domain descriptor %d exceeds the largest domain the scalar field supports", cardinality)
	}
	domain := kzg.NewDomain(cardinality)
	if domain.Cardinality != cardinality {
		return nil, fmt.Errorf("params: domain descriptor %d is not a power of two", cardinality)
	}
	domain2N := kzg.NewDomain(2 * domain.Cardinality)

	u, err := readG1Slice(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading u: %w", err)
	}
	hatU, err := readG1Slice(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading hat_u: %w", err)
	}
	lagranges, err := readG1Slice(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading lagranges: %w", err)
	}

	var g2Buf [bls12381.SizeOfG2AffineCompressed]byte
	if _, err := io.ReadFull(r, g2Buf[:]); err != nil {
		return nil, fmt.Errorf("params: reading g2: %w", err)
	}
	var g2 bls12381.G2Affine
	if _, err := g2.SetBytes(g2Buf[:]); err != nil {
		return nil, fmt.Errorf("params: decoding g2: %w", err)
	}

	var rBuf [bls12381.SizeOfG2AffineCompressed]byte
	if _, err := io.ReadFull(r, rBuf[:]); err != nil {
		return nil, fmt.Errorf("params: reading r: %w", err)
	}
	var rPoint bls12381.G2Affine
	if _, err := rPoint.SetBytes(rBuf[:]); err != nil {
		return nil, fmt.Errorf("params: decoding r: %w", err)
	}

	d, err := readG2Slice(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading d: %w", err)
	}
	y, err := readG1Slice(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading y: %w", err)
	}
	hatY, err := readG1Slice(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading hat_y: %w", err)
	}

	return &kzg.CommitmentKey{
		MessageLength: messageLength,
		Domain:        domain,
		Domain2N:      domain2N,
		U:             u,
		HatU:          hatU,
		Lagranges:     lagranges,
		G2:            g2,
		R:             rPoint,
		D:             d,
		Y:             y,
		HatY:          hatY,
	}, nil
}
