package params

import (
	"encoding/hex"
	"fmt"
	"io"

	bls12381 "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"gopkg.in/yaml.v2"

	"github.com/b-wagn/jack-go/internal/kzg"
)

// Transcript is the YAML encoding of an external powers-of-tau ceremony's
// output: a monomial-basis SRS over two independent G1 generators (the
// message generator and the hiding generator), plus the G2 generator and
// its alpha-th power. It carries no Lagrange-basis or FK-cache material —
// those are derived by LoadTranscript without ever reconstructing alpha.
type Transcript struct {
	MessageLength  uint64   `yaml:"message_length"`
	G1Powers       []string `yaml:"g1_powers"`
	G1HidingPowers []string `yaml:"g1_hiding_powers"`
	G2             string   `yaml:"g2"`
	G2Alpha        string   `yaml:"g2_alpha"`
}

func decodeG1Hex(s string) (bls12381.G1Affine, error) {
	var p bls12381.G1Affine
	b, err := hex.DecodeString(s)
	if err != nil {
		return p, err
	}
	_, err = p.SetBytes(b)
	return p, err
}

func decodeG2Hex(s string) (bls12381.G2Affine, error) {
	var p bls12381.G2Affine
	b, err := hex.DecodeString(s)
	if err != nil {
		return p, err
	}
	_, err = p.SetBytes(b)
	return p, err
}

// ParseTranscript decodes a YAML transcript from r.
func ParseTranscript(r io.Reader) (*Transcript, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("params: reading transcript: %w", err)
	}
	var t Transcript
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("params: parsing transcript: %w", err)
	}
	return &t, nil
}

// LoadTranscript turns a parsed Transcript into a full CommitmentKey,
// deriving the Lagrange basis and FK caches from the monomial powers via
// kzg.BootstrapFromMonomialSRS.
func LoadTranscript(t *Transcript) (*kzg.CommitmentKey, error) {
	g2, err := decodeG2Hex(t.G2)
	if err != nil {
		return nil, fmt.Errorf("params: decoding g2: %w", err)
	}
	r, err := decodeG2Hex(t.G2Alpha)
	if err != nil {
		return nil, fmt.Errorf("params: decoding g2_alpha: %w", err)
	}

	u := make([]bls12381.G1Affine, len(t.G1Powers))
	for i, s := range t.G1Powers {
		p, err := decodeG1Hex(s)
		if err != nil {
			return nil, fmt.Errorf("params: decoding g1_powers[%d]: %w", i, err)
		}
		u[i] = p
	}
	hatU := make([]bls12381.G1Affine, len(t.G1HidingPowers))
	for i, s := range t.G1HidingPowers {
		p, err := decodeG1Hex(s)
		if err != nil {
			return nil, fmt.Errorf("params: decoding g1_hiding_powers[%d]: %w", i, err)
		}
		hatU[i] = p
	}

	return kzg.BootstrapFromMonomialSRS(t.MessageLength, u, hatU, g2, r)
}
