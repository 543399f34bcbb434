package lottery

import (
	"io"

	"github.com/b-wagn/jack-go/internal/kzg"
)

// JackPre is Jack with eager FK preprocessing folded into key generation,
// so every subsequent GetTicket call becomes an O(1) lookup instead of an
// O(T) witness-polynomial computation.
type JackPre struct {
	Jack
}

var _ LotteryScheme[Parameters, PublicKey, SecretKey, Ticket, Seed] = JackPre{}

// Gen generates a key pair exactly as Jack does, then immediately runs FK
// preprocessing on the secret state.
func (JackPre) Gen(rng io.Reader, par Parameters) (PublicKey, SecretKey) {
	pk, sk := Jack{}.Gen(rng, par)
	kzg.FKPreprocess(par.CK, &sk.State)
	return pk, sk
}
