package tidy

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/glycerine/blake2b"
	"golang.org/x/crypto/sha3"
)

// Blake2bUint64 returns an 8 byte BLAKE2b hash of raw.
func Blake2bUint64(raw []byte) uint64 {
	cfg := &blake2b.Config{Size: 8}
	h, err := blake2b.New(cfg)
	panicOn(err)
	h.Write(raw)
	by := h.Sum(nil)
	return binary.LittleEndian.Uint64(by[:8])
}

// Blake2b256 returns the 32 byte BLAKE2b hash of raw.
func Blake2b256(raw []byte) []byte {
	cfg := &blake2b.Config{Size: 32}
	h, err := blake2b.New(cfg)
	panicOn(err)
	h.Write(raw)
	return h.Sum(nil)
}

// Fingerprint hashes the wire encoding of x, so structurally equal
// data (names included) hash the same. Quosures hash by expression only.
func Fingerprint(x Sexp) (uint64, error) {
	by, err := WireEncode(x)
	if err != nil {
		return 0, err
	}
	return Blake2bUint64(by), nil
}

// HashFunction is (hash x) giving a 64 bit fingerprint as an int. A
// second argument "hex" gives the 32 byte BLAKE2b digest in hex, and
// "sha3" the SHA3-256 digest in hex.
func HashFunction(h Host, name string, args []Sexp) (Sexp, error) {
	if len(args) < 1 || len(args) > 2 {
		return SexpNull, WrongNargs
	}
	by, err := WireEncode(args[0])
	if err != nil {
		return SexpNull, err
	}
	if len(args) == 2 {
		form, _ := args[1].(*SexpStr)
		switch {
		case form != nil && form.S == "hex":
			return &SexpStr{S: hex.EncodeToString(Blake2b256(by))}, nil
		case form != nil && form.S == "sha3":
			sum := sha3.Sum256(by)
			return &SexpStr{S: hex.EncodeToString(sum[:])}, nil
		}
		return SexpNull, fmt.Errorf("hash: unknown form %s", args[1].SexpString(nil))
	}
	return &SexpInt{Val: int64(Blake2bUint64(by))}, nil
}
