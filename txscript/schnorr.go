// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

import (
	"errors"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"

	"github.com/Tsoympet/PantheonChain-sub001/chainhash"
)

// Signature is a BIP-340-style Schnorr signature: a curve point R
// (stored as its x-only, 32-byte field element) and a scalar s.
type Signature struct {
	r secp256k1.FieldVal
	s secp256k1.ModNScalar
}

// ErrSigLen is returned when a byte slice handed to ParseSignature is not
// exactly 64 bytes.
var ErrSigLen = errors.New("txscript: schnorr signature must be 64 bytes")

// ParseSignature decodes a 64-byte BIP-340 signature (32-byte r, 32-byte s).
func ParseSignature(sig []byte) (*Signature, error) {
	if len(sig) != 64 {
		return nil, ErrSigLen
	}

	var r secp256k1.FieldVal
	if overflow := r.SetByteSlice(sig[0:32]); overflow {
		return nil, errors.New("txscript: signature r overflows the field")
	}

	var s secp256k1.ModNScalar
	if overflow := s.SetByteSlice(sig[32:64]); overflow {
		return nil, errors.New("txscript: signature s overflows the group order")
	}

	return &Signature{r: r, s: s}, nil
}

// Serialize encodes sig as 32-byte r followed by 32-byte s.
func (sig *Signature) Serialize() []byte {
	var out [64]byte
	rBytes := sig.r.Bytes()
	sBytes := sig.s.Bytes()
	copy(out[0:32], rBytes[:])
	copy(out[32:64], sBytes[:])
	return out[:]
}

// IsEqual reports whether sig and other encode the same (r, s) pair.
func (sig *Signature) IsEqual(other *Signature) bool {
	if sig == nil || other == nil {
		return sig == other
	}
	return sig.r.Equals(&other.r) && sig.s.Equals(&other.s)
}

// schnorrChallengeTag is the BIP-340 challenge tagged-hash domain.
const schnorrChallengeTag = "BIP0340/challenge"

// Verify checks a BIP-340 Schnorr signature over hash for the x-only
// public key pubKey (taken as pubKey's X coordinate; the corresponding
// even-Y point per BIP-340's x-only convention), per spec.md section 4.1.
//
//   - e = TaggedHash("BIP0340/challenge", R.X || P.X || msg) mod n
//   - accept iff s*G == R + e*P, with R required to have an even Y
//     coordinate (the x-only encoding implicitly selects that root)
func Verify(sig *Signature, hash chainhash.Hash, pubKey *secp256k1.PublicKey) bool {
	if sig == nil || pubKey == nil {
		return false
	}

	// P, negated to even-Y form per BIP-340 (x-only keys are implicitly
	// the even-Y point for their X coordinate).
	var p secp256k1.JacobianPoint
	pubKey.AsJacobian(&p)
	p.ToAffine()
	if p.Y.IsOdd() {
		p.Y.Negate(1)
		p.Y.Normalize()
	}

	pBytes := p.X.Bytes()
	rBytes := sig.r.Bytes()
	e := schnorrChallenge(rBytes[:], pBytes[:], hash[:])

	// sG
	var sG secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&sig.s, &sG)

	// e*P
	var eP secp256k1.JacobianPoint
	secp256k1.ScalarMultNonConst(&e, &p, &eP)

	// R' = sG - eP
	eP.Y.Negate(1)
	eP.Y.Normalize()
	var rPrime secp256k1.JacobianPoint
	secp256k1.AddNonConst(&sG, &eP, &rPrime)

	if (rPrime.X.IsZero() && rPrime.Y.IsZero()) || rPrime.Z.IsZero() {
		return false
	}
	rPrime.ToAffine()

	if rPrime.Y.IsOdd() {
		return false
	}
	return rPrime.X.Equals(&sig.r)
}

// schnorrChallenge computes e = TaggedHash(tag, rBytes||pBytes||msg) mod n.
func schnorrChallenge(rBytes, pBytes, msg []byte) secp256k1.ModNScalar {
	h := chainhash.TaggedHash(schnorrChallengeTag, rBytes, pBytes, msg)
	var e secp256k1.ModNScalar
	e.SetByteSlice(h[:])
	return e
}

// Sign produces a BIP-340 Schnorr signature over hash under priv,
// following the reference signing algorithm. The nonce k is derived
// from a tagged hash of the parity-adjusted private scalar and the
// message rather than RFC6979: only Verify is consensus-critical here,
// and this is still distinct per message and never reused verbatim.
func Sign(priv *secp256k1.PrivateKey, hash chainhash.Hash) *Signature {
	var p secp256k1.JacobianPoint
	priv.PubKey().AsJacobian(&p)
	p.ToAffine()

	var d secp256k1.ModNScalar
	d.SetByteSlice(priv.Serialize())
	if p.Y.IsOdd() {
		d.Negate()
	}

	seed := chainhash.TaggedHash("BIP0340/nonce", d.Bytes()[:], hash[:])
	var k secp256k1.ModNScalar
	k.SetByteSlice(seed[:])
	if k.IsZero() {
		k.SetInt(1)
	}

	var rPoint secp256k1.JacobianPoint
	secp256k1.ScalarBaseMultNonConst(&k, &rPoint)
	rPoint.ToAffine()
	if rPoint.Y.IsOdd() {
		k.Negate()
	}

	rBytes := rPoint.X.Bytes()
	pBytes := p.X.Bytes()
	e := schnorrChallenge(rBytes[:], pBytes[:], hash[:])

	s := e
	s.Mul(&d)
	s.Add(&k)

	return &Signature{r: rPoint.X, s: s}
}
