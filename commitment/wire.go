// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package commitment

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedCommitment is returned by Decode when the wire text does
// not parse into exactly the fields spec.md section 4.7 requires.
var ErrMalformedCommitment = errors.New("commitment: malformed wire encoding")

// Encode serializes c as colon-delimited fields — source, epoch, height,
// three hashes, upstream hash (possibly empty), comma-separated
// validator tuples — per spec.md section 4.7. Encode never fails: it is
// the caller's responsibility to validate c before relying on the
// result (see ValidEncoding).
func (c *Commitment) Encode() string {
	tuples := make([]string, len(c.Signatures))
	for i, sig := range c.Signatures {
		tuples[i] = fmt.Sprintf("%s|%d|%s", sig.ValidatorID, sig.StakeWeight, sig.Signature)
	}

	fields := []string{
		string(c.Source),
		strconv.FormatUint(c.Epoch, 10),
		strconv.FormatUint(c.FinalizedHeight, 10),
		c.BlockHash,
		c.StateRoot,
		c.ValidatorSetHash,
		c.UpstreamHash,
		strings.Join(tuples, ","),
	}
	return strings.Join(fields, ":")
}

// Decode parses the colon-delimited wire form produced by Encode.
// It requires exactly eight fields (a trailing ninth field, produced by
// an extra unescaped colon, is rejected as "no trailing data"); fields
// 1 (epoch) and 2 (finalized height) must parse as unsigned integers;
// the source must be DRACHMA or OBOLOS.
func Decode(s string) (*Commitment, error) {
	fields := strings.SplitN(s, ":", 9)
	if len(fields) != 8 {
		return nil, ErrMalformedCommitment
	}

	source := Source(fields[0])
	if source != SourceDRACHMA && source != SourceOBOLOS {
		return nil, ErrMalformedCommitment
	}

	epoch, err := strconv.ParseUint(fields[1], 10, 64)
	if err != nil {
		return nil, ErrMalformedCommitment
	}
	height, err := strconv.ParseUint(fields[2], 10, 64)
	if err != nil {
		return nil, ErrMalformedCommitment
	}

	c := &Commitment{
		Source:           source,
		Epoch:            epoch,
		FinalizedHeight:  height,
		BlockHash:        fields[3],
		StateRoot:        fields[4],
		ValidatorSetHash: fields[5],
		UpstreamHash:     fields[6],
	}

	if fields[7] != "" {
		tuples := strings.Split(fields[7], ",")
		c.Signatures = make([]FinalitySignature, len(tuples))
		for i, tuple := range tuples {
			parts := strings.SplitN(tuple, "|", 4)
			if len(parts) != 3 {
				return nil, ErrMalformedCommitment
			}
			weight, err := strconv.ParseUint(parts[1], 10, 64)
			if err != nil {
				return nil, ErrMalformedCommitment
			}
			c.Signatures[i] = FinalitySignature{
				ValidatorID: parts[0],
				StakeWeight: weight,
				Signature:   parts[2],
			}
		}
	}

	return c, nil
}
