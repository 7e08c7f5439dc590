// Copyright (c) 2018 The ExchangeCoin team
// Copyright (c) 2013-2016 The btcsuite developers
// Copyright (c) 2015-2016 The Decred developers
// Copyright (c) 2024 The Pantheon developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"github.com/Tsoympet/PantheonChain-sub001/chaincfg"
	"github.com/Tsoympet/PantheonChain-sub001/wire"
)

// activeNetParams is a pointer to the parameters specific to the
// currently active TALANTON network.
var activeNetParams = &mainNetParams

// params groups a chaincfg.Params with the daemon-side settings that vary
// per network but don't belong in the consensus parameters themselves.
type params struct {
	*chaincfg.Params
	rpcPort string
}

// mainNetParams contains parameters specific to the main network
// (wire.MainNet).
var mainNetParams = params{
	Params:  chaincfg.MainNetParams(),
	rpcPort: "9109",
}

// testNetParams contains parameters specific to the test network
// (wire.TestNet).
var testNetParams = params{
	Params:  chaincfg.TestNetParams(),
	rpcPort: "19109",
}

// regNetParams contains parameters specific to the regression test
// network (wire.RegNet).
var regNetParams = params{
	Params:  chaincfg.RegNetParams(),
	rpcPort: "19556",
}

// netName returns the directory-safe name used when referring to a
// TALANTON network for data/log directory layout.
func netName(chainParams *params) string {
	switch chainParams.Net {
	case wire.TestNet:
		return "testnet"
	case wire.RegNet:
		return "regtest"
	default:
		return chainParams.Name
	}
}
