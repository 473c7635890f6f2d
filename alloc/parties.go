// Copyright (c) 2025 Kelechi Dike.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package alloc

import "strings"

// Party is a registered party code as it appears on the ballot.
type Party string

const (
	PartyAPC  Party = "APC"
	PartyLP   Party = "LP"
	PartyPDP  Party = "PDP"
	PartyAA   Party = "AA"
	PartyAD   Party = "AD"
	PartyADC  Party = "ADC"
	PartyNRM  Party = "NRM"
	PartyNNPP Party = "NNPP"
	PartyPRP  Party = "PRP"
	PartySDP  Party = "SDP"
	PartyYPP  Party = "YPP"
	PartyYP   Party = "YP"
	PartyZLP  Party = "ZLP"
	PartyA    Party = "A"
	PartyAAC  Party = "AAC"
	PartyADP  Party = "ADP"
	PartyAPM  Party = "APM"
	PartyAPGA Party = "APGA"
	PartyAPP  Party = "APP"
	PartyBP   Party = "BP"
)

// Parties is the canonical party order. Weight forms, result payloads,
// export columns and the Randomized tie-break all iterate in this order,
// so adding a party means appending here and nowhere else.
var Parties = []Party{
	PartyAPC, PartyLP, PartyPDP, PartyAA, PartyAD, PartyADC,
	PartyNRM, PartyNNPP, PartyPRP, PartySDP, PartyYPP, PartyYP,
	PartyZLP, PartyA, PartyAAC, PartyADP, PartyAPM, PartyAPGA,
	PartyAPP, PartyBP,
}

// FormKey is the flat form-field name carrying this party's percentage,
// e.g. "apc_percentage".
func (p Party) FormKey() string {
	return strings.ToLower(string(p)) + "_percentage"
}

// ParseParty resolves a code to a known party, case-insensitively.
func ParseParty(code string) (Party, bool) {
	c := strings.ToUpper(strings.TrimSpace(code))
	for _, p := range Parties {
		if string(p) == c {
			return p, true
		}
	}
	return "", false
}
