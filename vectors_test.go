// vectors_test.go - RFC 5054 Appendix B known-answer vector
//
// Copyright 2013-2017 Sudhi Herle <sudhi.herle-at-gmail-dot-com>
// License: MIT
//

package srp

import (
	"crypto"
	"math/big"
	"strings"
	"testing"
)

// mustParseHex concatenates parts (stripping embedded whitespace, the way
// RFC 5054 Appendix B itself wraps its hex dumps across lines) and parses
// the result as a base-16 big.Int.
func mustParseHex(t *testing.T, parts ...string) *big.Int {
	t.Helper()
	var b strings.Builder
	for _, p := range parts {
		b.WriteString(strings.Join(strings.Fields(p), ""))
	}
	v, ok := new(big.Int).SetString(b.String(), 16)
	if !ok {
		t.Fatalf("bad hex literal: %q", b.String())
	}
	return v
}

// TestRFC5054AppendixBVector exercises the well-known RFC 5054 Appendix B
// scenario (I="alice", P="password123", 1024-bit group, SHA-1), pinning
// every published intermediate (x, v, k, a, A, b, B, u, S) and checking this
// package's routines reproduce each one bit-exactly. a and b are fed in
// directly rather than drawn from the CSPRNG, since the vector pins them;
// M1/M2 aren't published by the RFC for this hash construction, so those
// are instead checked for client/server agreement, the property that
// matters once x..S are confirmed to match the known answer.
func TestRFC5054AppendixBVector(t *testing.T) {
	p, err := NewParameters(1024, crypto.SHA1)
	if err != nil {
		t.Fatalf("NewParameters: %v", err)
	}
	r := NewRoutines(p)

	const identity = "alice"
	const password = "password123"

	salt := mustParseHex(t, "BEB25379 D1A8581E B5A72767 3A2441EE")
	wantX := mustParseHex(t, "94B7555A ABE9127C C58CCF49 93DB6CF8 4D16C124")
	wantV := mustParseHex(t,
		"7E273DE8 696FFC4F 4E337D05 B4B375BE B0DDE156 9E8FA00A 9886D812",
		"9BADA1F1 822223CA 1A605B53 0E379BA4 729FDC59 F105B478 7E5186F5",
		"C671085A 1447B52A 48CF1970 B4FB6F84 00BBF4CE BFBB1681 52E08AB5",
		"EA53D15C 1AFF87B2 B9DA6E04 E058AD51 CC72BFC9 033B564E 26480D78",
		"E955A5E2 9E7AB245 DB2BE315 E2099AFB",
	)
	wantK := mustParseHex(t, "7556AA04 5AEF2CDD 07ABAF0F 665C3E81 8913186F")
	a := mustParseHex(t,
		"60975527 035CF2AD 1989806F 0407210B C81EDC04 E2762A56 AFD529DD",
		"DA2D4393",
	)
	wantA := mustParseHex(t,
		"61D5E490 F6F1B795 47B0704C 436F523D D0E560F0 C64115BB 72557EC4",
		"4352E890 3211C046 92272D8B 2D1A5358 A2CF1B6E 0BFCF99F 921530EC",
		"8E393561 79EAE45E 42BA92AE ACED8251 71E1E8B9 AF6D9C03 E1327F44",
		"BE087EF0 6530E69F 66615261 EEF54073 CA11CF58 58F0EDFD FE15EFEA",
		"B349EF5D 76988A36 72FAC47B 0769447B",
	)
	b := mustParseHex(t,
		"E487CB59 D31AC550 471E81F0 0F6928E0 1DDA08E9 74A004F4 9E61F5D1",
		"05284D20",
	)
	wantB := mustParseHex(t,
		"BD0C6151 2C692C0C B6D041FA 01BB152D 4916A1E7 7AF46AE1 05393011",
		"BAF38964 DC46A067 0DD125B9 5A981652 236F99D9 B681CBF8 7837EC99",
		"6C6DA044 53728610 D0C6DDB5 8B318885 D7D82C7F 8DEB75CE 7BD4FBAA",
		"37089E6F 9C6059F3 88838E7A 00030B33 1EB76840 910440B1 B27AAEAE",
		"EB4012B7 D7665238 A8E3FB00 4B117B58",
	)
	wantU := mustParseHex(t, "CE38B959 3487DA98 554ED47D 70A7AE5F 462EF019")
	wantS := mustParseHex(t,
		"B0DC82BA BCF30674 AE450C02 87745E79 90A3381F 63B387AA F271A10D",
		"233861E3 59B48220 F7C4693C 9AE12B0A 6F67809F 0876E2D0 13800D6C",
		"41BB59B6 D5979B5C 00A172B4 A2A5903A 0BDCAF8A 709585EB 2AFAFA8F",
		"3499B200 210DCC1F 10EB3394 3CD67FC8 8A2F39A4 BE5BEC4E C0A3212D",
		"C346D7E4 74B29EDE 8A469FFE CA686E5A",
	)

	x := r.computeX(identity, password, salt.Bytes())
	if x.Cmp(wantX) != 0 {
		t.Fatalf("x mismatch:\n got=%X\nwant=%X", x, wantX)
	}

	v, err := r.computeVerifier(x)
	if err != nil {
		t.Fatalf("computeVerifier: %v", err)
	}
	if v.Cmp(wantV) != 0 {
		t.Fatalf("v mismatch:\n got=%X\nwant=%X", v, wantV)
	}

	k := r.computeK()
	if k.Cmp(wantK) != 0 {
		t.Fatalf("k mismatch:\n got=%X\nwant=%X", k, wantK)
	}

	A, err := r.computeClientPublicValue(a)
	if err != nil {
		t.Fatalf("computeClientPublicValue: %v", err)
	}
	if A.Cmp(wantA) != 0 {
		t.Fatalf("A mismatch:\n got=%X\nwant=%X", A, wantA)
	}
	if !r.isValidPublicValue(A) {
		t.Fatal("A must not be 0 mod N")
	}

	B, err := r.computeServerPublicValue(k, v, b)
	if err != nil {
		t.Fatalf("computeServerPublicValue: %v", err)
	}
	if B.Cmp(wantB) != 0 {
		t.Fatalf("B mismatch:\n got=%X\nwant=%X", B, wantB)
	}
	if !r.isValidPublicValue(B) {
		t.Fatal("B must not be 0 mod N")
	}

	u := r.computeU(A, B)
	if u.Cmp(wantU) != 0 {
		t.Fatalf("u mismatch:\n got=%X\nwant=%X", u, wantU)
	}
	if u.Sign() == 0 {
		t.Fatal("u must not be 0")
	}

	clientS, err := r.computeClientPremaster(k, x, u, a, B)
	if err != nil {
		t.Fatalf("computeClientPremaster: %v", err)
	}
	if clientS.Cmp(wantS) != 0 {
		t.Fatalf("client S mismatch:\n got=%X\nwant=%X", clientS, wantS)
	}

	serverS, err := r.computeServerPremaster(v, u, A, b)
	if err != nil {
		t.Fatalf("computeServerPremaster: %v", err)
	}
	if serverS.Cmp(wantS) != 0 {
		t.Fatalf("server S mismatch:\n got=%X\nwant=%X", serverS, wantS)
	}

	clientM1 := r.computeM1(A, B, clientS)
	serverM1 := r.computeM1(A, B, serverS)
	if clientM1.Cmp(serverM1) != 0 {
		t.Fatal("M1 must be a pure function of (A, B, S)")
	}

	serverM2 := r.computeM2(A, clientM1, serverS)
	clientM2 := r.computeM2(A, clientM1, clientS)
	if serverM2.Cmp(clientM2) != 0 {
		t.Fatal("M2 must be a pure function of (A, M1, S)")
	}
}
