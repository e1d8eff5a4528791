package model

import (
	"errors"
	"testing"
)

func TestTransitionHappyPaths(t *testing.T) {
	// Deposit flow: pending -> proof -> validated -> settled -> completed.
	dpFlow := []Status{StatusPending, StatusDPSent, StatusDPPaid, StatusPelunasanSent, StatusPelunasanPaid, StatusCompleted}
	for i := 0; i < len(dpFlow)-1; i++ {
		if err := Transition(dpFlow[i], dpFlow[i+1]); err != nil {
			t.Errorf("deposit flow %s -> %s should be legal: %v", dpFlow[i], dpFlow[i+1], err)
		}
	}

	// Full payment skips the deposit states entirely.
	fullFlow := []Status{StatusPending, StatusPelunasanSent, StatusPelunasanPaid, StatusCompleted}
	for i := 0; i < len(fullFlow)-1; i++ {
		if err := Transition(fullFlow[i], fullFlow[i+1]); err != nil {
			t.Errorf("full-payment flow %s -> %s should be legal: %v", fullFlow[i], fullFlow[i+1], err)
		}
	}
}

func TestTransitionRejectionAndResubmit(t *testing.T) {
	if err := Transition(StatusDPSent, StatusDPRejected); err != nil {
		t.Errorf("rejecting a deposit proof should be legal: %v", err)
	}
	if err := Transition(StatusDPRejected, StatusDPSent); err != nil {
		t.Errorf("resubmitting after a rejected deposit should be legal: %v", err)
	}
	// Settlement rejection falls back to the validated-deposit state.
	if err := Transition(StatusPelunasanSent, StatusDPPaid); err != nil {
		t.Errorf("settlement rejection back to DP_PAID should be legal: %v", err)
	}
	// A rejected full payment falls all the way back to pending.
	if err := Transition(StatusPelunasanSent, StatusPending); err != nil {
		t.Errorf("full-payment rejection back to PENDING should be legal: %v", err)
	}
}

func TestTransitionIllegal(t *testing.T) {
	cases := []struct{ from, to Status }{
		{StatusPending, StatusDPPaid},        // cannot validate an unsent proof
		{StatusPending, StatusCompleted},     // cannot complete an unpaid booking
		{StatusDPSent, StatusPelunasanPaid},  // cannot skip deposit validation
		{StatusDPPaid, StatusDPSent},         // no going back to an unsent deposit
		{StatusCompleted, StatusPending},     // terminal
		{StatusCancelled, StatusDPSent},      // terminal
		{StatusRejected, StatusPending},      // terminal
	}
	for _, tc := range cases {
		err := Transition(tc.from, tc.to)
		if err == nil {
			t.Errorf("%s -> %s should be illegal", tc.from, tc.to)
			continue
		}
		if !errors.Is(err, ErrIllegalTransition) {
			t.Errorf("%s -> %s should wrap ErrIllegalTransition, got %v", tc.from, tc.to, err)
		}
	}
}

func TestRejectIsNotIdempotent(t *testing.T) {
	// The first reject succeeds; repeating it against the already
	// rejected reservation must fail, not silently no-op.
	if err := Transition(StatusDPSent, StatusRejected); err != nil {
		t.Fatalf("first reject should be legal: %v", err)
	}
	err := Transition(StatusRejected, StatusRejected)
	if err == nil {
		t.Fatal("second reject should fail")
	}
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("second reject should wrap ErrIllegalTransition, got %v", err)
	}
}

func TestTerminalAndHolding(t *testing.T) {
	terminal := []Status{StatusRejected, StatusCancelled, StatusCompleted}
	for _, s := range terminal {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
		if s.Holding() {
			t.Errorf("%s should not hold its slot", s)
		}
	}
	holding := []Status{StatusPending, StatusDPSent, StatusDPPaid, StatusDPRejected, StatusPelunasanSent, StatusPelunasanPaid}
	for _, s := range holding {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
		if !s.Holding() {
			t.Errorf("%s should hold its slot", s)
		}
	}
}

func TestParsePaymentPhase(t *testing.T) {
	for _, good := range []string{"DEPOSIT", "SETTLEMENT", "FULL"} {
		if _, ok := ParsePaymentPhase(good); !ok {
			t.Errorf("%q should parse", good)
		}
	}
	for _, bad := range []string{"", "deposit", "PELUNASAN", "DP"} {
		if _, ok := ParsePaymentPhase(bad); ok {
			t.Errorf("%q should not parse", bad)
		}
	}
}
