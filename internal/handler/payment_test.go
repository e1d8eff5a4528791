package handler

import (
	"errors"
	"testing"

	"github.com/rakhadimas/field-reservation/internal/model"
)

func TestPhaseMatchesPaymentType(t *testing.T) {
	cases := []struct {
		name    string
		phase   model.PaymentPhase
		payType model.PaymentType
		want    bool
	}{
		{"deposit on DP booking", model.PhaseDeposit, model.PaymentDP, true},
		{"deposit on full booking", model.PhaseDeposit, model.PaymentFull, false},
		{"settlement on DP booking", model.PhaseSettlement, model.PaymentDP, true},
		{"settlement on full booking", model.PhaseSettlement, model.PaymentFull, false},
		{"full on full booking", model.PhaseFull, model.PaymentFull, true},
		{"full on DP booking", model.PhaseFull, model.PaymentDP, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := phaseMatchesPaymentType(tc.phase, tc.payType); got != tc.want {
				t.Errorf("phaseMatchesPaymentType(%s, %s) = %v, want %v", tc.phase, tc.payType, got, tc.want)
			}
		})
	}
}

func TestValidationOutcome(t *testing.T) {
	cases := []struct {
		name       string
		phase      model.PaymentPhase
		approved   bool
		payType    model.PaymentType
		wantStatus model.Status
		wantPay    model.PayStatus
	}{
		{"deposit approved", model.PhaseDeposit, true, model.PaymentDP, model.StatusDPPaid, model.PayDPPaid},
		{"deposit rejected", model.PhaseDeposit, false, model.PaymentDP, model.StatusDPRejected, model.PayDPRejected},
		{"settlement approved", model.PhaseSettlement, true, model.PaymentDP, model.StatusPelunasanPaid, model.PayPaid},
		{"settlement rejected", model.PhaseSettlement, false, model.PaymentDP, model.StatusDPPaid, model.PayDPPaid},
		{"full approved", model.PhaseFull, true, model.PaymentFull, model.StatusPelunasanPaid, model.PayPaid},
		{"full rejected", model.PhaseFull, false, model.PaymentFull, model.StatusPending, model.PayPending},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, pay := validationOutcome(tc.phase, tc.approved, tc.payType)
			if status != tc.wantStatus || pay != tc.wantPay {
				t.Errorf("validationOutcome(%s, %v, %s) = (%s, %s), want (%s, %s)",
					tc.phase, tc.approved, tc.payType, status, pay, tc.wantStatus, tc.wantPay)
			}
		})
	}
}

func TestPaymentAmountFor(t *testing.T) {
	u := func(v uint64) *uint64 { return &v }
	cases := []struct {
		name      string
		payType   model.PaymentType
		total     uint64
		requested *uint64
		want      uint64
		wantErr   bool
	}{
		{"full default", model.PaymentFull, 200_000, nil, 200_000, false},
		{"DP default half", model.PaymentDP, 200_000, nil, 100_000, false},
		{"explicit within total", model.PaymentDP, 200_000, u(150_000), 150_000, false},
		{"explicit equal to total", model.PaymentFull, 200_000, u(200_000), 200_000, false},
		{"explicit above total", model.PaymentDP, 200_000, u(250_000), 0, true},
		{"zero request falls back to default", model.PaymentDP, 200_000, u(0), 100_000, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := paymentAmountFor(tc.payType, tc.total, tc.requested)
			if tc.wantErr {
				if !errors.Is(err, errAmountExceedsTotal) {
					t.Fatalf("expected errAmountExceedsTotal, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("paymentAmountFor(%s, %d, %v) = %d, want %d", tc.payType, tc.total, tc.requested, got, tc.want)
			}
		})
	}
}
