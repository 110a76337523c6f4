package extraction

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestInferVATRate(t *testing.T) {
	tests := []struct {
		name string
		net  string
		vat  string
		want string
	}{
		{"exact statutory rate", "100", "23", "23"},
		{"snaps within window", "100", "22.6", "23"},
		{"snaps down within window", "100", "8.4", "8"},
		{"unusual rate preserved", "100", "15.0", "15"},
		{"unusual rate rounded to 2 decimals", "300", "50", "16.67"},
		{"zero vat snaps to zero", "100", "0", "0"},
		{"small noise near zero", "100", "0.5", "0"},
		{"zero net", "0", "23", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net := decimal.RequireFromString(tt.net)
			vat := decimal.RequireFromString(tt.vat)
			want := decimal.RequireFromString(tt.want)

			got := InferVATRate(net, vat, DefaultRateCandidates())
			if !got.Equal(want) {
				t.Errorf("InferVATRate(%s, %s) = %s, want %s", tt.net, tt.vat, got, want)
			}
		})
	}
}

func TestInferVATRate_CustomCandidates(t *testing.T) {
	// A jurisdiction with a 19% standard rate.
	candidates := []decimal.Decimal{
		decimal.NewFromInt(19),
		decimal.NewFromInt(7),
		decimal.Zero,
	}

	got := InferVATRate(decimal.NewFromInt(100), decimal.RequireFromString("18.7"), candidates)
	if want := decimal.NewFromInt(19); !got.Equal(want) {
		t.Errorf("InferVATRate() = %s, want %s with custom candidate set", got, want)
	}
}

func TestInferVATRate_EmptyCandidatesUsesDefaults(t *testing.T) {
	got := InferVATRate(decimal.NewFromInt(100), decimal.RequireFromString("22.6"), nil)
	if want := decimal.NewFromInt(23); !got.Equal(want) {
		t.Errorf("InferVATRate() = %s, want %s via default candidates", got, want)
	}
}
