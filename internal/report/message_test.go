package report

import (
	"testing"

	"kas/internal/core"
)

func TestWhatsAppMessage(t *testing.T) {
	f := DefaultMoneyFormat()
	l := LabelsID()

	tests := []struct {
		name string
		tx   core.Transaction
		want string
	}{
		{
			name: "full income with non-cash method and description",
			tx: core.Transaction{
				Date:              core.NewDate(2025, 8, 8),
				Amount:            core.Money{Cents: 10000000},
				Direction:         core.Income,
				CategoryName:      "Infaq",
				PartnerName:       "John Doe",
				PaymentMethodName: "QRIS",
				Description:       "Donasi untuk masjid",
			},
			want: "*Jumat, 8 Agustus 2025*\n" +
				"* Infaq dari John Doe: Rp 100.000 (QRIS)\n" +
				"  Keterangan: Donasi untuk masjid",
		},
		{
			name: "anonymous donor on a Sunday",
			tx: core.Transaction{
				Date:         core.NewDate(2025, 8, 10),
				Amount:       core.Money{Cents: 5000000},
				Direction:    core.Income,
				CategoryName: "Infaq",
			},
			want: "*Ahad, 10 Agustus 2025*\n" +
				"* Infaq dari Hamba Allah: Rp 50.000",
		},
		{
			name: "explicit cash method is not shown",
			tx: core.Transaction{
				Date:              core.NewDate(2025, 8, 8),
				Amount:            core.Money{Cents: 2500000},
				Direction:         core.Income,
				CategoryName:      "Infaq",
				PartnerName:       "Ibu Siti",
				PaymentMethodName: "Tunai",
			},
			want: "*Jumat, 8 Agustus 2025*\n" +
				"* Infaq dari Ibu Siti: Rp 25.000",
		},
		{
			name: "missing category falls back",
			tx: core.Transaction{
				Date:      core.NewDate(2025, 8, 11),
				Amount:    core.Money{Cents: 1000000},
				Direction: core.Income,
			},
			want: "*Senin, 11 Agustus 2025*\n" +
				"* Tanpa Kategori dari Hamba Allah: Rp 10.000",
		},
		{
			name: "bank transfer shows method",
			tx: core.Transaction{
				Date:              core.NewDate(2025, 8, 12),
				Amount:            core.Money{Cents: 20000000},
				Direction:         core.Income,
				CategoryName:      "Infaq Pembangunan",
				PartnerName:       "PT Berkah",
				PaymentMethodName: "Transfer Bank",
			},
			want: "*Selasa, 12 Agustus 2025*\n" +
				"* Infaq Pembangunan dari PT Berkah: Rp 200.000 (Transfer Bank)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := WhatsAppMessage(tt.tx, f, l); got != tt.want {
				t.Errorf("WhatsAppMessage mismatch\ngot:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestWhatsAppMessageEnglishLabels(t *testing.T) {
	f := DefaultMoneyFormat()
	l := LabelsEN()

	tx := core.Transaction{
		Date:      core.NewDate(2025, 8, 8),
		Amount:    core.Money{Cents: 5000000},
		Direction: core.Income,
	}

	want := "*Jumat, 8 Agustus 2025*\n" +
		"* No Category dari Anonymous: Rp 50.000"
	if got := WhatsAppMessage(tx, f, l); got != want {
		t.Errorf("WhatsAppMessage mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}
