package security

import "testing"

func TestTextSanitizer_Clean(t *testing.T) {
	s := NewTextSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"プレーンテキストはそのまま", "Halo, saya tertarik", "Halo, saya tertarik"},
		{"scriptタグは内容ごと除去", `<script>alert("x")</script>Halo`, "Halo"},
		{"装飾タグは除去して本文を残す", "<b>Bot</b> <i>WhatsApp</i>", "Bot WhatsApp"},
		{"アンパサンドは元に戻す", "Toko A & B", "Toko A & B"},
		{"不等号を含む文章を保持", "harga < Rp 100.000", "harga < Rp 100.000"},
		{"前後の空白を除去", "  pesan  ", "pesan"},
		{"空文字列", "", ""},
		{"タグのみは空文字列", "<img src=x onerror=alert(1)>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Clean(tt.input); got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestTextSanitizer_Clean_Idempotent(t *testing.T) {
	s := NewTextSanitizer()
	input := "<p>Bot & <em>AI</em></p>"

	first := s.Clean(input)
	if second := s.Clean(first); second != first {
		t.Errorf("Clean is not idempotent: %q -> %q", first, second)
	}
}

func TestTextSanitizer_CleanAll(t *testing.T) {
	s := NewTextSanitizer()

	if got := s.CleanAll(nil); got != nil {
		t.Errorf("CleanAll(nil) = %v, want nil", got)
	}

	got := s.CleanAll([]string{"<b>24/7</b>", "Auto reply"})
	want := []string{"24/7", "Auto reply"}
	if len(got) != len(want) {
		t.Fatalf("CleanAll() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("CleanAll()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
