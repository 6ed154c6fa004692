package domain

import "testing"

func TestMaskPhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0512345678", "051234****"},
		{"12345", "1****"},
		{"1234", "****"},
		{"12", "****"},
		{"", "****"},
	}
	for _, tt := range tests {
		if got := MaskPhone(tt.in); got != tt.want {
			t.Errorf("MaskPhone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskSocialAccount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"@sara_styles", "@sara_sty***"},
		{"@abc", "@***"},
		{"@a", "***"},
		{"", "***"},
	}
	for _, tt := range tests {
		if got := MaskSocialAccount(tt.in); got != tt.want {
			t.Errorf("MaskSocialAccount(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInfluencerFinalPlatform(t *testing.T) {
	i := &Influencer{Platform: PlatformTikTok, CustomPlatform: "twitch"}
	if got := i.FinalPlatform(); got != PlatformTikTok {
		t.Fatalf("custom platform must be ignored for known platforms, got %q", got)
	}
	i.Platform = PlatformOther
	if got := i.FinalPlatform(); got != "twitch" {
		t.Fatalf("expected custom platform, got %q", got)
	}
	i.CustomPlatform = ""
	if got := i.FinalPlatform(); got != PlatformOther {
		t.Fatalf("expected fallback to raw platform, got %q", got)
	}
}
