package i18n

import (
	"strings"
	"testing"
)

func TestGetCatalogFallsBackToBaseLocale(t *testing.T) {
	tests := []struct {
		name      string
		requested string
		want      string
	}{
		{"empty", "", "en-US"},
		{"base", "en-US", "en-US"},
		{"english variant", "en-GB", "en-US"},
		{"simplified chinese", "zh-CN", "zh-CN"},
		{"bare chinese", "zh", "zh-CN"},
		{"garbage", "not-a-locale!", "en-US"},
		{"unsupported", "pt-BR", "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCatalog(tt.requested).Locale(); got != tt.want {
				t.Fatalf("locale = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatRendersMetadata(t *testing.T) {
	cat := GetCatalog("en-US")
	msg := cat.Format(CodeLeadershipAlreadyClaimed, map[string]string{"DayNumber": "3"})
	if !strings.Contains(msg, "day 3") {
		t.Fatalf("expected rendered day number, got %q", msg)
	}
}

func TestFormatTooShortRendersMinimum(t *testing.T) {
	// The template keys must match the metadata the check-in guard emits.
	cat := GetCatalog("zh-CN")
	msg := cat.Format(CodeCheckInContentTooShort, map[string]string{"Count": "5", "Min": "20"})
	if !strings.Contains(msg, "20") {
		t.Fatalf("expected rendered minimum, got %q", msg)
	}
}

func TestFormatUnknownCodeReturnsCode(t *testing.T) {
	cat := GetCatalog("en-US")
	if got := cat.Format("NO_SUCH_CODE", nil); got != "NO_SUCH_CODE" {
		t.Fatalf("expected code passthrough, got %q", got)
	}
}

func TestFormatNilMetadataRendersEmpty(t *testing.T) {
	cat := GetCatalog("en-US")
	msg := cat.Format(CodeEventCannotStart, nil)
	if strings.Contains(msg, "{{") {
		t.Fatalf("expected template executed, got %q", msg)
	}
}

func TestLocalesCoverTheSameCodes(t *testing.T) {
	if len(messagesEnUS) != len(messagesZhCN) {
		t.Fatalf("catalog sizes differ: en-US=%d zh-CN=%d", len(messagesEnUS), len(messagesZhCN))
	}
	for code := range messagesEnUS {
		if _, ok := messagesZhCN[code]; !ok {
			t.Fatalf("zh-CN catalog is missing code %s", code)
		}
	}
}
