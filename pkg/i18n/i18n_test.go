package i18n

import (
	"testing"
)

func TestLang(t *testing.T) {
	l := NewLocalizer("zh-CN", "en")

	if got := l.Get("en", ERROR_INTERNAL); got == ERROR_INTERNAL {
		t.Fatal("expected localized message for en, got raw id")
	}
	if got := l.Get("zh-CN", ERROR_INTERNAL); got == ERROR_INTERNAL {
		t.Fatal("expected localized message for zh-CN, got raw id")
	}
	// unknown language falls back to the id itself
	if got := l.Get("fr", ERROR_INTERNAL); got != ERROR_INTERNAL {
		t.Fatalf("unexpected message for unknown lang: %s", got)
	}
}
