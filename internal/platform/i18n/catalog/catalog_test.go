package catalog

import (
	"testing"
	"testing/fstest"

	"github.com/louisbranch/storefront/internal/platform/i18n"
)

func TestLoadEmbeddedHasEverySupportedLocale(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	for _, loc := range i18n.Supported() {
		if !bundle.HasLocale(loc.String()) {
			t.Fatalf("expected locale %s", loc)
		}
	}
}

func TestEmbeddedLocalesMatchBaseKeys(t *testing.T) {
	bundle, err := LoadEmbedded()
	if err != nil {
		t.Fatalf("load embedded catalogs: %v", err)
	}
	base := bundle.LocaleMessages(BaseLocale)
	for _, locale := range bundle.Locales() {
		messages := bundle.LocaleMessages(locale)
		for key := range base {
			if _, ok := messages[key]; !ok {
				t.Fatalf("locale %s missing key %q", locale, key)
			}
		}
		for key := range messages {
			if _, ok := base[key]; !ok {
				t.Fatalf("locale %s has key %q not in %s", locale, key, BaseLocale)
			}
		}
	}
}

func TestRegisteredMessagesResolveThroughRegionTag(t *testing.T) {
	_ = Default()

	p := i18n.Japanese.Printer()
	if got := p.Sprintf("core.nav.cart"); got != "カート" {
		t.Fatalf("ja core.nav.cart = %q, want %q", got, "カート")
	}
	p = i18n.Spanish.Printer()
	if got := p.Sprintf("orders.number", 7); got != "Pedido #7" {
		t.Fatalf("es orders.number = %q, want %q", got, "Pedido #7")
	}
}

func TestMessageFallsBackToBaseLocale(t *testing.T) {
	bundle, err := LoadFromFS(fstest.MapFS{
		"locales/en/core.yaml": &fstest.MapFile{Data: []byte("locale: en\nnamespace: core\nmessages:\n  core.a: \"A\"\n  core.b: \"B\"\n")},
		"locales/es/core.yaml": &fstest.MapFile{Data: []byte("locale: es\nnamespace: core\nmessages:\n  core.a: \"a-es\"\n")},
	})
	if err != nil {
		t.Fatalf("LoadFromFS() error = %v", err)
	}
	if got, ok := bundle.Message("es", "core.a"); !ok || got != "a-es" {
		t.Fatalf("Message(es, core.a) = (%q, %v), want (a-es, true)", got, ok)
	}
	if got, ok := bundle.Message("es", "core.b"); !ok || got != "B" {
		t.Fatalf("Message(es, core.b) = (%q, %v), want (B, true)", got, ok)
	}
	if _, ok := bundle.Message("es", "core.missing"); ok {
		t.Fatal("expected missing key lookup to fail")
	}
	if _, ok := bundle.LocaleMessage("es", "core.b"); ok {
		t.Fatal("LocaleMessage should not fall back to the base locale")
	}
	if got, ok := bundle.LocaleMessage("es", "core.a"); !ok || got != "a-es" {
		t.Fatalf("LocaleMessage(es, core.a) = (%q, %v)", got, ok)
	}
}

func TestLoadFromFSRejectsKeyOutsideNamespace(t *testing.T) {
	_, err := LoadFromFS(fstest.MapFS{
		"locales/en/cart.yaml": &fstest.MapFile{Data: []byte("locale: en\nnamespace: cart\nmessages:\n  core.bad: \"nope\"\n")},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsLocaleMismatch(t *testing.T) {
	_, err := LoadFromFS(fstest.MapFS{
		"locales/en/core.yaml": &fstest.MapFile{Data: []byte("locale: es\nnamespace: core\nmessages:\n  core.a: \"a\"\n")},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRequiresBaseLocale(t *testing.T) {
	_, err := LoadFromFS(fstest.MapFS{
		"locales/ja/core.yaml": &fstest.MapFile{Data: []byte("locale: ja\nnamespace: core\nmessages:\n  core.a: \"a\"\n")},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadFromFSRejectsMalformedYAML(t *testing.T) {
	_, err := LoadFromFS(fstest.MapFS{
		"locales/en/core.yaml": &fstest.MapFile{Data: []byte("locale: [en\n")},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}
