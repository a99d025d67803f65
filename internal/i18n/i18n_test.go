package i18n

import "testing"

func TestDetectLanguage(t *testing.T) {
	if DetectLanguage("en-US,en;q=0.9") != "en" {
		t.Fatalf("expected en")
	}
	if DetectLanguage("EN-gb") != "en" {
		t.Fatalf("expected en for EN-gb")
	}
	if DetectLanguage("fr-FR,en;q=0.8") != "en" {
		t.Fatalf("expected en as first supported language")
	}
	if DetectLanguage("fr-FR") != "es" {
		t.Fatalf("expected es fallback")
	}
	if DetectLanguage("") != "es" {
		t.Fatalf("expected default es")
	}
}

func TestTranslations(t *testing.T) {
	if T("en", "sale.customer_required") != "Select a customer" {
		t.Fatalf("expected english message")
	}
	if T("es", "sale.customer_required") != "Selecciona un cliente" {
		t.Fatalf("expected spanish message")
	}
	// unknown code -> fallback to code
	if T("en", "__nope__") != "__nope__" {
		t.Fatalf("expected fallback to code")
	}
	// unknown language -> fallback to es translation
	if T("fr", "sale.items_required") != "Agrega al menos un producto o servicio" {
		t.Fatalf("expected es fallback for fr lang")
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range messages["es"] {
		if _, ok := messages["en"][key]; !ok {
			t.Errorf("missing en translation for %q", key)
		}
	}
	for key := range messages["en"] {
		if _, ok := messages["es"][key]; !ok {
			t.Errorf("missing es translation for %q", key)
		}
	}
}
