package console

import (
	"context"
	"errors"
	"testing"
)

func TestStatusLabel(t *testing.T) {
	cases := []struct {
		status string
		locale string
		want   string
	}{
		{"pending", "fr", "En attente"},
		{"pending", "es", "Pendiente"},
		{"pending", "en", "Pending"},
		{"approved", "fr", "Approuvé"},
		{"PENDING", "fr", "En attente"},
		{"pending", "fr-CA", "En attente"},
		{"archived", "fr", "Archived"},
		{"", "fr", ""},
	}
	for _, tc := range cases {
		if got := StatusLabel(tc.status, tc.locale); got != tc.want {
			t.Errorf("StatusLabel(%q, %q) = %q, want %q", tc.status, tc.locale, got, tc.want)
		}
	}
}

func TestResolveLocalizedValue(t *testing.T) {
	values := map[string]string{
		"fr":      "Utilisateurs",
		"es":      "Usuarios",
		"default": "Accounts",
	}

	if got := ResolveLocalizedValue(values, "fr", "Users"); got != "Utilisateurs" {
		t.Fatalf("fr = %q", got)
	}
	if got := ResolveLocalizedValue(values, "FR", "Users"); got != "Utilisateurs" {
		t.Fatalf("case-insensitive lookup = %q", got)
	}
	if got := ResolveLocalizedValue(values, "fr-ca", "Users"); got != "Utilisateurs" {
		t.Fatalf("region fallback = %q", got)
	}
	// Unknown locale prefers the explicit default entry over the fallback.
	if got := ResolveLocalizedValue(values, "de", "Users"); got != "Accounts" {
		t.Fatalf("default entry = %q", got)
	}
	if got := ResolveLocalizedValue(nil, "fr", "Users"); got != "Users" {
		t.Fatalf("empty map fallback = %q", got)
	}
}

func TestNameForLocale(t *testing.T) {
	def := ResourceDefinition{
		Name:          "Users",
		NameLocalized: map[string]string{"fr": "Utilisateurs"},
	}
	if got := def.NameForLocale("fr"); got != "Utilisateurs" {
		t.Fatalf("fr name = %q", got)
	}
	if got := def.NameForLocale("ja"); got != "Users" {
		t.Fatalf("fallback name = %q", got)
	}
}

func TestNormalizeLocalizedFields(t *testing.T) {
	def := ResourceDefinition{
		Name: "Users",
		NameLocalized: map[string]string{
			" FR ": "Utilisateurs",
			"es":   "",
		},
	}
	def.normalizeLocalizedFields()

	if got := def.NameLocalized["fr"]; got != "Utilisateurs" {
		t.Fatalf("normalized map = %+v", def.NameLocalized)
	}
	if _, ok := def.NameLocalized["es"]; ok {
		t.Fatal("empty translation kept")
	}
}

type fakeTranslator struct {
	translations map[string]string
	err          error
}

func (tr fakeTranslator) Translate(_ context.Context, key, locale string, _ map[string]any) (string, error) {
	if tr.err != nil {
		return "", tr.err
	}
	return tr.translations[locale+":"+key], nil
}

func TestTranslateOrFallback(t *testing.T) {
	tr := fakeTranslator{translations: map[string]string{
		"fr:console.section.users.name": "Utilisateurs",
	}}

	got := translateOrFallback(context.Background(), tr, "console.section.users.name", "fr", "Users", nil)
	if got != "Utilisateurs" {
		t.Fatalf("translated = %q", got)
	}

	// Missing key falls back to the provided label.
	got = translateOrFallback(context.Background(), tr, "console.section.events.name", "fr", "Events", nil)
	if got != "Events" {
		t.Fatalf("fallback = %q", got)
	}

	// Errors never surface to rendering.
	failing := fakeTranslator{err: errors.New("service down")}
	got = translateOrFallback(context.Background(), failing, "console.section.users.name", "fr", "Users", nil)
	if got != "Users" {
		t.Fatalf("error fallback = %q", got)
	}

	got = translateOrFallback(context.Background(), nil, "console.key", "fr", "", nil)
	if got != "console.key" {
		t.Fatalf("key fallback = %q", got)
	}
}
