package console

import (
	"context"
	"strings"
)

// TranslationService exposes locale-aware translation helpers. Implementations
// can provide pluralization or interpolation; the console only relies on this
// lightweight interface.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// statusLabels maps raw backend status codes to per-locale display labels.
// English falls through to the title-cased raw value.
var statusLabels = map[string]map[string]string{
	"pending":   {"fr": "En attente", "es": "Pendiente"},
	"approved":  {"fr": "Approuvé", "es": "Aprobado"},
	"rejected":  {"fr": "Rejeté", "es": "Rechazado"},
	"draft":     {"fr": "Brouillon", "es": "Borrador"},
	"published": {"fr": "Publié", "es": "Publicado"},
	"cancelled": {"fr": "Annulé", "es": "Cancelado"},
	"active":    {"fr": "Actif", "es": "Activo"},
	"suspended": {"fr": "Suspendu", "es": "Suspendido"},
	"completed": {"fr": "Terminé", "es": "Completado"},
}

// StatusLabel returns the display label for a backend status code in the
// requested locale, falling back to a title-cased version of the raw status.
func StatusLabel(status, locale string) string {
	key := normalizeLocale(status)
	fallback := titleCase(key)
	labels, ok := statusLabels[key]
	if !ok {
		return fallback
	}
	return ResolveLocalizedValue(labels, locale, fallback)
}

// ResolveLocalizedValue selects the best translation for the provided locale
// and falls back to the supplied value. Keys match case-insensitively, and
// language-region pairs (`fr-ca`) fall back to their base language (`fr`).
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	for _, candidate := range localeCandidates(locale) {
		if candidate == "" {
			continue
		}
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	if value, ok := values["default"]; ok && value != "" {
		return value
	}
	return fallback
}

// NameForLocale returns the display name for the requested locale with
// graceful fallback to the default name.
func (def ResourceDefinition) NameForLocale(locale string) string {
	return ResolveLocalizedValue(def.NameLocalized, locale, def.Name)
}

// DescriptionForLocale returns the localized description if available.
func (def ResourceDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

func (def *ResourceDefinition) normalizeLocalizedFields() {
	def.NameLocalized = normalizeLocaleMap(def.NameLocalized)
	def.DescriptionLocalized = normalizeLocaleMap(def.DescriptionLocalized)
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	normalized := make(map[string]string, len(values))
	for key, value := range values {
		key = normalizeLocale(key)
		if key == "" || value == "" {
			continue
		}
		normalized[key] = value
	}
	return normalized
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	candidates = append(candidates, "default")
	return candidates
}

func normalizeLocale(locale string) string {
	return strings.TrimSpace(strings.ToLower(locale))
}

func titleCase(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
