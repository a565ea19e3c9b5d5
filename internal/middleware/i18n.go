package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"golang.org/x/text/language"
)

type localeContextKey struct{}
type countryContextKey struct{}

var (
	LocaleKey  = localeContextKey{}
	CountryKey = countryContextKey{}
)

// CountryLookup resolves ISO country codes for an IP address.
type CountryLookup func(ip string) (string, error)

const (
	localeEnglish = "en"
	localeItalian = "it"
)

var (
	supportedLocales = []language.Tag{language.English, language.Italian}
	localeMatcher    = language.NewMatcher(supportedLocales)

	// countryHeaders are set by CDNs and load balancers in front of the API.
	countryHeaders = []string{"X-Country-Code", "X-IP-Country", "CF-IPCountry", "X-Appengine-Country"}

	italianCountries = map[string]struct{}{"IT": {}, "SM": {}, "VA": {}}
)

// I18N stores the request locale and country in the context. The locale
// drives localized prompt suggestions and notification copy.
func I18N(defaultLocale string, lookup CountryLookup) func(http.Handler) http.Handler {
	fallback := normalizeLocale(defaultLocale)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			country := ResolveCountry(r, lookup)
			ctx := context.WithValue(r.Context(), LocaleKey, detectLocale(r, fallback, country))
			if country != "" {
				ctx = context.WithValue(ctx, CountryKey, country)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// detectLocale prefers X-Locale, then Accept-Language, then the country.
func detectLocale(r *http.Request, fallback, country string) string {
	if v := strings.TrimSpace(r.Header.Get("X-Locale")); v != "" {
		return normalizeLocale(v)
	}
	if v := parseAcceptLanguage(r.Header.Get("Accept-Language")); v != "" {
		return v
	}
	if country != "" {
		if _, ok := italianCountries[strings.ToUpper(country)]; ok {
			return localeItalian
		}
		return localeEnglish
	}
	if fallback != "" {
		return fallback
	}
	return localeEnglish
}

// parseAcceptLanguage picks the best supported locale honouring q-values.
func parseAcceptLanguage(header string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}
	tag, _ := language.MatchStrings(localeMatcher, header)
	return baseLocale(tag)
}

func normalizeLocale(locale string) string {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return ""
	}
	tag, err := language.Parse(strings.ReplaceAll(locale, "_", "-"))
	if err != nil {
		return localeEnglish
	}
	return baseLocale(tag)
}

func baseLocale(tag language.Tag) string {
	if base, _ := tag.Base(); base.String() == localeItalian {
		return localeItalian
	}
	return localeEnglish
}

// ClientIP returns the best-effort client IP address for the request.
func ClientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		first, _, _ := strings.Cut(xf, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func LocaleFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(LocaleKey).(string); ok {
		return v
	}
	return localeEnglish
}

// CountryFromContext returns the ISO country code stored in the request context.
func CountryFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CountryKey).(string); ok {
		return v
	}
	return ""
}

// ResolveCountry resolves a best-effort upper-case ISO country code: proxy
// headers first, then an explicit region in the locale headers, then an
// Italian language preference, then the GeoIP lookup.
func ResolveCountry(r *http.Request, lookup CountryLookup) string {
	if r == nil {
		return ""
	}
	for _, key := range countryHeaders {
		if val := strings.TrimSpace(r.Header.Get(key)); val != "" {
			return strings.ToUpper(val)
		}
	}
	xLocale, accept := r.Header.Get("X-Locale"), r.Header.Get("Accept-Language")
	if region := explicitRegion(xLocale); region != "" {
		return region
	}
	if region := explicitRegion(accept); region != "" {
		return region
	}
	if normalizeLocale(xLocale) == localeItalian || parseAcceptLanguage(accept) == localeItalian {
		return "IT"
	}
	if lookup != nil {
		if ip := ClientIP(r); ip != "" {
			if country, err := lookup(ip); err == nil && country != "" {
				return strings.ToUpper(country)
			}
		}
	}
	return ""
}

// explicitRegion returns the region subtag of the first tag in a locale or
// Accept-Language value that carries one.
func explicitRegion(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	tags, _, err := language.ParseAcceptLanguage(strings.ReplaceAll(value, "_", "-"))
	if err != nil {
		return ""
	}
	for _, tag := range tags {
		if region, conf := tag.Region(); conf == language.Exact {
			return region.String()
		}
	}
	return ""
}
