// Package i18n provides internationalization support for the allocation service.
// It handles translation of user-facing messages and error messages.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the fallback language for unknown locales.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header carrying language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// catalog maps locale -> message key -> translated text.
var catalog = map[string]map[string]string{
	"en": {
		"error.invalid_request":      "Invalid request",
		"error.invalid_request_body": "Invalid request body",
		"error.internal_error":       "An unexpected error occurred",
		"error.unauthorized":         "Unauthorized",
		"error.invalid_credentials":  "User Not registered",
		"error.api_key_required":     "API key is required",
		"error.invalid_api_key":      "Invalid API key",
		"error.forbidden":            "Forbidden",
		"error.not_found":            "Not found",
		"error.rate_limit_exceeded":  "Too many requests, please try again later",
		"error.conflict":             "Conflict",
		"error.validation.quantities": "buy/ship: quantities must be non-negative integers for known sizes",
		"error.invalid_token":        "Invalid or expired token",
		"error.token_required":       "Authentication token is required",

		"success.allocated": "Allocation completed successfully",
	},
	"pt": {
		"error.invalid_request":      "Requisição inválida",
		"error.invalid_request_body": "Corpo da requisição inválido",
		"error.internal_error":       "Ocorreu um erro inesperado",
		"error.unauthorized":         "Não autorizado",
		"error.invalid_credentials":  "Usuário não registrado",
		"error.api_key_required":     "Chave de API é obrigatória",
		"error.invalid_api_key":      "Chave de API inválida",
		"error.forbidden":            "Proibido",
		"error.not_found":            "Não encontrado",
		"error.rate_limit_exceeded":  "Muitas requisições, tente novamente mais tarde",
		"error.conflict":             "Conflito",
		"error.validation.quantities": "buy/ship: as quantidades devem ser inteiros não negativos para tamanhos conhecidos",
		"error.invalid_token":        "Token inválido ou expirado",
		"error.token_required":       "Token de autenticação é obrigatório",

		"success.allocated": "Alocação concluída com sucesso",
	},
	"nl": {
		"error.invalid_request":      "Ongeldig verzoek",
		"error.invalid_request_body": "Ongeldige aanvraag body",
		"error.internal_error":       "Er is een onverwachte fout opgetreden",
		"error.unauthorized":         "Niet geautoriseerd",
		"error.invalid_credentials":  "Gebruiker niet geregistreerd",
		"error.api_key_required":     "API-sleutel is vereist",
		"error.invalid_api_key":      "Ongeldige API-sleutel",
		"error.forbidden":            "Verboden",
		"error.not_found":            "Niet gevonden",
		"error.rate_limit_exceeded":  "Te veel verzoeken, probeer het later opnieuw",
		"error.conflict":             "Conflict",
		"error.validation.quantities": "buy/ship: hoeveelheden moeten niet-negatieve gehele getallen zijn voor bekende maten",
		"error.invalid_token":        "Ongeldig of verlopen token",
		"error.token_required":       "Authenticatietoken is vereist",

		"success.allocated": "Toewijzing succesvol voltooid",
	},
}

// Translator resolves message keys to localized text.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a translator backed by the built-in catalog.
func NewTranslator() *Translator {
	return &Translator{messages: catalog}
}

// GetTranslator returns the shared translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate resolves key in the given locale. Unknown locales fall back
// to DefaultLocale; a key missing everywhere is returned as-is so the
// caller still gets something displayable.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

func (t *Translator) supported(lang string) bool {
	_, ok := t.messages[lang]
	return ok
}

// GetLocale picks the request's locale from the Accept-Language header,
// e.g. "en-US,en;q=0.9,pt;q=0.8". Only the first entry is considered;
// quality values are ignored. Unsupported languages map to DefaultLocale.
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	first := strings.TrimSpace(strings.Split(strings.Split(header, ",")[0], ";")[0])
	if idx := strings.Index(first, "-"); idx > 0 {
		first = first[:idx]
	}
	first = strings.ToLower(first)

	if GetTranslator().supported(first) {
		return first
	}
	return DefaultLocale
}
