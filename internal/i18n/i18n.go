package i18n

import "strings"

const DefaultLanguage = "es"

var messages = map[string]map[string]string{
	"es": {
		"sale.customer_required":   "Selecciona un cliente",
		"sale.items_required":      "Agrega al menos un producto o servicio",
		"sale.item_unselected":     "Hay una fila sin producto o servicio seleccionado",
		"sale.item_quantity":       "La cantidad debe ser al menos 1",
		"sale.item_price_negative": "El precio no puede ser negativo",
		"sale.submit_in_progress":  "La venta ya se está registrando",
		"sale.submit_failed":       "No se pudo registrar la venta, intenta de nuevo",
		"sale.submit_partial":      "La venta quedó registrada de forma incompleta, revisa el registro",
		"sale.not_found":           "Venta no encontrada",
		"draft.not_found":          "Venta en curso no encontrada",
		"line.not_found":           "Fila no encontrada",
		"line.price_fixed":         "El precio de este artículo es fijo",
		"catalog.item_not_found":   "Artículo no encontrado en el catálogo",
		"field.unknown":            "Campo no permitido",
		"payment.not_found":        "Pago no encontrado",
		"payment.invalid_method":   "Método de pago inválido",
		"payment.invalid_amount":   "El monto debe ser mayor que cero",
		"payment.exceeds_pending":  "El abono supera el saldo pendiente",
		"payment.nothing_pending":  "La venta no tiene saldo pendiente",
		"customer.name_required":   "El nombre del cliente es obligatorio",
		"customer.not_found":       "Cliente no encontrado",
		"expense.invalid":          "Gasto inválido",
		"backend.unavailable":      "El servidor no responde, intenta más tarde",
		"request.invalid":          "Solicitud inválida",
		"auth.required":            "Debes iniciar sesión",
		"auth.invalid":             "Sesión inválida o expirada",
		"internal":                 "Error interno",
		"ok":                       "Listo",
	},
	"en": {
		"sale.customer_required":   "Select a customer",
		"sale.items_required":      "Add at least one product or service",
		"sale.item_unselected":     "A row has no product or service selected",
		"sale.item_quantity":       "Quantity must be at least 1",
		"sale.item_price_negative": "Price cannot be negative",
		"sale.submit_in_progress":  "The sale is already being saved",
		"sale.submit_failed":       "The sale could not be saved, please retry",
		"sale.submit_partial":      "The sale was saved incompletely, please review it",
		"sale.not_found":           "Sale not found",
		"draft.not_found":          "Sale in progress not found",
		"line.not_found":           "Row not found",
		"line.price_fixed":         "This item has a fixed price",
		"catalog.item_not_found":   "Item not found in the catalog",
		"field.unknown":            "Field not allowed",
		"payment.not_found":        "Payment not found",
		"payment.invalid_method":   "Invalid payment method",
		"payment.invalid_amount":   "Amount must be greater than zero",
		"payment.exceeds_pending":  "The payment exceeds the pending amount",
		"payment.nothing_pending":  "The sale has nothing pending",
		"customer.name_required":   "Customer name is required",
		"customer.not_found":       "Customer not found",
		"expense.invalid":          "Invalid expense",
		"backend.unavailable":      "The server is not responding, try again later",
		"request.invalid":          "Invalid request",
		"auth.required":            "Sign in required",
		"auth.invalid":             "Invalid or expired session",
		"internal":                 "Internal error",
		"ok":                       "Done",
	},
}

// DetectLanguage picks the first supported language of an Accept-Language
// header, defaulting to Spanish.
func DetectLanguage(acceptLanguage string) string {
	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		lang := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if _, ok := messages[lang]; ok {
			return lang
		}
	}
	return DefaultLanguage
}

// T translates key, falling back to Spanish and then to the key itself.
func T(lang, key string) string {
	if msg, ok := messages[lang][key]; ok {
		return msg
	}
	if msg, ok := messages[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}
