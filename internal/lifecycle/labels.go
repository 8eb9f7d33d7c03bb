package lifecycle

import "github.com/hunabku/comanda/internal/domain/model"

// Label is the display contract for a status: localized text plus an icon
// token the UI layer resolves however it likes.
type Label struct {
	Text string
	Icon string
}

const (
	LocaleES = "es"
	LocaleEN = "en"
)

// DefaultLocale is used when the requested locale is unsupported.
const DefaultLocale = LocaleES

var labels = map[string]map[model.OrderStatus]Label{
	LocaleES: {
		model.OrderStatusPending:   {Text: "Recibido", Icon: "clipboard-check"},
		model.OrderStatusPreparing: {Text: "Preparando", Icon: "utensils"},
		model.OrderStatusCooking:   {Text: "Cocinando", Icon: "fire"},
		model.OrderStatusReady:     {Text: "Listo", Icon: "check-circle"},
		model.OrderStatusDelivered: {Text: "Entregado", Icon: "concierge-bell"},
		model.OrderStatusCancelled: {Text: "Cancelado", Icon: "ban"},
	},
	LocaleEN: {
		model.OrderStatusPending:   {Text: "Received", Icon: "clipboard-check"},
		model.OrderStatusPreparing: {Text: "Preparing", Icon: "utensils"},
		model.OrderStatusCooking:   {Text: "Cooking", Icon: "fire"},
		model.OrderStatusReady:     {Text: "Ready", Icon: "check-circle"},
		model.OrderStatusDelivered: {Text: "Delivered", Icon: "concierge-bell"},
		model.OrderStatusCancelled: {Text: "Cancelled", Icon: "ban"},
	},
}

// LabelFor is a pure lookup of the display label for a status. Unknown
// statuses render as pending, unknown locales as the default locale.
func LabelFor(status model.OrderStatus, locale string) Label {
	table, ok := labels[locale]
	if !ok {
		table = labels[DefaultLocale]
	}
	status, _ = Normalize(string(status))
	return table[status]
}
